package domain

import "time"

// Product categories as configured in the CMS product schema.
const (
	CategoryFaceSerums   = "Face Serums"
	CategoryBodyOils     = "Body Oils"
	CategoryCleansers    = "Cleansers"
	CategoryMoisturizers = "Moisturizers"
)

// CatalogItem is a purchasable product or bookable service as read from the
// CMS. The storefront only reads items; edits happen in the CMS studio.
type CatalogItem struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Category           string     `json:"category"`
	Description        string     `json:"description,omitempty"`
	Price              Money      `json:"price"`
	OriginalPrice      *Money     `json:"original_price,omitempty"`
	DiscountPercentage float64    `json:"discount_percentage,omitempty"`
	Stock              int        `json:"stock"`
	IsNew              bool       `json:"is_new,omitempty"`
	NewUntil           *time.Time `json:"new_until,omitempty"`
	ImageURL           string     `json:"image_url,omitempty"`
}

// OnSale reports whether the item carries a discount. Both the percentage
// and the original price must be present, matching the CMS schema contract.
func (c CatalogItem) OnSale() bool {
	return c.DiscountPercentage > 0 && c.OriginalPrice != nil
}

// IsNewAt reports whether the item should display its "new" badge at the
// given moment. Time is an explicit parameter so the derivation is
// deterministic under test.
func (c CatalogItem) IsNewAt(now time.Time) bool {
	if !c.IsNew {
		return false
	}
	if c.NewUntil != nil {
		return !now.After(*c.NewUntil)
	}
	return true
}
