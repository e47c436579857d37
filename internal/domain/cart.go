package domain

import "time"

// Cart maps product ids to requested quantities for one storefront session.
// A line with quantity zero is never stored; an empty Lines map means an
// empty cart.
type Cart struct {
	SessionID string         `json:"session_id"`
	Lines     map[string]int `json:"lines"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func NewCart(sessionID string) *Cart {
	now := time.Now()
	return &Cart{
		SessionID: sessionID,
		Lines:     make(map[string]int),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) Quantity(itemID string) int {
	return c.Lines[itemID]
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// ItemCount is the sum of all quantities, not the number of distinct lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, q := range c.Lines {
		count += q
	}
	return count
}
