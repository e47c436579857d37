package domain

import "time"

type PaymentMethod string

const (
	PaymentMTNMomo     PaymentMethod = "mtn-momo"
	PaymentAirtelMoney PaymentMethod = "airtel-money"
	PaymentCard        PaymentMethod = "card"
)

func (p PaymentMethod) Valid() bool {
	switch p {
	case PaymentMTNMomo, PaymentAirtelMoney, PaymentCard:
		return true
	}
	return false
}

// CustomerInfo holds the contact fields collected on the details step.
// Presence is the only validation the storefront performs; format checks
// are deliberately out of contract.
type CustomerInfo struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

func (c CustomerInfo) Complete() bool {
	return c.Name != "" && c.Email != "" && c.Phone != "" && c.Address != "" && c.City != ""
}

type OrderLine struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// Order is the snapshot taken when a checkout completes. It is published to
// the outbox and then discarded; the storefront keeps no order history.
type Order struct {
	ID            string        `json:"order_id"`
	SessionID     string        `json:"session_id"`
	Lines         []OrderLine   `json:"items"`
	TotalAmount   float64       `json:"total_amount"`
	Currency      string        `json:"currency"`
	Customer      CustomerInfo  `json:"customer"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CompletedAt   time.Time     `json:"completed_at"`
}
