package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrBadPrice = errors.New("malformed price string")

// Money is a price amount with its currency code. The CMS stores prices as
// formatted strings like "ZMW 180"; ParsePrice converts them once at the
// data boundary so all arithmetic runs on the numeric amount.
type Money struct {
	Currency string  `json:"currency"`
	Amount   float64 `json:"amount"`
}

func ParsePrice(s string) (Money, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return Money{}, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(fields[1], ",", ""), 64)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	if amount < 0 {
		return Money{}, fmt.Errorf("%w: negative amount in %q", ErrBadPrice, s)
	}

	return Money{Currency: fields[0], Amount: amount}, nil
}

// String renders the display form the CMS uses ("ZMW 180", "ZMW 180.50").
func (m Money) String() string {
	if m.Amount == math.Trunc(m.Amount) {
		return fmt.Sprintf("%s %d", m.Currency, int64(m.Amount))
	}
	return fmt.Sprintf("%s %.2f", m.Currency, m.Amount)
}

// RoundTotal applies two-decimal currency rounding. Callers round the final
// sum only, never per line.
func RoundTotal(amount float64) float64 {
	return math.Round(amount*100) / 100
}
