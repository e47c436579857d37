package inventory

import (
	"errors"
	"sync"
)

var ErrUnknownProduct = errors.New("unknown product")

// Ledger is the storefront's live view of stock, seeded from each catalog
// fetch. The cart clamps against it and checkout completion decrements it.
// The CMS counter is synced separately, fire-and-forget.
type Ledger struct {
	mu     sync.RWMutex
	stocks map[string]int
}

func NewLedger() *Ledger {
	return &Ledger{
		stocks: make(map[string]int),
	}
}

// Seed replaces the ledger with the stock levels from a catalog snapshot.
func (l *Ledger) Seed(stocks map[string]int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stocks = make(map[string]int, len(stocks))
	for id, quantity := range stocks {
		if quantity < 0 {
			quantity = 0
		}
		l.stocks[id] = quantity
	}
}

func (l *Ledger) Stock(productID string) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stock, exists := l.stocks[productID]
	if !exists {
		return 0, ErrUnknownProduct
	}
	return stock, nil
}

// Decrement lowers a product's stock, flooring at zero. Stock must never go
// negative even under duplicate completion calls.
func (l *Ledger) Decrement(productID string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	stock, exists := l.stocks[productID]
	if !exists {
		return ErrUnknownProduct
	}
	if amount < 0 {
		amount = 0
	}

	stock -= amount
	if stock < 0 {
		stock = 0
	}
	l.stocks[productID] = stock
	return nil
}

func (l *Ledger) Snapshot() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make(map[string]int, len(l.stocks))
	for id, quantity := range l.stocks {
		out[id] = quantity
	}
	return out
}
