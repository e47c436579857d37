package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/dvbwitso/kire-studio/internal/inventory"
)

// Pricer resolves product ids to catalog items for totals. Satisfied by
// catalog.Service.
type Pricer interface {
	Product(ctx context.Context, id string) (domain.CatalogItem, error)
}

// Service owns the per-session cart quantities. Every adjustment clamps
// into [0, stock] against the inventory ledger; nothing here touches stock
// itself, that happens only at checkout completion.
type Service struct {
	store  Store
	ledger *inventory.Ledger
	pricer Pricer
}

func NewService(store Store, ledger *inventory.Ledger, pricer Pricer) *Service {
	return &Service{
		store:  store,
		ledger: ledger,
		pricer: pricer,
	}
}

// Get returns the session's cart, an empty one if none exists yet.
func (s *Service) Get(ctx context.Context, sessionID string) (*domain.Cart, error) {
	cart, err := s.store.Get(ctx, sessionID)
	if errors.Is(err, ErrCartNotFound) {
		return domain.NewCart(sessionID), nil
	}
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// Adjust changes a line's quantity by delta. The UI only ever sends ±1 but
// any signed integer is accepted. The new quantity clamps into [0, stock];
// an increment at the stock bound is a silent no-op and a result of zero
// removes the line entirely, so an empty cart is an empty mapping.
func (s *Service) Adjust(ctx context.Context, sessionID, itemID string, delta int) (*domain.Cart, error) {
	stock, err := s.ledger.Stock(itemID)
	if err != nil {
		return nil, fmt.Errorf("adjust %s: %w", itemID, err)
	}

	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	quantity := cart.Quantity(itemID) + delta
	if quantity < 0 {
		quantity = 0
	}
	if quantity > stock {
		quantity = stock
	}

	if quantity == cart.Quantity(itemID) {
		return cart, nil
	}

	if quantity == 0 {
		delete(cart.Lines, itemID)
	} else {
		cart.Lines[itemID] = quantity
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Total sums quantity times unit price over all lines. Rounding to two
// decimals happens on the final sum only.
func (s *Service) Total(ctx context.Context, sessionID string) (domain.Money, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return domain.Money{}, err
	}

	var total domain.Money
	for id, quantity := range cart.Lines {
		item, err := s.pricer.Product(ctx, id)
		if err != nil {
			return domain.Money{}, fmt.Errorf("price lookup for %s: %w", id, err)
		}
		total.Currency = item.Price.Currency
		total.Amount += float64(quantity) * item.Price.Amount
	}
	total.Amount = domain.RoundTotal(total.Amount)
	return total, nil
}

// ItemCount is the sum of all quantities in the session's cart.
func (s *Service) ItemCount(ctx context.Context, sessionID string) (int, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return cart.ItemCount(), nil
}

// Clear drops the session's cart.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, sessionID)
}
