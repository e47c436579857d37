package cart

import (
	"context"
	"errors"

	"github.com/dvbwitso/kire-studio/internal/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// Store persists session carts. Both implementations keep the same
// contract: Get returns ErrCartNotFound for unknown sessions, Delete on a
// missing cart is not an error.
type Store interface {
	Get(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, sessionID string) error
}
