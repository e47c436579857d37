package catalog

import (
	"context"
	"errors"

	"github.com/dvbwitso/kire-studio/internal/domain"
)

var ErrCacheMiss = errors.New("catalog not in cache")

// Cache holds catalog snapshots keyed by collection name ("products",
// "services").
type Cache interface {
	Get(ctx context.Context, key string) ([]domain.CatalogItem, error)
	Set(ctx context.Context, key string, items []domain.CatalogItem) error
	Delete(ctx context.Context, key string) error
}
