package catalog

import (
	"context"
	"errors"
	"log"

	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/dvbwitso/kire-studio/internal/inventory"
	"golang.org/x/sync/singleflight"
)

var ErrItemNotFound = errors.New("catalog item not found")

const (
	keyProducts = "products"
	keyServices = "services"
)

// Source is the CMS read surface the catalog depends on.
type Source interface {
	FetchProducts(ctx context.Context) ([]domain.CatalogItem, error)
	FetchServices(ctx context.Context) ([]domain.CatalogItem, error)
	FetchSchedule(ctx context.Context) (domain.Schedule, error)
}

// Service is the storefront's read path for catalog content. Fetches go
// through the cache with a singleflight guard; a failing CMS degrades to an
// empty catalog rather than an error, so the shop renders its empty state.
type Service struct {
	source Source
	cache  Cache
	ledger *inventory.Ledger
	sfg    singleflight.Group
}

func NewService(source Source, cache Cache, ledger *inventory.Ledger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		ledger: ledger,
	}
}

// Products returns the shop catalog. Each uncached fetch reseeds the stock
// ledger so cart clamping follows what the content editors published.
func (s *Service) Products(ctx context.Context) []domain.CatalogItem {
	return s.fetch(ctx, keyProducts, func(items []domain.CatalogItem) {
		stocks := make(map[string]int, len(items))
		for _, item := range items {
			stocks[item.ID] = item.Stock
		}
		s.ledger.Seed(stocks)
	})
}

func (s *Service) Services(ctx context.Context) []domain.CatalogItem {
	return s.fetch(ctx, keyServices, nil)
}

// Product looks up a single product by id.
func (s *Service) Product(ctx context.Context, id string) (domain.CatalogItem, error) {
	for _, item := range s.Products(ctx) {
		if item.ID == id {
			return item, nil
		}
	}
	return domain.CatalogItem{}, ErrItemNotFound
}

// Schedule returns the booking availability table. Not cached: availability
// must track the CMS closely, singleflight alone covers bursts.
func (s *Service) Schedule(ctx context.Context) domain.Schedule {
	v, err, _ := s.sfg.Do("schedule", func() (interface{}, error) {
		return s.source.FetchSchedule(ctx)
	})
	if err != nil {
		log.Printf("schedule fetch failed, serving empty schedule: %v", err)
		return domain.Schedule{}
	}
	schedule := v.(domain.Schedule)
	if schedule == nil {
		return domain.Schedule{}
	}
	return schedule
}

// Refresh drops cached snapshots so the next read hits the CMS.
func (s *Service) Refresh(ctx context.Context) {
	for _, key := range []string{keyProducts, keyServices} {
		if err := s.cache.Delete(ctx, key); err != nil {
			log.Printf("cache invalidate error for %s: %v", key, err)
		}
	}
}

func (s *Service) fetch(ctx context.Context, key string, onFetch func([]domain.CatalogItem)) []domain.CatalogItem {
	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		items, cacheErr := s.cache.Get(ctx, key)
		if cacheErr == nil {
			return items, nil
		}
		if !errors.Is(cacheErr, ErrCacheMiss) {
			log.Printf("cache get error: %v", cacheErr)
		}

		items, fetchErr := s.fetchSource(ctx, key)
		if fetchErr != nil {
			return nil, fetchErr
		}

		if onFetch != nil {
			onFetch(items)
		}

		go func() {
			if setErr := s.cache.Set(context.Background(), key, items); setErr != nil {
				log.Printf("cache set error: %v", setErr)
			}
		}()

		return items, nil
	})

	if err != nil {
		// Fail soft: an unreachable CMS means an empty shop, not a crash.
		log.Printf("catalog fetch for %s failed, serving empty list: %v", key, err)
		return []domain.CatalogItem{}
	}

	items := v.([]domain.CatalogItem)
	if items == nil {
		return []domain.CatalogItem{}
	}
	return items
}

func (s *Service) fetchSource(ctx context.Context, key string) ([]domain.CatalogItem, error) {
	if key == keyServices {
		return s.source.FetchServices(ctx)
	}
	return s.source.FetchProducts(ctx)
}
