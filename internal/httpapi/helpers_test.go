package httpapi

import (
	"context"
	"net/http"

	"github.com/dvbwitso/kire-studio/internal/booking"
	"github.com/dvbwitso/kire-studio/internal/cart"
	"github.com/dvbwitso/kire-studio/internal/catalog"
	"github.com/dvbwitso/kire-studio/internal/checkout"
	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/dvbwitso/kire-studio/internal/inventory"
)

// stubSource backs the catalog service with fixed CMS content.
type stubSource struct {
	products []domain.CatalogItem
	services []domain.CatalogItem
	schedule domain.Schedule
}

func (s *stubSource) FetchProducts(context.Context) ([]domain.CatalogItem, error) {
	return s.products, nil
}

func (s *stubSource) FetchServices(context.Context) ([]domain.CatalogItem, error) {
	return s.services, nil
}

func (s *stubSource) FetchSchedule(context.Context) (domain.Schedule, error) {
	return s.schedule, nil
}

// stubCache always misses so handler tests exercise the source directly.
type stubCache struct{}

func (stubCache) Get(context.Context, string) ([]domain.CatalogItem, error) {
	return nil, catalog.ErrCacheMiss
}

func (stubCache) Set(context.Context, string, []domain.CatalogItem) error { return nil }

func (stubCache) Delete(context.Context, string) error { return nil }

type stubCommitter struct{}

func (stubCommitter) DecrementStock(context.Context, string, int) error { return nil }

type stubEvents struct{}

func (stubEvents) InsertEvent(context.Context, string, string, []byte) error { return nil }

type stubRecorder struct{}

func (stubRecorder) CreateBooking(context.Context, domain.Booking) error { return nil }

type stubBookingRepo struct {
	booked    map[string][]string
	createErr error
}

func (s *stubBookingRepo) Create(_ context.Context, _ *domain.Booking) error {
	return s.createErr
}

func (s *stubBookingRepo) BookedSlots(context.Context) (map[string][]string, error) {
	return s.booked, nil
}

// testEnv wires the full service stack over in-memory stores and stub
// external systems.
type testEnv struct {
	catalog *catalog.Service
	carts   *cart.Service
	ledger  *inventory.Ledger
}

func newTestEnv(source *stubSource) *testEnv {
	ledger := inventory.NewLedger()
	catalogService := catalog.NewService(source, stubCache{}, ledger)
	carts := cart.NewService(cart.NewMemoryStore(), ledger, catalogService)
	return &testEnv{catalog: catalogService, carts: carts, ledger: ledger}
}

func (e *testEnv) sequencer() *checkout.Sequencer {
	return checkout.NewSequencer(e.carts, e.ledger, e.catalog, stubCommitter{}, stubEvents{})
}

func (e *testEnv) bookings(repo booking.Repository) *booking.Service {
	return booking.NewService(e.catalog, repo, stubRecorder{}, stubEvents{})
}

// withSession attaches a session id the way SessionMiddleware would.
func withSession(r *http.Request, sessionID string) *http.Request {
	ctx := context.WithValue(r.Context(), sessionKey, sessionID)
	return r.WithContext(ctx)
}
