package cart

import (
	"context"
	"sync"

	"github.com/dvbwitso/kire-studio/internal/domain"
)

// MemoryStore keeps session carts in process memory. The default for
// single-instance deployments and tests; RedisStore covers restarts.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		carts: make(map[string]*domain.Cart),
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cart, exists := s.carts[sessionID]
	if !exists {
		return nil, ErrCartNotFound
	}
	return copyCart(cart), nil
}

func (s *MemoryStore) Save(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[cart.SessionID] = copyCart(cart)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, sessionID)
	return nil
}

// copyCart isolates callers from the stored map.
func copyCart(cart *domain.Cart) *domain.Cart {
	lines := make(map[string]int, len(cart.Lines))
	for id, q := range cart.Lines {
		lines[id] = q
	}
	out := *cart
	out.Lines = lines
	return &out
}
