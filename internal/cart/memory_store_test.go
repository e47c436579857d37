package cart

import (
	"context"
	"testing"

	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestMemoryStore_SaveAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := domain.NewCart("session-1")
	c.Lines["serum-1"] = 2
	require.NoError(t, store.Save(ctx, c))

	got, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity("serum-1"))
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := domain.NewCart("session-1")
	c.Lines["serum-1"] = 2
	require.NoError(t, store.Save(ctx, c))

	// Mutating what the caller saved or got back must not leak into the
	// stored cart.
	c.Lines["serum-1"] = 99

	got, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Quantity("serum-1"))

	got.Lines["serum-1"] = 50
	again, err := store.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Quantity("serum-1"))
}

func TestMemoryStore_Delete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	c := domain.NewCart("session-1")
	require.NoError(t, store.Save(ctx, c))
	require.NoError(t, store.Delete(ctx, "session-1"))

	_, err := store.Get(ctx, "session-1")
	assert.ErrorIs(t, err, ErrCartNotFound)

	// Deleting a missing cart is not an error.
	assert.NoError(t, store.Delete(ctx, "missing"))
}
