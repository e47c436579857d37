package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/dvbwitso/kire-studio/internal/inventory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPricer struct {
	items map[string]domain.CatalogItem
	err   error
}

func (m *mockPricer) Product(_ context.Context, id string) (domain.CatalogItem, error) {
	if m.err != nil {
		return domain.CatalogItem{}, m.err
	}
	item, exists := m.items[id]
	if !exists {
		return domain.CatalogItem{}, fmt.Errorf("product %s not found", id)
	}
	return item, nil
}

func newTestService(stocks map[string]int, pricer Pricer) *Service {
	ledger := inventory.NewLedger()
	ledger.Seed(stocks)
	return NewService(NewMemoryStore(), ledger, pricer)
}

func TestGet_NoCartYet_ReturnsEmptyCart(t *testing.T) {
	sut := newTestService(map[string]int{}, &mockPricer{})

	c, err := sut.Get(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, "session-1", c.SessionID)
	assert.True(t, c.IsEmpty())
}

func TestAdjust_Increment(t *testing.T) {
	sut := newTestService(map[string]int{"body-oil-1": 10}, &mockPricer{})

	c, err := sut.Adjust(context.Background(), "session-1", "body-oil-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Quantity("body-oil-1"))

	c, err = sut.Adjust(context.Background(), "session-1", "body-oil-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Quantity("body-oil-1"))
}

func TestAdjust_ClampsAtStock(t *testing.T) {
	sut := newTestService(map[string]int{"body-oil-1": 3}, &mockPricer{})
	ctx := context.Background()

	c, err := sut.Adjust(ctx, "session-1", "body-oil-1", 5)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Quantity("body-oil-1"))

	// Further increments at the bound are silent no-ops.
	c, err = sut.Adjust(ctx, "session-1", "body-oil-1", 1)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Quantity("body-oil-1"))
}

func TestAdjust_OutOfStockProduct_NeverEntersCart(t *testing.T) {
	sut := newTestService(map[string]int{"serum-2": 0}, &mockPricer{})

	c, err := sut.Adjust(context.Background(), "session-1", "serum-2", 1)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestAdjust_DecrementToZero_RemovesLine(t *testing.T) {
	sut := newTestService(map[string]int{"serum-1": 5}, &mockPricer{})
	ctx := context.Background()

	_, err := sut.Adjust(ctx, "session-1", "serum-1", 1)
	require.NoError(t, err)

	c, err := sut.Adjust(ctx, "session-1", "serum-1", -1)
	require.NoError(t, err)
	_, present := c.Lines["serum-1"]
	assert.False(t, present, "zero-quantity lines must not be stored")
	assert.True(t, c.IsEmpty())
}

func TestAdjust_DecrementBelowZero_Clamps(t *testing.T) {
	sut := newTestService(map[string]int{"serum-1": 5}, &mockPricer{})

	c, err := sut.Adjust(context.Background(), "session-1", "serum-1", -3)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestAdjust_UnknownProduct(t *testing.T) {
	sut := newTestService(map[string]int{}, &mockPricer{})

	_, err := sut.Adjust(context.Background(), "session-1", "ghost", 1)
	assert.ErrorIs(t, err, inventory.ErrUnknownProduct)
}

func TestTotal_RoundsFinalSumOnly(t *testing.T) {
	pricer := &mockPricer{items: map[string]domain.CatalogItem{
		"body-oil-1": {ID: "body-oil-1", Price: domain.Money{Currency: "ZMW", Amount: 179.97}},
		"serum-1":    {ID: "serum-1", Price: domain.Money{Currency: "ZMW", Amount: 250}},
	}}
	sut := newTestService(map[string]int{"body-oil-1": 10, "serum-1": 10}, pricer)
	ctx := context.Background()

	_, err := sut.Adjust(ctx, "session-1", "body-oil-1", 3)
	require.NoError(t, err)
	_, err = sut.Adjust(ctx, "session-1", "serum-1", 1)
	require.NoError(t, err)

	total, err := sut.Total(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, "ZMW", total.Currency)
	assert.Equal(t, 789.91, total.Amount)
}

func TestTotal_EmptyCart(t *testing.T) {
	sut := newTestService(map[string]int{}, &mockPricer{})

	total, err := sut.Total(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, total.Amount)
}

func TestTotal_PricerError(t *testing.T) {
	sut := newTestService(map[string]int{"serum-1": 5}, &mockPricer{err: fmt.Errorf("cms down")})
	ctx := context.Background()

	_, err := sut.Adjust(ctx, "session-1", "serum-1", 1)
	require.NoError(t, err)

	_, err = sut.Total(ctx, "session-1")
	require.ErrorContains(t, err, "cms down")
}

func TestItemCount(t *testing.T) {
	sut := newTestService(map[string]int{"body-oil-1": 10, "serum-1": 10}, &mockPricer{})
	ctx := context.Background()

	_, err := sut.Adjust(ctx, "session-1", "body-oil-1", 2)
	require.NoError(t, err)
	_, err = sut.Adjust(ctx, "session-1", "serum-1", 3)
	require.NoError(t, err)

	count, err := sut.ItemCount(ctx, "session-1")
	require.NoError(t, err)
	assert.Equal(t, 5, count)
}

func TestClear(t *testing.T) {
	sut := newTestService(map[string]int{"serum-1": 5}, &mockPricer{})
	ctx := context.Background()

	_, err := sut.Adjust(ctx, "session-1", "serum-1", 2)
	require.NoError(t, err)

	require.NoError(t, sut.Clear(ctx, "session-1"))

	c, err := sut.Get(ctx, "session-1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestCartsAreIsolatedPerSession(t *testing.T) {
	sut := newTestService(map[string]int{"serum-1": 5}, &mockPricer{})
	ctx := context.Background()

	_, err := sut.Adjust(ctx, "session-1", "serum-1", 2)
	require.NoError(t, err)

	c, err := sut.Get(ctx, "session-2")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}
