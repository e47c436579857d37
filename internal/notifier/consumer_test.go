package notifier

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockNotifier struct {
	m        sync.Mutex
	orders   []domain.Order
	bookings []domain.Booking
	err      error
}

func (m *mockNotifier) NotifyOrderCompleted(_ context.Context, order domain.Order) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.orders = append(m.orders, order)
	return nil
}

func (m *mockNotifier) NotifyBookingConfirmed(_ context.Context, booking domain.Booking) error {
	m.m.Lock()
	defer m.m.Unlock()
	if m.err != nil {
		return m.err
	}
	m.bookings = append(m.bookings, booking)
	return nil
}

func TestNewConsumer_MultipleBrokers(t *testing.T) {
	c := NewConsumer(&mockNotifier{}, "kafka-1:9092", "kafka-2:9092")
	defer c.Close()

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.reader.Config().Brokers)
}

func TestDispatch_OrderCompleted(t *testing.T) {
	mock := &mockNotifier{}
	c := &Consumer{notifier: mock}

	order := domain.Order{ID: "order-1", TotalAmount: 360, Currency: "ZMW"}
	payload, err := json.Marshal(order)
	require.NoError(t, err)

	c.dispatch(context.Background(), "order.completed", payload)

	require.Len(t, mock.orders, 1)
	assert.Equal(t, "order-1", mock.orders[0].ID)
	assert.Equal(t, 360.0, mock.orders[0].TotalAmount)
}

func TestDispatch_BookingConfirmed(t *testing.T) {
	mock := &mockNotifier{}
	c := &Consumer{notifier: mock}

	booking := domain.Booking{ID: "booking-1", Service: "Signature Facial", Date: "2025-09-02", Time: "9:00 AM"}
	payload, err := json.Marshal(booking)
	require.NoError(t, err)

	c.dispatch(context.Background(), "booking.confirmed", payload)

	require.Len(t, mock.bookings, 1)
	assert.Equal(t, "Signature Facial", mock.bookings[0].Service)
}

func TestDispatch_UnknownEventType_Skipped(t *testing.T) {
	mock := &mockNotifier{}
	c := &Consumer{notifier: mock}

	c.dispatch(context.Background(), "order.refunded", []byte(`{}`))

	assert.Empty(t, mock.orders)
	assert.Empty(t, mock.bookings)
}

func TestDispatch_MalformedPayload_Skipped(t *testing.T) {
	mock := &mockNotifier{}
	c := &Consumer{notifier: mock}

	c.dispatch(context.Background(), "order.completed", []byte(`{"order_id":`))

	assert.Empty(t, mock.orders)
}

func TestDispatch_NotifierError_DoesNotPanic(t *testing.T) {
	mock := &mockNotifier{err: assert.AnError}
	c := &Consumer{notifier: mock}

	payload, _ := json.Marshal(domain.Order{ID: "order-1"})
	c.dispatch(context.Background(), "order.completed", payload)
}
