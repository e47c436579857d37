package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/dvbwitso/kire-studio/internal/outbox"
	"github.com/segmentio/kafka-go"
)

// Notifier dispatches customer-facing notifications for storefront events.
type Notifier interface {
	NotifyOrderCompleted(ctx context.Context, order domain.Order) error
	NotifyBookingConfirmed(ctx context.Context, booking domain.Booking) error
}

// Consumer reads the storefront outbox topic and fans events out to the
// notifier. Events it cannot parse are logged and skipped; delivery is
// at-least-once so notifiers should tolerate duplicates.
type Consumer struct {
	notifier Notifier
	reader   *kafka.Reader
}

func NewConsumer(notifier Notifier, brokers ...string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		Topic:    outbox.Topic,
		GroupID:  "notifier",
		MaxBytes: 10e6, // 10MB
	})
	return &Consumer{notifier, reader}
}

func (c *Consumer) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		c.processMessage(ctx)
	}
}

func (c *Consumer) Close() {
	err := c.reader.Close()
	if err != nil {
		fmt.Printf("error closing kafka reader: %v\n", err)
	}
}

func (c *Consumer) processMessage(ctx context.Context) {
	m, err := c.reader.ReadMessage(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Printf("error reading message: %v", err)
		return
	}

	c.dispatch(ctx, eventType(m), m.Value)
}

func (c *Consumer) dispatch(ctx context.Context, eventType string, payload []byte) {
	switch eventType {
	case "order.completed":
		var order domain.Order
		if err := json.Unmarshal(payload, &order); err != nil {
			log.Printf("error parsing order event: %v", err)
			return
		}
		if err := c.notifier.NotifyOrderCompleted(ctx, order); err != nil {
			log.Printf("order notification for %s failed: %v", order.ID, err)
		}
	case "booking.confirmed":
		var booking domain.Booking
		if err := json.Unmarshal(payload, &booking); err != nil {
			log.Printf("error parsing booking event: %v", err)
			return
		}
		if err := c.notifier.NotifyBookingConfirmed(ctx, booking); err != nil {
			log.Printf("booking notification for %s failed: %v", booking.ID, err)
		}
	default:
		log.Printf("skipping event with unknown type %q", eventType)
	}
}

func eventType(m kafka.Message) string {
	for _, h := range m.Headers {
		if h.Key == "event_type" {
			return string(h.Value)
		}
	}
	return ""
}
