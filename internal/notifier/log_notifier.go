package notifier

import (
	"context"
	"log"

	"github.com/dvbwitso/kire-studio/internal/domain"
)

// LogNotifier writes notifications to the process log. Stands in until an
// SMS/email provider is wired up.
type LogNotifier struct{}

func (LogNotifier) NotifyOrderCompleted(_ context.Context, order domain.Order) error {
	log.Printf("notify %s: order %s confirmed, %d item(s), %s %.2f via %s",
		order.Customer.Phone, order.ID, len(order.Lines), order.Currency, order.TotalAmount, order.PaymentMethod)
	return nil
}

func (LogNotifier) NotifyBookingConfirmed(_ context.Context, booking domain.Booking) error {
	log.Printf("notify %s: booking %s confirmed for %s on %s at %s",
		booking.Phone, booking.ID, booking.Service, booking.Date, booking.Time)
	return nil
}
