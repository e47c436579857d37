package booking

import (
	"context"
	"errors"

	"github.com/dvbwitso/kire-studio/internal/domain"
)

var ErrSlotTaken = errors.New("slot already booked")

// Repository persists confirmed bookings. Create must reject a second
// booking for the same (date, time) pair with ErrSlotTaken; that unique
// constraint is what prevents two sessions confirming the same slot.
type Repository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	BookedSlots(ctx context.Context) (map[string][]string, error)
}
