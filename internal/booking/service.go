package booking

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/google/uuid"
)

var (
	ErrDateNotSelectable = errors.New("date not selectable")
	ErrSlotUnavailable   = errors.New("slot unavailable")
	ErrIncompleteContact = errors.New("incomplete booking details")
)

// ScheduleSource supplies the CMS availability table. Satisfied by
// catalog.Service.
type ScheduleSource interface {
	Schedule(ctx context.Context) domain.Schedule
}

// Recorder pushes confirmed bookings into the CMS so studio staff see them
// in the studio. Satisfied by cms.Client.
type Recorder interface {
	CreateBooking(ctx context.Context, booking domain.Booking) error
}

// EventSink records booking events for asynchronous publication. Satisfied
// by outbox.Repository.
type EventSink interface {
	InsertEvent(ctx context.Context, eventType, aggregateID string, payload []byte) error
}

// Contact is the customer information captured on the booking form. Name
// and phone are required, email is optional.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email,omitempty"`
}

// Service drives the booking flow: pick a selectable date, pick an open
// slot, confirm with contact details. Confirmed bookings lock their slot
// through the repository's unique (date, time) constraint.
type Service struct {
	schedules ScheduleSource
	repo      Repository
	recorder  Recorder
	events    EventSink
	now       func() time.Time
}

func NewService(schedules ScheduleSource, repo Repository, recorder Recorder, events EventSink) *Service {
	return &Service{
		schedules: schedules,
		repo:      repo,
		recorder:  recorder,
		events:    events,
		now:       time.Now,
	}
}

// Availability returns the schedule with already-booked slots overlaid as
// unavailable, so the calendar reflects confirmed bookings and not just the
// static CMS table.
func (s *Service) Availability(ctx context.Context) domain.Schedule {
	schedule := s.schedules.Schedule(ctx)

	booked, err := s.repo.BookedSlots(ctx)
	if err != nil {
		log.Printf("booked slots lookup failed, serving raw schedule: %v", err)
		return schedule
	}

	out := make(domain.Schedule, len(schedule))
	for date, slots := range schedule {
		taken := booked[date]
		overlaid := make([]domain.TimeSlot, len(slots))
		for i, slot := range slots {
			overlaid[i] = slot
			for _, t := range taken {
				if t == slot.Time {
					overlaid[i].Available = false
					break
				}
			}
		}
		out[date] = overlaid
	}
	return out
}

// SelectSlot validates that the date is selectable and the named slot open.
// Selection itself mutates nothing; the slot stays open until a booking is
// confirmed against it.
func (s *Service) SelectSlot(ctx context.Context, dateKey, slotTime string) error {
	schedule := s.Availability(ctx)

	if !SelectableOn(schedule, dateKey, s.now()) {
		return ErrDateNotSelectable
	}
	if !SlotAvailable(schedule, dateKey, slotTime) {
		return ErrSlotUnavailable
	}
	return nil
}

// Confirm re-validates the selection, persists the booking (losing the race
// for a slot surfaces as ErrSlotTaken), emits a booking.confirmed event and
// mirrors the booking into the CMS. Returns the immutable confirmation
// record.
func (s *Service) Confirm(ctx context.Context, service, dateKey, slotTime string, contact Contact) (*domain.Booking, error) {
	if service == "" || contact.Name == "" || contact.Phone == "" {
		return nil, ErrIncompleteContact
	}

	if err := s.SelectSlot(ctx, dateKey, slotTime); err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		ID:        uuid.New().String(),
		Service:   service,
		Date:      dateKey,
		Time:      slotTime,
		Name:      contact.Name,
		Phone:     contact.Phone,
		Email:     contact.Email,
		CreatedAt: s.now(),
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, err
	}

	log.Printf("booking %s confirmed: %s on %s at %s", booking.ID, service, dateKey, slotTime)

	payload, err := json.Marshal(booking)
	if err != nil {
		return nil, err
	}
	if err := s.events.InsertEvent(ctx, "booking.confirmed", booking.ID, payload); err != nil {
		log.Printf("outbox insert for booking %s failed: %v", booking.ID, err)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.recorder.CreateBooking(ctx, *booking); err != nil {
			log.Printf("cms booking create for %s failed: %v", booking.ID, err)
		}
	}()

	return booking, nil
}
