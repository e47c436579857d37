package booking

import (
	"time"

	"github.com/dvbwitso/kire-studio/internal/domain"
)

// SelectableOn reports whether a calendar date can be picked at all:
// not in the past (date-only comparison, time of day ignored), not the
// studio's weekly closing day, and carrying at least one available slot.
func SelectableOn(schedule domain.Schedule, dateKey string, now time.Time) bool {
	date, err := time.Parse(domain.DateKey, dateKey)
	if err != nil {
		return false
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())
	if date.Before(today) {
		return false
	}
	if date.Weekday() == domain.ClosedWeekday {
		return false
	}

	slots, exists := schedule[dateKey]
	if !exists {
		return false
	}
	for _, slot := range slots {
		if slot.Available {
			return true
		}
	}
	return false
}

// SlotAvailable reports whether the named time slot exists for the date and
// is currently open.
func SlotAvailable(schedule domain.Schedule, dateKey, slotTime string) bool {
	for _, slot := range schedule[dateKey] {
		if slot.Time == slotTime {
			return slot.Available
		}
	}
	return false
}
