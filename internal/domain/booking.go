package domain

import "time"

// DateKey is the calendar date format used by the CMS schedule.
const DateKey = "2006-01-02"

// ClosedWeekday is the studio's weekly closing day.
const ClosedWeekday = time.Sunday

type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// Schedule maps a date key ("2006-01-02") to that day's ordered slots.
type Schedule map[string][]TimeSlot

type Booking struct {
	ID        string    `json:"id"`
	Service   string    `json:"service"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
