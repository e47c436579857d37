package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dvbwitso/kire-studio/internal/booking"
)

// EmptyScheduleMessage is rendered when no availability could be loaded.
const EmptyScheduleMessage = "no appointment slots available, please check back later"

type BookingHandler struct {
	bookings *booking.Service
}

func NewBookingHandler(bookings *booking.Service) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type CreateBookingRequestDTO struct {
	Service string `json:"service"`
	Date    string `json:"date"`
	Time    string `json:"time"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (h *BookingHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	schedule := h.bookings.Availability(r.Context())

	resp := map[string]interface{}{"days": schedule}
	if len(schedule) == 0 {
		resp["message"] = EmptyScheduleMessage
	}
	respondJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	b, err := h.bookings.Confirm(r.Context(), req.Service, req.Date, req.Time, booking.Contact{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
	})
	if err != nil {
		handleBookingError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, b)
}

func handleBookingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrIncompleteContact):
		respondError(w, http.StatusBadRequest, "incomplete_details", "service, name and phone are required")
	case errors.Is(err, booking.ErrDateNotSelectable):
		respondError(w, http.StatusConflict, "date_not_selectable", "the chosen date is not open for booking")
	case errors.Is(err, booking.ErrSlotUnavailable):
		respondError(w, http.StatusConflict, "slot_unavailable", "the chosen time slot is not available")
	case errors.Is(err, booking.ErrSlotTaken):
		respondError(w, http.StatusConflict, "slot_taken", "the chosen time slot was just booked")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "booking failed")
	}
}
