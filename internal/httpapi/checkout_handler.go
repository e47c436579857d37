package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dvbwitso/kire-studio/internal/checkout"
	"github.com/dvbwitso/kire-studio/internal/domain"
)

type CheckoutHandler struct {
	sequencer *checkout.Sequencer
}

func NewCheckoutHandler(sequencer *checkout.Sequencer) *CheckoutHandler {
	return &CheckoutHandler{sequencer: sequencer}
}

type checkoutStateResponse struct {
	Step          checkout.Step        `json:"step"`
	Customer      domain.CustomerInfo  `json:"customer"`
	PaymentMethod domain.PaymentMethod `json:"payment_method,omitempty"`
}

type SelectPaymentRequestDTO struct {
	Method domain.PaymentMethod `json:"method"`
}

func (h *CheckoutHandler) GetState(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	step, customer, method := h.sequencer.State(sessionID)
	respondJSON(w, http.StatusOK, checkoutStateResponse{
		Step:          step,
		Customer:      customer,
		PaymentMethod: method,
	})
}

// Begin moves the session from cart review into the details step.
func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	if err := h.sequencer.SubmitCart(r.Context(), sessionID); err != nil {
		handleCheckoutError(w, err)
		return
	}
	h.GetState(w, r)
}

func (h *CheckoutHandler) SubmitDetails(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var info domain.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.sequencer.SubmitDetails(r.Context(), sessionID, info); err != nil {
		handleCheckoutError(w, err)
		return
	}
	h.GetState(w, r)
}

func (h *CheckoutHandler) SelectPayment(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req SelectPaymentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.sequencer.SelectPayment(r.Context(), sessionID, req.Method); err != nil {
		handleCheckoutError(w, err)
		return
	}
	h.GetState(w, r)
}

func (h *CheckoutHandler) Complete(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	order, err := h.sequencer.Complete(r.Context(), sessionID)
	if err != nil {
		handleCheckoutError(w, err)
		return
	}
	if order == nil {
		// Empty cart: nothing to decrement, nothing charged.
		respondJSON(w, http.StatusOK, map[string]interface{}{"completed": false})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"completed": true,
		"order":     order,
	})
}

func (h *CheckoutHandler) Back(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	h.sequencer.Back(sessionID)
	h.GetState(w, r)
}

func handleCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusConflict, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrIncompleteDetails):
		respondError(w, http.StatusBadRequest, "incomplete_details", "all customer fields are required")
	case errors.Is(err, checkout.ErrInvalidPayment):
		respondError(w, http.StatusBadRequest, "invalid_payment", "unknown payment method")
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", "action not allowed in current step")
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
	}
}
