package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dvbwitso/kire-studio/internal/cart"
	"github.com/dvbwitso/kire-studio/internal/domain"
	"github.com/dvbwitso/kire-studio/internal/inventory"
)

type CartHandler struct {
	carts *cart.Service
}

func NewCartHandler(carts *cart.Service) *CartHandler {
	return &CartHandler{carts: carts}
}

type AdjustItemRequestDTO struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

type cartResponse struct {
	Lines     map[string]int `json:"lines"`
	ItemCount int            `json:"item_count"`
	Total     domain.Money   `json:"total"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	h.respondCart(w, r, sessionID)
}

func (h *CartHandler) AdjustItem(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	var req AdjustItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must be non-zero")
		return
	}

	if _, err := h.carts.Adjust(r.Context(), sessionID, req.ProductID, req.Delta); err != nil {
		if errors.Is(err, inventory.ErrUnknownProduct) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update cart")
		return
	}

	h.respondCart(w, r, sessionID)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sessionID := sessionFromContext(r.Context())
	if sessionID == "" {
		respondError(w, http.StatusUnauthorized, "no_session", "missing session")
		return
	}

	if err := h.carts.Clear(r.Context(), sessionID); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	h.respondCart(w, r, sessionID)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, sessionID string) {
	c, err := h.carts.Get(r.Context(), sessionID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	total, err := h.carts.Total(r.Context(), sessionID)
	if err != nil {
		// Price lookups need the catalog; with the CMS down the cart is
		// still visible, just without a total.
		total = domain.Money{}
	}

	respondJSON(w, http.StatusOK, cartResponse{
		Lines:     c.Lines,
		ItemCount: c.ItemCount(),
		Total:     total,
	})
}
