package httpapi

import (
	"net/http"
	"time"

	"github.com/dvbwitso/kire-studio/internal/catalog"
	"github.com/dvbwitso/kire-studio/internal/domain"
)

// EmptyCatalogMessage is the explicit empty state the storefront renders
// when the CMS has nothing to show (or is unreachable).
const EmptyCatalogMessage = "no items available, please check back later"

type CatalogHandler struct {
	catalog *catalog.Service
}

func NewCatalogHandler(c *catalog.Service) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

type catalogItemDTO struct {
	domain.CatalogItem
	DisplayPrice string `json:"display_price"`
	OnSale       bool   `json:"on_sale"`
	New          bool   `json:"new"`
}

type catalogResponse struct {
	Items   []catalogItemDTO `json:"items"`
	Message string           `json:"message,omitempty"`
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCatalogResponse(h.catalog.Products(r.Context()), time.Now()))
}

func (h *CatalogHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, toCatalogResponse(h.catalog.Services(r.Context()), time.Now()))
}

func toCatalogResponse(items []domain.CatalogItem, now time.Time) catalogResponse {
	resp := catalogResponse{Items: make([]catalogItemDTO, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, catalogItemDTO{
			CatalogItem:  item,
			DisplayPrice: item.Price.String(),
			OnSale:       item.OnSale(),
			New:          item.IsNewAt(now),
		})
	}
	if len(resp.Items) == 0 {
		resp.Message = EmptyCatalogMessage
	}
	return resp
}
