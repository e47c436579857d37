package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter assembles the storefront API surface.
func NewRouter(catalog *CatalogHandler, cart *CartHandler, checkout *CheckoutHandler, booking *BookingHandler, requestTimeout time.Duration) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(SessionMiddleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", catalog.ListProducts)
		r.Get("/services", catalog.ListServices)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cart.GetCart)
			r.Post("/items", cart.AdjustItem)
			r.Delete("/", cart.ClearCart)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", checkout.GetState)
			r.Post("/begin", checkout.Begin)
			r.Post("/details", checkout.SubmitDetails)
			r.Post("/payment", checkout.SelectPayment)
			r.Post("/complete", checkout.Complete)
			r.Post("/back", checkout.Back)
		})

		r.Get("/availability", booking.GetAvailability)
		r.Post("/bookings", booking.CreateBooking)
	})

	return r
}
