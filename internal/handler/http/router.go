package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Mallowslabby/shopee/pkg/health"
	"github.com/Mallowslabby/shopee/pkg/middleware"
)

// NewRouter creates a chi router with all wishlist service routes registered.
func NewRouter(
	handler *WishlistHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("wishlist"))
	r.Use(middleware.Tracing("wishlist"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Wishlist API endpoints
	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(SessionIDFromHeader)

		r.Get("/", handler.GetWishlist)
		r.Delete("/", handler.DestroyWishlist)
		r.Get("/search", handler.SearchItems)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)

			r.Post("/items", handler.AddItems)
			r.Put("/items/{rowId}", handler.UpdateItem)
			r.Put("/items/{rowId}/tax", handler.SetTax)
			r.Post("/items/{rowId}/associate", handler.AssociateItem)
			r.Post("/store", handler.StoreWishlist)
			r.Post("/restore", handler.RestoreWishlist)
		})

		r.Get("/items/{rowId}", handler.GetItem)
		r.Delete("/items/{rowId}", handler.RemoveItem)
	})

	return r
}
