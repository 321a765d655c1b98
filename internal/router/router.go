package router

import (
	"net/http"

	"storefront/internal/handler"
	"storefront/internal/middleware"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Product *handler.ProductHandler
	Order   *handler.OrderHandler
	Review  *handler.ReviewHandler
	Admin   *handler.AdminHandler
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, auth *middleware.Authenticator, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	authed := func(fn http.HandlerFunc) http.Handler {
		return auth.Authenticate(fn)
	}
	adminOnly := func(fn http.HandlerFunc) http.Handler {
		return auth.Authenticate(middleware.RequireAdmin(fn))
	}

	// Health check endpoint (no authentication required)
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Catalogue
	mux.HandleFunc("GET /api/products", h.Product.GetAll)
	mux.HandleFunc("GET /api/products/featured", h.Product.Featured)
	mux.HandleFunc("GET /api/products/{id}", h.Product.GetByID)
	mux.HandleFunc("GET /api/products/{id}/related", h.Product.Related)

	// Orders
	mux.HandleFunc("GET /api/orders/zones", h.Order.Zones)
	mux.Handle("POST /api/orders", authed(h.Order.Create))
	mux.Handle("GET /api/orders/myorders", authed(h.Order.MyOrders))
	mux.Handle("GET /api/orders/{id}", authed(h.Order.GetByID))
	mux.Handle("POST /api/orders/{id}/return", authed(h.Order.RequestReturn))

	// Reviews
	mux.HandleFunc("GET /api/reviews/product/{productId}", h.Review.ProductReviews)
	mux.Handle("POST /api/reviews", authed(h.Review.Submit))
	mux.Handle("GET /api/reviews/check/{orderId}/{productId}", authed(h.Review.Check))
	mux.Handle("GET /api/reviews/my-reviews", authed(h.Review.MyReviews))
	mux.Handle("GET /api/reviews", adminOnly(h.Review.List))
	mux.Handle("GET /api/reviews/stats/overview", adminOnly(h.Review.Overview))
	mux.Handle("PUT /api/reviews/{id}/status", adminOnly(h.Review.Moderate))
	mux.Handle("DELETE /api/reviews/{id}", adminOnly(h.Review.Delete))

	// Admin
	mux.Handle("GET /api/admin/orders", adminOnly(h.Admin.ListOrders))
	mux.Handle("PUT /api/admin/orders/{id}/status", adminOnly(h.Admin.UpdateOrderStatus))
	mux.Handle("GET /api/admin/stats", adminOnly(h.Admin.Stats))

	// Apply middleware in order: Recovery -> RequestID -> Logging -> Metrics -> CORS
	var handler http.Handler = mux
	handler = middleware.CORS(handler)
	handler = middleware.Metrics(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
