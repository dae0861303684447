package routes

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zatekoja/clothingsearch/internal/api/handlers"
	"github.com/zatekoja/clothingsearch/internal/api/middleware"
	"github.com/zatekoja/clothingsearch/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler    *handlers.SearchHandler
	productHandler   *handlers.ProductHandler
	userHandler      *handlers.UserHandler
	analyticsHandler *handlers.AnalyticsHandler
	healthHandler    *handlers.HealthHandler

	cacheMiddleware *middleware.CacheMiddleware
	allowedOrigins  []string
	metrics         *observability.Metrics
}

// NewRouter creates a new router. cacheMiddleware and metrics may be nil.
func NewRouter(
	searchHandler *handlers.SearchHandler,
	productHandler *handlers.ProductHandler,
	userHandler *handlers.UserHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	healthHandler *handlers.HealthHandler,
	cacheMiddleware *middleware.CacheMiddleware,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		searchHandler:    searchHandler,
		productHandler:   productHandler,
		userHandler:      userHandler,
		analyticsHandler: analyticsHandler,
		healthHandler:    healthHandler,
		cacheMiddleware:  cacheMiddleware,
		allowedOrigins:   allowedOrigins,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Live)
	r.mux.HandleFunc("GET /health/ready", r.healthHandler.Ready)
	r.mux.Handle("GET /metrics", promhttp.Handler())

	// Aggregated search
	r.mux.HandleFunc("GET /api/search", r.searchHandler.Search)
	r.mux.HandleFunc("GET /api/search/categories", r.searchHandler.GetCategories)

	// Direct product search
	r.mux.HandleFunc("GET /api/products/search", r.productHandler.SearchProducts)
	r.mux.HandleFunc("POST /api/products/search", r.productHandler.SearchProductsJSON)
	r.mux.HandleFunc("GET /api/products/stores", r.productHandler.GetSupportedStores)
	r.mux.HandleFunc("GET /api/products/stores/{store}/search", r.productHandler.SearchStore)

	// User settings
	r.mux.HandleFunc("GET /api/user/countries", r.userHandler.ListCountries)
	r.mux.HandleFunc("GET /api/user/{userId}/settings", r.userHandler.GetSettings)
	r.mux.HandleFunc("POST /api/user/{userId}/settings", r.userHandler.UpdateSettings)

	// Analytics
	r.mux.HandleFunc("GET /api/analytics/zero-results", r.analyticsHandler.GetZeroResultQueries)

	// Last middleware applied is outermost.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
