// Package api provides the HTTP API for VisitRoute.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/visitroute/visitroute/internal/api/handler"
	"github.com/visitroute/visitroute/internal/api/middleware"
	"github.com/visitroute/visitroute/internal/auth"
	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/itinerary"
	"github.com/visitroute/visitroute/internal/plan"
	"github.com/visitroute/visitroute/internal/provider/resilience"
	"github.com/visitroute/visitroute/internal/travelgraph"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	JWTService  *auth.JWTService
	Catalog     catalog.Repository
	Graphs      *travelgraph.Service
	Planner     *itinerary.Planner
	Plans       *plan.Service
	Providers   *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "visitroute-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Graphs, cfg.Providers)
	recommendHandler := handler.NewRecommendHandler(cfg.Catalog)
	itineraryHandler := handler.NewItineraryHandler(cfg.Catalog, cfg.Graphs, cfg.Planner)
	planHandler := handler.NewPlanHandler(cfg.Plans, cfg.Catalog, cfg.Graphs, cfg.Planner)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.JWTService)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Recommendation scoring - standard rate limiting
		r.With(standardRateLimit).Post("/recommendations:compute", recommendHandler.ComputeRecommendations)

		// Itinerary computation - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/itineraries:compute", itineraryHandler.ComputeItinerary)
		r.With(expensiveRateLimit).Post("/itineraries:optimize", itineraryHandler.OptimizeRoute)

		// Saved itineraries (authenticated) - user-based rate limiting
		r.Route("/me/itineraries", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Get("/", planHandler.ListPlans)
			r.Post("/", planHandler.CreatePlan)
			r.Route("/{itineraryId}", func(r chi.Router) {
				r.Get("/", planHandler.GetPlan)
				r.Delete("/", planHandler.DeletePlan)
			})
		})
	})

	return r
}
