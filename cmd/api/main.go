// Package main provides the entrypoint for the VisitRoute API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/visitroute/visitroute/internal/api"
	"github.com/visitroute/visitroute/internal/api/middleware"
	"github.com/visitroute/visitroute/internal/auth"
	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/database"
	"github.com/visitroute/visitroute/internal/itinerary"
	"github.com/visitroute/visitroute/internal/plan"
	"github.com/visitroute/visitroute/internal/provider/resilience"
	"github.com/visitroute/visitroute/internal/telemetry"
	"github.com/visitroute/visitroute/internal/travelgraph"
	"github.com/visitroute/visitroute/internal/travelgraph/ors"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "visitroute-api"

	// Load .env if present; real deployments use the environment directly.
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting VisitRoute API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Msg("database connected")

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SigningKey: jwtSigningKey,
		Issuer:     "https://api.visitroute.fr",
		Audience:   "visitroute-api",
	})

	// Initialize activity catalog
	catalogRepo := catalog.NewPostgresRepository(pool)

	// Optionally seed the catalog from a JSON file. Import replaces the
	// stored catalog wholesale, so this is only meant for bootstrap and
	// local development.
	if catalogPath := os.Getenv("CATALOG_PATH"); catalogPath != "" {
		activities, err := catalog.LoadFile(catalogPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", catalogPath).Msg("failed to load catalog file")
		}
		if err := catalogRepo.ReplaceAll(ctx, activities); err != nil {
			log.Fatal().Err(err).Msg("failed to import catalog")
		}
		log.Info().
			Int("activities", len(activities)).
			Str("path", catalogPath).
			Msg("catalog imported")
	}

	// Initialize provider health registry
	registry := resilience.NewRegistry()

	// Pick the travel-time provider: OpenRouteService when an API key is
	// configured, haversine estimates otherwise.
	var graphProvider travelgraph.DurationProvider
	if orsKey := os.Getenv("ORS_API_KEY"); orsKey != "" {
		graphProvider = ors.NewClient(ors.ClientConfig{
			APIKey:   orsKey,
			BaseURL:  os.Getenv("ORS_BASE_URL"),
			Registry: registry,
			Logger:   log,
		})
		log.Info().Msg("OpenRouteService travel-time provider initialized")
	} else {
		graphProvider = &travelgraph.HaversineProvider{}
		log.Warn().Msg("ORS_API_KEY not set - falling back to haversine travel-time estimates")
	}

	graphs := travelgraph.NewService(travelgraph.ServiceConfig{
		Provider: graphProvider,
		Logger:   log,
	})

	// Build the initial travel-time matrix. A failure here is not fatal:
	// readiness reports the missing graph and the worker rebuilds it.
	buildCtx, buildCancel := context.WithTimeout(ctx, 5*time.Minute)
	if activities, err := catalogRepo.List(buildCtx); err != nil {
		log.Error().Err(err).Msg("failed to list catalog for initial matrix build")
	} else if len(activities) == 0 {
		log.Warn().Msg("catalog is empty - skipping initial matrix build")
	} else if err := graphs.Rebuild(buildCtx, activities); err != nil {
		log.Error().Err(err).Msg("initial travel-time matrix build failed")
	} else {
		log.Info().Int("activities", len(activities)).Msg("travel-time matrix built")
	}
	buildCancel()

	// Initialize itinerary planner
	planner := itinerary.NewPlanner(itinerary.PlannerConfig{Logger: log})

	// Initialize saved plan service
	planService := plan.NewService(plan.ServiceConfig{
		Repository: plan.NewPostgresRepository(pool),
		Logger:     log,
	})
	log.Info().Msg("plan service initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:     Version,
		BuildTime:   BuildTime,
		Logger:      log,
		ServiceName: serviceName,
		Metrics:     metrics,
		JWTService:  jwtService,
		Catalog:     catalogRepo,
		Graphs:      graphs,
		Planner:     planner,
		Plans:       planService,
		Providers:   registry,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
