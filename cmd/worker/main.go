// Package main provides the entrypoint for the VisitRoute background worker.
// The worker rebuilds the travel-time matrix on a schedule or on demand via
// Pub/Sub, and exposes a health endpoint for Cloud Run.
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/visitroute/visitroute/internal/api/middleware"
	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/database"
	"github.com/visitroute/visitroute/internal/provider/resilience"
	"github.com/visitroute/visitroute/internal/travelgraph"
	"github.com/visitroute/visitroute/internal/travelgraph/ors"
	"github.com/visitroute/visitroute/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "visitroute-worker"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting VisitRoute worker")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to database
	dbConfig := database.ConfigFromEnv()
	pool, err := database.Connect(ctx, dbConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	log.Info().
		Str("host", dbConfig.Host).
		Str("database", dbConfig.Database).
		Msg("database connected")

	catalogRepo := catalog.NewPostgresRepository(pool)

	// Pick the travel-time provider: OpenRouteService when an API key is
	// configured, haversine estimates otherwise.
	registry := resilience.NewRegistry()
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

	// Provider metrics are best-effort: without an OTLP exporter the
	// recordings go to a no-op meter.
	providerMetrics, err := middleware.NewProviderMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize provider metrics")
		providerMetrics = nil
	}

	refreshJob := worker.NewRefreshJob(worker.RefreshJobConfig{
		Config:          worker.DefaultRefreshConfig(),
		Logger:          log,
		Catalog:         catalogRepo,
		Graphs:          graphs,
		ProviderMetrics: providerMetrics,
	})

	// Build the matrix once at startup so the health endpoint goes green
	// without waiting for the first scheduled refresh.
	if result := refreshJob.Run(ctx); result.Err != nil {
		log.Error().Err(result.Err).Msg("initial matrix refresh failed")
	}

	// Health check server for Cloud Run
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		status := "healthy"
		code := http.StatusOK
		if err := refreshJob.HealthCheck(r.Context()); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status":  status,
			"version": Version,
			"metrics": refreshJob.MetricsSnapshot(),
		})
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health check server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	// Process refresh jobs from Pub/Sub when configured, otherwise fall
	// back to a local ticker.
	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")

	if projectID != "" && subscription != "" {
		pubsubHandler, err := worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			RefreshJob:       refreshJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close()

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler error")
			}
		}()
	} else {
		interval := 6 * time.Hour
		if raw := os.Getenv("MATRIX_REFRESH_INTERVAL"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				log.Fatal().Err(err).Str("value", raw).Msg("invalid MATRIX_REFRESH_INTERVAL")
			}
			interval = parsed
		}

		log.Info().
			Dur("interval", interval).
			Msg("PUBSUB_PROJECT_ID not set - refreshing on a local ticker")

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if result := refreshJob.Run(ctx); result.Err != nil {
						log.Error().Err(result.Err).Msg("scheduled matrix refresh failed")
					}
				}
			}
		}()
	}

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
