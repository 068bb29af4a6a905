package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/visitroute/visitroute/internal/api/middleware"
	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/travelgraph"
)

// RefreshJob rebuilds the travel-time matrix from the activity catalog.
type RefreshJob struct {
	config  RefreshConfig
	logger  zerolog.Logger
	catalog catalog.Repository
	graphs  *travelgraph.Service

	// providerMetrics is optional; nil disables recording.
	providerMetrics *middleware.ProviderMetrics

	metrics *RefreshMetrics
}

// RefreshMetrics tracks refresh job statistics.
type RefreshMetrics struct {
	mu sync.RWMutex

	TotalRefreshes    int64
	SuccessfulRefresh int64
	FailedRefreshes   int64

	LastRefreshAt       time.Time
	LastRefreshDuration time.Duration
	TotalDuration       time.Duration

	LastActivityCount int
	LastEdgeCount     int
}

// RefreshJobConfig holds configuration for creating a RefreshJob.
type RefreshJobConfig struct {
	Config          RefreshConfig
	Logger          zerolog.Logger
	Catalog         catalog.Repository
	Graphs          *travelgraph.Service
	ProviderMetrics *middleware.ProviderMetrics
}

// NewRefreshJob creates a new matrix refresh job processor.
func NewRefreshJob(cfg RefreshJobConfig) *RefreshJob {
	return &RefreshJob{
		config:          cfg.Config.withDefaults(),
		logger:          cfg.Logger,
		catalog:         cfg.Catalog,
		graphs:          cfg.Graphs,
		providerMetrics: cfg.ProviderMetrics,
		metrics:         &RefreshMetrics{},
	}
}

// RefreshResult contains the result of one refresh run.
type RefreshResult struct {
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	Activities int
	Edges      int
	Err        error
}

// Run executes one matrix refresh: load the catalog, rebuild the matrix, and
// swap it in. On failure the previous matrix stays in place.
func (j *RefreshJob) Run(ctx context.Context) *RefreshResult {
	start := time.Now()
	result := &RefreshResult{StartTime: start}

	ctx, cancel := context.WithTimeout(ctx, j.config.Timeout)
	defer cancel()

	j.logger.Info().
		Str("provider", j.graphs.ProviderName()).
		Msg("starting travel-time matrix refresh")

	activities, err := j.catalog.List(ctx)
	switch {
	case err != nil:
		result.Err = fmt.Errorf("loading catalog: %w", err)
	case len(activities) < j.config.MinActivities:
		result.Err = fmt.Errorf("catalog holds %d activities, need at least %d",
			len(activities), j.config.MinActivities)
	default:
		result.Activities = len(activities)
		if err := j.graphs.Rebuild(ctx, activities); err != nil {
			result.Err = fmt.Errorf("rebuilding matrix: %w", err)
		}
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(start)

	if result.Err == nil {
		if g, err := j.graphs.Snapshot(); err == nil {
			result.Edges = g.EdgeCount()
		}
	}

	if j.providerMetrics != nil {
		j.providerMetrics.RecordRequest(j.graphs.ProviderName(), "matrix_refresh", result.Duration, result.Err)
	}

	j.updateMetrics(result)

	if result.Err != nil {
		j.logger.Error().
			Err(result.Err).
			Dur("duration", result.Duration).
			Msg("travel-time matrix refresh failed")
	} else {
		j.logger.Info().
			Dur("duration", result.Duration).
			Int("activities", result.Activities).
			Int("edges", result.Edges).
			Msg("travel-time matrix refresh completed")
	}

	return result
}

// HealthCheck verifies the worker's dependencies: the catalog must be
// reachable and non-empty, and a matrix must have been built at least once.
func (j *RefreshJob) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	activities, err := j.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("catalog unreachable: %w", err)
	}
	if len(activities) == 0 {
		return catalog.ErrEmptyCatalog
	}
	if j.graphs.BuiltAt().IsZero() {
		return travelgraph.ErrGraphNotReady
	}
	return nil
}

func (j *RefreshJob) updateMetrics(result *RefreshResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRefreshes++
	if result.Err != nil {
		j.metrics.FailedRefreshes++
	} else {
		j.metrics.SuccessfulRefresh++
		j.metrics.LastActivityCount = result.Activities
		j.metrics.LastEdgeCount = result.Edges
	}
	j.metrics.LastRefreshAt = result.EndTime
	j.metrics.LastRefreshDuration = result.Duration
	j.metrics.TotalDuration += result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *RefreshJob) GetMetrics() RefreshMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return RefreshMetrics{
		TotalRefreshes:      j.metrics.TotalRefreshes,
		SuccessfulRefresh:   j.metrics.SuccessfulRefresh,
		FailedRefreshes:     j.metrics.FailedRefreshes,
		LastRefreshAt:       j.metrics.LastRefreshAt,
		LastRefreshDuration: j.metrics.LastRefreshDuration,
		TotalDuration:       j.metrics.TotalDuration,
		LastActivityCount:   j.metrics.LastActivityCount,
		LastEdgeCount:       j.metrics.LastEdgeCount,
	}
}

// MetricsSnapshot returns a snapshot of the current metrics as a map.
func (j *RefreshJob) MetricsSnapshot() map[string]interface{} {
	m := j.GetMetrics()
	return map[string]interface{}{
		"total_refreshes":       m.TotalRefreshes,
		"successful_refreshes":  m.SuccessfulRefresh,
		"failed_refreshes":      m.FailedRefreshes,
		"last_refresh_at":       m.LastRefreshAt,
		"last_refresh_duration": m.LastRefreshDuration.String(),
		"total_duration":        m.TotalDuration.String(),
		"last_activity_count":   m.LastActivityCount,
		"last_edge_count":       m.LastEdgeCount,
	}
}
