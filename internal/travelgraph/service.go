package travelgraph

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/visitroute/visitroute/internal/catalog"
)

// ErrGraphNotReady indicates no travel-time matrix has been built yet.
var ErrGraphNotReady = errors.New("travel-time graph not built yet")

// ServiceConfig holds configuration for the graph service.
type ServiceConfig struct {
	// Provider estimates edge durations during rebuilds.
	Provider DurationProvider

	// Logger for service operations.
	Logger zerolog.Logger
}

// Service holds the current travel-time matrix snapshot and rebuilds it on
// demand. Readers always get an immutable snapshot: a rebuild swaps in a new
// graph, it never mutates the one planners are holding.
type Service struct {
	provider DurationProvider
	logger   zerolog.Logger

	mu      sync.RWMutex
	graph   *Graph
	builtAt time.Time
}

// NewService creates a new graph service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		provider: cfg.Provider,
		logger:   cfg.Logger,
	}
}

// Snapshot returns the current graph. Returns ErrGraphNotReady before the
// first successful rebuild.
func (s *Service) Snapshot() (*Graph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.graph == nil {
		return nil, ErrGraphNotReady
	}
	return s.graph, nil
}

// BuiltAt returns when the current graph was built, or the zero time.
func (s *Service) BuiltAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builtAt
}

// ProviderName returns the name of the underlying duration provider.
func (s *Service) ProviderName() string {
	return s.provider.Name()
}

// Rebuild computes a fresh matrix over the given activities and swaps it in.
// On failure the previous snapshot stays in place.
func (s *Service) Rebuild(ctx context.Context, activities []catalog.Activity) error {
	start := time.Now()

	s.logger.Info().
		Int("activities", len(activities)).
		Str("provider", s.provider.Name()).
		Msg("rebuilding travel-time matrix")

	g, err := BuildMatrix(ctx, s.provider, activities)
	if err != nil {
		s.logger.Error().Err(err).Msg("travel-time matrix rebuild failed")
		return err
	}

	s.mu.Lock()
	s.graph = g
	s.builtAt = time.Now()
	s.mu.Unlock()

	s.logger.Info().
		Int("edges", g.EdgeCount()).
		Dur("duration", time.Since(start)).
		Msg("travel-time matrix rebuilt")

	return nil
}
