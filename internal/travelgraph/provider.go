package travelgraph

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/pkg/geo"
)

// Provider errors.
var (
	// ErrProviderUnavailable indicates the duration provider is down or the
	// circuit breaker is open.
	ErrProviderUnavailable = errors.New("duration provider unavailable")

	// ErrNoRouteFound indicates no walkable route exists between two points.
	ErrNoRouteFound = errors.New("no route found between the given points")
)

// DurationProvider estimates walking durations between geographic points.
type DurationProvider interface {
	// Duration returns the walking time in minutes from origin to
	// destination. Implementations may return asymmetric results.
	Duration(ctx context.Context, origin, destination geo.Coordinate) (float64, error)

	// Name returns the provider identifier for logging and metrics.
	Name() string
}

// HaversineProvider estimates walking durations from great-circle distance
// at a fixed walking speed. It never calls out and never fails, which makes
// it the fallback when no routing API is configured.
type HaversineProvider struct {
	// SpeedKmh is the assumed walking speed. Zero means 5 km/h.
	SpeedKmh float64
}

// Duration returns the estimated walking time in minutes.
func (p *HaversineProvider) Duration(_ context.Context, origin, destination geo.Coordinate) (float64, error) {
	if !origin.Valid() || !destination.Valid() {
		return 0, fmt.Errorf("invalid coordinates: origin=%v destination=%v", origin, destination)
	}
	return geo.WalkingMinutes(geo.HaversineKm(origin, destination), p.SpeedKmh), nil
}

// Name returns the provider identifier.
func (p *HaversineProvider) Name() string {
	return "haversine"
}

// RowProvider is implemented by providers that can answer one-origin-to-many
// durations in a single call. BuildMatrix uses it to keep the request count
// linear in the activity count.
type RowProvider interface {
	MatrixRow(ctx context.Context, origin geo.Coordinate, destinations []geo.Coordinate) ([]float64, error)
}

// buildConcurrency bounds the number of in-flight row computations during a
// matrix build.
const buildConcurrency = 4

type rowResult struct {
	origin  int
	minutes []float64
	err     error
}

// BuildMatrix computes the full directed travel-time matrix over the given
// activities, keyed by display name. Rows are fetched concurrently; the
// resulting graph is identical regardless of completion order. The catalog
// must already be validated: duplicate names would silently merge graph
// nodes.
func BuildMatrix(ctx context.Context, provider DurationProvider, activities []catalog.Activity) (*Graph, error) {
	if err := catalog.Validate(activities); err != nil {
		return nil, err
	}

	workers := buildConcurrency
	if workers > len(activities) {
		workers = len(activities)
	}

	jobs := make(chan int, len(activities))
	results := make(chan rowResult, len(activities))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				minutes, err := buildRow(ctx, provider, activities, i)
				results <- rowResult{origin: i, minutes: minutes, err: err}
			}
		}()
	}

	for i := range activities {
		jobs <- i
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	g := New()
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("row %q: %w", activities[res.origin].Name, res.err)
			}
			continue
		}
		k := 0
		for j, dest := range activities {
			if j == res.origin {
				continue
			}
			g.SetEdge(activities[res.origin].Name, dest.Name, res.minutes[k])
			k++
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	return g, nil
}

// buildRow computes one origin's durations to every other activity, in
// catalog order with the origin itself skipped.
func buildRow(ctx context.Context, provider DurationProvider, activities []catalog.Activity, origin int) ([]float64, error) {
	from := activities[origin]

	if rp, ok := provider.(RowProvider); ok {
		destinations := make([]geo.Coordinate, 0, len(activities)-1)
		for j, a := range activities {
			if j != origin {
				destinations = append(destinations, a.Location)
			}
		}
		return rp.MatrixRow(ctx, from.Location, destinations)
	}

	minutes := make([]float64, 0, len(activities)-1)
	for j, to := range activities {
		if j == origin {
			continue
		}
		m, err := provider.Duration(ctx, from.Location, to.Location)
		if err != nil {
			return nil, fmt.Errorf("duration to %q: %w", to.Name, err)
		}
		minutes = append(minutes, m)
	}
	return minutes, nil
}
