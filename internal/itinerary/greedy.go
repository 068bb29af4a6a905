package itinerary

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/interest"
	"github.com/visitroute/visitroute/internal/recommend"
	"github.com/visitroute/visitroute/internal/travelgraph"
)

// DefaultMaxReasonableTravel normalizes the travel penalty: any leg at or
// beyond this many minutes costs the full Beta weight.
const DefaultMaxReasonableTravel = 35

// PlannerConfig holds configuration for the greedy planner.
type PlannerConfig struct {
	// Logger for planning operations.
	Logger zerolog.Logger

	// MaxReasonableTravel is the travel-penalty normalization constant in
	// minutes. Zero means DefaultMaxReasonableTravel.
	MaxReasonableTravel float64
}

// Planner builds itineraries by repeatedly committing the best feasible next
// activity under a composite score.
type Planner struct {
	logger              zerolog.Logger
	maxReasonableTravel float64
}

// NewPlanner creates a new greedy planner.
func NewPlanner(cfg PlannerConfig) *Planner {
	maxTravel := cfg.MaxReasonableTravel
	if maxTravel <= 0 {
		maxTravel = DefaultMaxReasonableTravel
	}
	return &Planner{
		logger:              cfg.Logger,
		maxReasonableTravel: maxTravel,
	}
}

// BuildRequest is one day-planning request. Activities, Graph, and Swipes are
// treated as immutable snapshots for the duration of the call.
type BuildRequest struct {
	// Swipes are the user's like/dislike signals.
	Swipes []catalog.Swipe

	// Activities is the candidate catalog.
	Activities []catalog.Activity

	// Graph is the base travel-time graph, keyed by display name.
	Graph *travelgraph.Graph

	// StartTime and EndTime bound the day, as "HH:MM".
	StartTime string
	EndTime   string

	// StartPoint is the display name of the fixed start/return location.
	StartPoint string

	// MaxActivities caps the number of real stops.
	MaxActivities int

	// Weights are the composite-score weights.
	Weights Weights

	// SectionBias enables the section-dwell adjustment of the working
	// graph: leaving a section too early or lingering past the ceiling is
	// discouraged by penalized edges.
	SectionBias bool
}

func (r BuildRequest) validate() (startMin, endMin float64, err error) {
	if err := catalog.Validate(r.Activities); err != nil {
		return 0, 0, err
	}
	if err := r.Weights.Validate(); err != nil {
		return 0, 0, err
	}
	if r.MaxActivities <= 0 {
		return 0, 0, ErrInvalidMaxActivities
	}

	startMin, err = ParseClock(r.StartTime)
	if err != nil {
		return 0, 0, fmt.Errorf("start time: %w", err)
	}
	endMin, err = ParseClock(r.EndTime)
	if err != nil {
		return 0, 0, fmt.Errorf("end time: %w", err)
	}
	if startMin >= endMin {
		return 0, 0, ErrInvalidTimeWindow
	}

	if !r.Graph.HasOrigin(r.StartPoint) && !isCatalogName(r.Activities, r.StartPoint) {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownStartPoint, r.StartPoint)
	}

	return startMin, endMin, nil
}

func isCatalogName(activities []catalog.Activity, name string) bool {
	for _, a := range activities {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Build constructs an itinerary for one day. Inputs are validated up front;
// past that point individual candidates failing feasibility are skipped, not
// errors, and an itinerary holding only the start and return sentinels is a
// valid result.
func (p *Planner) Build(ctx context.Context, req BuildRequest) (*Itinerary, error) {
	now, end, err := req.validate()
	if err != nil {
		return nil, err
	}

	// Recommendation scores use the standard scoring weights; the request
	// weights only blend the per-step composite.
	recOpts := recommend.DefaultOptions()
	recOpts.ExcludeSeen = true
	recs, err := recommend.Recommend(req.Swipes, req.Activities, recOpts)
	if err != nil {
		return nil, err
	}

	location := req.StartPoint
	visited := make(map[string]bool, req.MaxActivities)
	var cumulative interest.Vector
	visits := []Visit{{ActivityName: req.StartPoint, Arrival: now, Departure: now}}

	// Per-section dwell state for the zone-switch bias.
	activeSection := ""
	dwell := 0.0

	for len(visits)-1 < req.MaxActivities {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// The working graph carries the section bias; it is recomputed
		// from the base snapshot each step so penalties never stack.
		working := req.Graph
		if req.SectionBias && activeSection != "" && activeSection != travelgraph.NeutralSectionID {
			working = travelgraph.AdjustForSection(req.Graph, activeSection, req.Activities, dwell, true)
		}

		best := -1
		bestComposite := math.Inf(-1)
		for i, cand := range recs {
			if visited[cand.ID] || cand.Name == req.StartPoint {
				continue
			}
			if !feasible(cand.Activity, now, end, location, working, req.StartPoint) {
				continue
			}

			travel := working.LookupDefault(location, cand.Name)
			wait := math.Max(0, cand.OpeningTime-(now+travel))

			composite := req.Weights.Alpha*cand.Score -
				req.Weights.Beta*math.Min(travel/p.maxReasonableTravel, 1) -
				req.Weights.Gamma*math.Max(0, interest.Cosine(cand.Interests, cumulative)) +
				req.Weights.Delta*(1-math.Min(wait/60, 1))

			// Strict improvement only: ties keep the earlier candidate,
			// and recs is already ordered by score then catalog order.
			if composite > bestComposite {
				best = i
				bestComposite = composite
			}
		}
		if best < 0 {
			break
		}

		cand := recs[best]

		// Commit with base-graph travel so timestamps stay honest even
		// when the biased working graph drove the selection.
		travel := req.Graph.LookupDefault(location, cand.Name)
		arrival := now + travel
		actualStart := math.Max(arrival, cand.OpeningTime)
		departure := actualStart + cand.Duration

		visits = append(visits, Visit{
			ActivityID:          cand.ID,
			ActivityName:        cand.Name,
			SectionID:           cand.SectionID,
			Arrival:             arrival,
			Departure:           departure,
			Duration:            cand.Duration,
			Wait:                actualStart - arrival,
			TravelFromPrevious:  travel,
			CompositeScore:      bestComposite,
			RecommendationScore: cand.Score,
		})

		visited[cand.ID] = true
		cumulative = cumulative.Add(cand.Interests)

		if cand.SectionID == activeSection {
			dwell += departure - arrival
		} else {
			activeSection = cand.SectionID
			dwell = departure - arrival
		}

		now = departure
		location = cand.Name
	}

	// Close the loop back to the start point.
	returnTravel := req.Graph.LookupDefault(location, req.StartPoint)
	visits = append(visits, Visit{
		ActivityName:       req.StartPoint,
		Arrival:            now + returnTravel,
		Departure:          now + returnTravel,
		TravelFromPrevious: returnTravel,
	})

	it := &Itinerary{Visits: visits, Stats: computeStats(visits)}

	p.logger.Debug().
		Int("activities", it.Stats.Activities).
		Float64("total_travel_min", it.Stats.TotalTravel).
		Float64("total_wait_min", it.Stats.TotalWait).
		Str("start_point", req.StartPoint).
		Msg("itinerary built")

	return it, nil
}
