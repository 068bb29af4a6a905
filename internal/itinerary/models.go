// Package itinerary turns scored activities into a time-feasible visiting
// route: a greedy builder for day-long plans and an exhaustive optimizer for
// small candidate sets.
package itinerary

import "errors"

// Planning errors, reported before the planning loop runs.
var (
	// ErrNegativeWeight indicates a composite weight below zero.
	ErrNegativeWeight = errors.New("composite weights must be non-negative")

	// ErrInvalidTimeWindow indicates a day window whose end does not come
	// after its start.
	ErrInvalidTimeWindow = errors.New("end time must be after start time")

	// ErrInvalidMaxActivities indicates a non-positive activity cap.
	ErrInvalidMaxActivities = errors.New("max activities must be positive")

	// ErrUnknownStartPoint indicates a start point that is neither a graph
	// node nor a catalog activity.
	ErrUnknownStartPoint = errors.New("unknown start point")

	// ErrNoFeasibleRoute indicates the exhaustive optimizer found no
	// ordering under the travel cap. Distinct from an empty-but-valid
	// itinerary.
	ErrNoFeasibleRoute = errors.New("no route satisfies the travel cap")

	// ErrTooManyCandidates indicates a candidate set too large for
	// exhaustive search.
	ErrTooManyCandidates = errors.New("too many candidates for exhaustive search")

	// ErrNoCandidates indicates an empty candidate set.
	ErrNoCandidates = errors.New("no candidates to order")
)

// Weights blends the greedy builder's per-step selection criteria.
type Weights struct {
	// Alpha scales the recommendation score.
	Alpha float64 `json:"alpha"`

	// Beta scales the travel penalty.
	Beta float64 `json:"beta"`

	// Gamma scales the thematic-redundancy penalty.
	Gamma float64 `json:"gamma"`

	// Delta scales the low-wait bonus.
	Delta float64 `json:"delta"`
}

// DefaultWeights returns the standard composite weights.
func DefaultWeights() Weights {
	return Weights{Alpha: 1.0, Beta: 0.4, Gamma: 0.5, Delta: 0.2}
}

// Validate rejects negative weights. Weights are never silently clamped.
func (w Weights) Validate() error {
	if w.Alpha < 0 || w.Beta < 0 || w.Gamma < 0 || w.Delta < 0 {
		return ErrNegativeWeight
	}
	return nil
}

// Visit is one stop on an itinerary. All times are minutes from midnight.
// The first and last visits are sentinels at the start/return point with
// zero duration and an empty ActivityID.
type Visit struct {
	ActivityID   string  `json:"activityId,omitempty"`
	ActivityName string  `json:"activityName"`
	SectionID    string  `json:"sectionId,omitempty"`
	Arrival      float64 `json:"arrival"`
	Departure    float64 `json:"departure"`
	Duration     float64 `json:"duration"`

	// Wait is idle time spent before the activity opens.
	Wait float64 `json:"wait"`

	// TravelFromPrevious is the travel time from the preceding stop.
	TravelFromPrevious float64 `json:"travelFromPrevious"`

	CompositeScore      float64 `json:"compositeScore"`
	RecommendationScore float64 `json:"recommendationScore"`
}

// Stats aggregates an itinerary's time spend, in minutes.
type Stats struct {
	TotalTravel float64 `json:"totalTravel"`
	TotalVisit  float64 `json:"totalVisit"`
	TotalWait   float64 `json:"totalWait"`

	// Activities is the number of real stops, sentinels excluded.
	Activities int `json:"activities"`
}

// Itinerary is an ordered day plan. A plan holding only the start and return
// sentinels is a valid outcome: it means nothing was feasible, not that
// planning failed.
type Itinerary struct {
	Visits []Visit `json:"visits"`
	Stats  Stats   `json:"stats"`
}

func computeStats(visits []Visit) Stats {
	var s Stats
	for _, v := range visits {
		s.TotalTravel += v.TravelFromPrevious
		s.TotalVisit += v.Duration
		s.TotalWait += v.Wait
		if v.ActivityID != "" {
			s.Activities++
		}
	}
	return s
}
