package itinerary

import (
	"fmt"

	"github.com/visitroute/visitroute/internal/recommend"
	"github.com/visitroute/visitroute/internal/travelgraph"
)

// MaxCandidates bounds the exhaustive search. Beyond this the permutation
// count is combinatorially infeasible and the greedy planner should be used
// instead.
const MaxCandidates = 8

// DefaultTravelCap is the default ceiling on a route's total travel time,
// in minutes.
const DefaultTravelCap = 4 * 60

// Route is the result of the exhaustive optimizer.
type Route struct {
	// Order is the chosen visiting order, by display name.
	Order []string `json:"order"`

	// Score is the summed recommendation score of the ordered activities.
	Score float64 `json:"score"`

	// TravelMinutes is the total travel time over consecutive legs.
	TravelMinutes float64 `json:"travelMinutes"`
}

// OptimizeSmallSet enumerates every ordering of the candidates and returns
// the best one under the travel cap. The route score sums individual
// recommendation scores and is therefore order-independent: the cap is the
// real filter between orderings, and among equal scores the first ordering
// enumerated wins. Returns ErrNoFeasibleRoute when no ordering satisfies the
// cap.
func OptimizeSmallSet(candidates []recommend.ScoredActivity, g *travelgraph.Graph, travelCapMinutes float64) (*Route, error) {
	if len(candidates) == 0 {
		return nil, ErrNoCandidates
	}
	if len(candidates) > MaxCandidates {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyCandidates, len(candidates), MaxCandidates)
	}
	if travelCapMinutes <= 0 {
		travelCapMinutes = DefaultTravelCap
	}

	var best *Route
	bestScore := 0.0

	order := make([]int, len(candidates))
	for i := range order {
		order[i] = i
	}

	// Permutations are visited in a deterministic order derived from the
	// input order, preserving the first-found-wins tie rule.
	permute(order, 0, func(perm []int) {
		travel := 0.0
		score := 0.0
		for i, idx := range perm {
			score += candidates[idx].Score
			if i > 0 {
				travel += g.LookupDefault(candidates[perm[i-1]].Name, candidates[idx].Name)
			}
		}

		if travel >= travelCapMinutes {
			return
		}
		if best != nil && score <= bestScore {
			return
		}

		names := make([]string, len(perm))
		for i, idx := range perm {
			names[i] = candidates[idx].Name
		}
		best = &Route{Order: names, Score: score, TravelMinutes: travel}
		bestScore = score
	})

	if best == nil {
		return nil, ErrNoFeasibleRoute
	}
	return best, nil
}

// permute visits every permutation of order[k:], calling visit with the full
// slice for each. The slice is restored between calls.
func permute(order []int, k int, visit func([]int)) {
	if k == len(order) {
		visit(order)
		return
	}
	for i := k; i < len(order); i++ {
		order[k], order[i] = order[i], order[k]
		permute(order, k+1, visit)
		order[k], order[i] = order[i], order[k]
	}
}
