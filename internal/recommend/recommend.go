// Package recommend provides content-based activity recommendation: it folds
// a user's like/dislike swipes into a preference profile and scores every
// catalog activity against it.
package recommend

import (
	"errors"
	"sort"
	"strings"

	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/interest"
)

// Recommendation errors.
var (
	ErrNegativeWeight = errors.New("score weights must be non-negative")
	ErrEmptyCatalog   = catalog.ErrEmptyCatalog
)

// Options controls recommendation scoring.
type Options struct {
	// Alpha weighs similarity to the preference profile.
	Alpha float64

	// Beta weighs the penalty for similarity to disliked activities.
	Beta float64

	// ExcludeSeen omits already-swiped activities from the output.
	// Disliked activities still contribute to the penalty term.
	ExcludeSeen bool

	// TopN limits the output to the N best-scored activities (0 = all).
	TopN int
}

// DefaultOptions returns the default scoring options.
func DefaultOptions() Options {
	return Options{Alpha: 1.0, Beta: 0.5}
}

// ScoredActivity is an activity annotated with its recommendation score.
type ScoredActivity struct {
	catalog.Activity
	Score float64
}

// BuildProfile folds swipes into a single preference vector: liked
// activities are added, disliked ones subtracted. Swipes referencing
// activities absent from the catalog are skipped silently — the catalog may
// have changed since the swipe was recorded. With normalize set, the result
// is L2-normalized unless it is the zero vector, which is returned as is.
func BuildProfile(swipes []catalog.Swipe, activities []catalog.Activity, normalize bool) interest.Vector {
	lookup := catalog.ByID(activities)

	var profile interest.Vector
	for _, s := range swipes {
		a, ok := lookup[normalizeID(s.ActivityID)]
		if !ok {
			continue
		}
		if s.Liked {
			profile = profile.Add(a.Interests)
		} else {
			profile = profile.Sub(a.Interests)
		}
	}

	if normalize {
		profile = profile.Normalize()
	}

	return profile
}

// ProfileByTheme returns the user's unnormalized preference profile keyed by
// theme name, for presentation.
func ProfileByTheme(swipes []catalog.Swipe, activities []catalog.Activity) map[string]float64 {
	return BuildProfile(swipes, activities, false).ByTheme()
}

// Score computes the recommendation score of one activity:
//
//	alpha * cos(profile, activity) - beta * max(cos(activity, disliked...))
//
// The penalty term is 0 when there are no disliked activities.
func Score(a catalog.Activity, profile interest.Vector, disliked []catalog.Activity, alpha, beta float64) float64 {
	base := interest.Cosine(profile, a.Interests)

	var penalty float64
	if len(disliked) > 0 {
		maxSim := interest.Cosine(a.Interests, disliked[0].Interests)
		for _, d := range disliked[1:] {
			if sim := interest.Cosine(a.Interests, d.Interests); sim > maxSim {
				maxSim = sim
			}
		}
		penalty = beta * maxSim
	}

	return alpha*base - penalty
}

// Recommend scores every catalog activity against the user's swipes and
// returns them sorted by descending score. The sort is stable, so ties keep
// catalog order: identical inputs always yield identical output.
func Recommend(swipes []catalog.Swipe, activities []catalog.Activity, opts Options) ([]ScoredActivity, error) {
	if opts.Alpha < 0 || opts.Beta < 0 {
		return nil, ErrNegativeWeight
	}
	if len(activities) == 0 {
		return nil, ErrEmptyCatalog
	}

	profile := BuildProfile(swipes, activities, true)

	lookup := catalog.ByID(activities)
	var disliked []catalog.Activity
	seen := make(map[string]struct{}, len(swipes))
	for _, s := range swipes {
		id := normalizeID(s.ActivityID)
		seen[id] = struct{}{}
		if s.Liked {
			continue
		}
		if a, ok := lookup[id]; ok {
			disliked = append(disliked, a)
		}
	}

	scored := make([]ScoredActivity, 0, len(activities))
	for _, a := range activities {
		if opts.ExcludeSeen {
			if _, swiped := seen[a.ID]; swiped {
				continue
			}
		}
		scored = append(scored, ScoredActivity{
			Activity: a,
			Score:    Score(a, profile, disliked, opts.Alpha, opts.Beta),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	if opts.TopN > 0 && len(scored) > opts.TopN {
		scored = scored[:opts.TopN]
	}

	return scored, nil
}

// normalizeID normalizes an activity identifier for lookup. Swipes recorded
// by older clients occasionally carry surrounding whitespace.
func normalizeID(id string) string {
	return strings.TrimSpace(id)
}
