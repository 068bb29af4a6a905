package travelgraph

import "github.com/visitroute/visitroute/internal/catalog"

// Section-dwell thresholds for the zone-switch bias, in minutes.
const (
	// MinSectionDwell is the exploration floor: leaving a section before
	// spending this long in it is penalized.
	MinSectionDwell = 90

	// MaxSectionDwell is the lingering ceiling: staying in a section beyond
	// this is penalized.
	MaxSectionDwell = 4 * 60

	// SectionSwitchPenalty is the edge weight added when a dwell threshold
	// applies. Large enough to dominate any real in-site travel time.
	SectionSwitchPenalty = 10 * 60

	// NeutralSectionID identifies the section holding only the start/return
	// point. Its edges are never penalized.
	NeutralSectionID = "0"
)

// AdjustForSection returns a copy of the graph biased against premature or
// excessive switching out of the active section:
//
//   - dwell below MinSectionDwell: every edge from an activity in the active
//     section to an activity in another section (the neutral section
//     excepted) gains SectionSwitchPenalty, discouraging an early exit;
//   - dwell at or above MaxSectionDwell: every edge between two activities
//     inside the active section gains the penalty, nudging the planner on.
//
// The input graph is never mutated. The adjustment is a pure function of the
// base graph and the current dwell bracket: callers must recompute from the
// unpenalized base whenever dwell crosses a threshold, not stack calls on an
// already-adjusted graph.
func AdjustForSection(g *Graph, activeSection string, activities []catalog.Activity, dwellMinutes float64, applyPenalty bool) *Graph {
	adjusted := g.Clone()
	if !applyPenalty {
		return adjusted
	}

	var inSection, elsewhere []string
	for _, a := range activities {
		switch a.SectionID {
		case activeSection:
			inSection = append(inSection, a.Name)
		case NeutralSectionID:
			// Start/return point, never penalized.
		default:
			elsewhere = append(elsewhere, a.Name)
		}
	}

	switch {
	case dwellMinutes < MinSectionDwell:
		for _, from := range inSection {
			for _, to := range elsewhere {
				adjusted.AddEdgeWeight(from, to, SectionSwitchPenalty)
			}
		}
	case dwellMinutes >= MaxSectionDwell:
		for _, from := range inSection {
			for _, to := range inSection {
				if from != to {
					adjusted.AddEdgeWeight(from, to, SectionSwitchPenalty)
				}
			}
		}
	}

	return adjusted
}
