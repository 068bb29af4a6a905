package itinerary

import (
	"math"

	"github.com/visitroute/visitroute/internal/catalog"
	"github.com/visitroute/visitroute/internal/travelgraph"
)

// feasible reports whether the activity can be reached from location at now,
// visited within its opening hours, and still allow a return to returnPoint
// by end. All values are minutes. Missing graph edges default to zero travel,
// so an incomplete graph errs on the optimistic side.
func feasible(a catalog.Activity, now, end float64, location string, g *travelgraph.Graph, returnPoint string) bool {
	arrival := now + g.LookupDefault(location, a.Name)

	actualStart := math.Max(arrival, a.OpeningTime)
	if actualStart >= a.ClosingTime {
		return false
	}

	finish := actualStart + a.Duration
	if finish > a.ClosingTime {
		return false
	}

	return finish+g.LookupDefault(a.Name, returnPoint) <= end
}
