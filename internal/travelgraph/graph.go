// Package travelgraph provides the directed travel-time graph between named
// locations inside the site, plus providers that estimate edge durations.
package travelgraph

// Graph is a directed mapping from (origin name, destination name) to travel
// time in minutes. It is not guaranteed symmetric or complete: a missing edge
// is reported through Lookup's second return value rather than as zero.
type Graph struct {
	edges map[string]map[string]float64
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{edges: make(map[string]map[string]float64)}
}

// SetEdge sets the travel time in minutes from origin to destination.
// Edges are directed; the reverse edge is not implied.
func (g *Graph) SetEdge(origin, destination string, minutes float64) {
	row, ok := g.edges[origin]
	if !ok {
		row = make(map[string]float64)
		g.edges[origin] = row
	}
	row[destination] = minutes
}

// Lookup returns the travel time from origin to destination and whether the
// edge exists.
func (g *Graph) Lookup(origin, destination string) (float64, bool) {
	row, ok := g.edges[origin]
	if !ok {
		return 0, false
	}
	minutes, ok := row[destination]
	return minutes, ok
}

// LookupDefault returns the travel time from origin to destination, or 0 when
// the edge is absent. Feasibility checking and greedy planning use this
// deliberately permissive default so an incomplete graph degrades to
// optimistic estimates instead of failing the whole plan.
func (g *Graph) LookupDefault(origin, destination string) float64 {
	minutes, _ := g.Lookup(origin, destination)
	return minutes
}

// AddEdgeWeight adds delta minutes to an existing edge. Missing edges are
// left absent.
func (g *Graph) AddEdgeWeight(origin, destination string, delta float64) {
	if row, ok := g.edges[origin]; ok {
		if minutes, ok := row[destination]; ok {
			row[destination] = minutes + delta
		}
	}
}

// HasOrigin reports whether the graph has at least one edge leaving origin.
func (g *Graph) HasOrigin(origin string) bool {
	return len(g.edges[origin]) > 0
}

// Clone returns a deep copy of the graph. Adjustments always operate on a
// clone so concurrent planning calls sharing a base graph never interfere.
func (g *Graph) Clone() *Graph {
	out := New()
	for origin, row := range g.edges {
		outRow := make(map[string]float64, len(row))
		for destination, minutes := range row {
			outRow[destination] = minutes
		}
		out.edges[origin] = outRow
	}
	return out
}

// EdgeCount returns the number of directed edges in the graph.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, row := range g.edges {
		n += len(row)
	}
	return n
}

// Origins returns the number of origin nodes with at least one edge.
func (g *Graph) Origins() int {
	return len(g.edges)
}
