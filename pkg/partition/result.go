package partition

import (
	"slices"

	"github.com/matzehuels/geodome/pkg/field"
)

// Region is one finished continent.
type Region struct {
	ID     int   `json:"id"`
	Fields []int `json:"fields"` // Member field ids, ascending
}

// Len returns the number of member fields.
func (r Region) Len() int { return len(r.Fields) }

// Stats summarizes the run that produced a [Result].
type Stats struct {
	Trials    int   `json:"trials"`
	Discarded int   `json:"discarded"`
	BestTrial int   `json:"best_trial"`
	Regions   int   `json:"regions"`
	Smallest  int   `json:"smallest"`
	Overflows []int `json:"overflows,omitempty"`
}

// Result is a complete assignment of fields to regions.
type Result struct {
	Regions    []Region
	Assignment []int // field id -> region id
	Stats      Stats
}

// FromRegions rebuilds a Result for graph g from stored regions, for example
// a layout read back from disk. Every field must belong to exactly one
// region and region ids must equal their index.
func FromRegions(g *field.Graph, regions []Region) (*Result, bool) {
	assign := make([]int, g.Len())
	for i := range assign {
		assign[i] = unassigned
	}
	smallest := g.Len()
	for i, r := range regions {
		if r.ID != i || len(r.Fields) == 0 {
			return nil, false
		}
		for _, id := range r.Fields {
			if id < 0 || id >= len(assign) || assign[id] != unassigned {
				return nil, false
			}
			assign[id] = i
		}
		smallest = min(smallest, len(r.Fields))
	}
	if slices.Contains(assign, unassigned) {
		return nil, false
	}
	return &Result{
		Regions:    regions,
		Assignment: assign,
		Stats:      Stats{Regions: len(regions), Smallest: smallest},
	}, true
}

// Verify re-checks every region as a whole and returns the ids of regions
// that overflow the volume. The ids are also recorded in Stats.Overflows.
func (r *Result) Verify(f Fitter) []int {
	var over []int
	for _, reg := range r.Regions {
		if !f.Fits(reg.Fields) {
			over = append(over, reg.ID)
		}
	}
	r.Stats.Overflows = over
	return over
}

// Adjacency returns every pair of regions that share at least one graph
// edge, as (low, high) region ids in ascending order.
func (r *Result) Adjacency(g *field.Graph) [][2]int {
	seen := make(map[[2]int]bool)
	var pairs [][2]int
	for _, e := range g.Edges() {
		a, b := r.Assignment[e[0]], r.Assignment[e[1]]
		if a == b {
			continue
		}
		p := [2]int{min(a, b), max(a, b)}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	slices.SortFunc(pairs, func(x, y [2]int) int {
		if x[0] != y[0] {
			return x[0] - y[0]
		}
		return x[1] - y[1]
	})
	return pairs
}
