package partition

import (
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/geodome/pkg/field"
)

const unassigned = -1

// trial is the outcome of one randomized growth pass.
type trial struct {
	index      int
	assign     []int   // node id -> region id
	regions    [][]int // region id -> member ids, in admission order
	smallest   int
	degenerate bool
}

// score is smallest minus region count; larger is better.
func (t *trial) score() int { return t.smallest - len(t.regions) }

// beats reports whether t should replace other as the best trial.
func (t *trial) beats(other *trial) bool {
	if s, o := t.score(), other.score(); s != o {
		return s > o
	}
	if len(t.regions) != len(other.regions) {
		return len(t.regions) > len(other.regions)
	}
	return t.index < other.index
}

func runTrial(g *field.Graph, f Fitter, opts Options, index int) trial {
	rng := rand.New(rand.NewPCG(opts.Seed, uint64(index)))
	n := g.Len()

	gr := &grower{
		g:      g,
		f:      f,
		mode:   opts.Layers,
		assign: make([]int, n),
		queued: make([]bool, n),
		seen:   make([]int, n),
	}
	for i := range gr.assign {
		gr.assign[i] = unassigned
	}

	t := trial{index: index}
	remaining := n
	seed := rng.IntN(n)
	for {
		region := gr.grow(seed)
		id := len(t.regions)
		for _, m := range region {
			gr.assign[m] = id
		}
		t.regions = append(t.regions, region)
		remaining -= len(region)
		if remaining == 0 {
			break
		}
		seed = gr.nextSeed(rng)
	}

	t.assign = gr.assign
	t.smallest = n
	singletons := true
	for _, r := range t.regions {
		t.smallest = min(t.smallest, len(r))
		if len(r) > 1 {
			singletons = false
		}
	}
	t.degenerate = singletons && n > 1
	return t
}

// grower holds the per-trial scratch state of region growth.
type grower struct {
	g      *field.Graph
	f      Fitter
	mode   LayerMode
	assign []int
	queued []bool // member of the region being grown
	seen   []int  // layer stamp, dedupes candidates within one layer
	layer  int
}

// grow grows a region from seed until no neighbor passes the fitter.
func (gr *grower) grow(seed int) []int {
	region := []int{seed}
	gr.queued[seed] = true

	for {
		gr.layer++
		var candidates []int
		for _, id := range region {
			for _, nb := range gr.g.Neighbors(id) {
				if gr.assign[nb] != unassigned || gr.queued[nb] || gr.seen[nb] == gr.layer {
					continue
				}
				gr.seen[nb] = gr.layer
				candidates = append(candidates, nb)
			}
		}

		var passing []int
		for _, c := range candidates {
			if gr.f.WouldFit(region, c) {
				passing = append(passing, c)
			}
		}
		if len(passing) == 0 {
			break
		}

		if gr.mode == LayersIncremental && len(passing) > 1 && !gr.f.Fits(append(slices.Clip(region), passing...)) {
			// The first passing candidate was tested against exactly the
			// pre-layer region, so at least one is admitted.
			for _, c := range passing {
				if gr.f.WouldFit(region, c) {
					region = append(region, c)
					gr.queued[c] = true
				}
			}
			continue
		}

		for _, c := range passing {
			gr.queued[c] = true
		}
		region = append(region, passing...)
	}

	for _, id := range region {
		gr.queued[id] = false
	}
	return region
}

// nextSeed picks an unassigned field bordering assigned ones, or any
// unassigned field if none borders (possible only on disconnected input).
func (gr *grower) nextSeed(rng *rand.Rand) int {
	var frontier, rest []int
	for id, a := range gr.assign {
		if a != unassigned {
			continue
		}
		rest = append(rest, id)
		for _, nb := range gr.g.Neighbors(id) {
			if gr.assign[nb] != unassigned {
				frontier = append(frontier, id)
				break
			}
		}
	}
	if len(frontier) > 0 {
		return frontier[rng.IntN(len(frontier))]
	}
	return rest[rng.IntN(len(rest))]
}

func (t *trial) result(stats Stats) *Result {
	r := &Result{
		Regions:    make([]Region, len(t.regions)),
		Assignment: t.assign,
	}
	for id, members := range t.regions {
		fields := slices.Clone(members)
		slices.Sort(fields)
		r.Regions[id] = Region{ID: id, Fields: fields}
	}
	stats.BestTrial = t.index
	stats.Regions = len(t.regions)
	stats.Smallest = t.smallest
	r.Stats = stats
	return r
}
