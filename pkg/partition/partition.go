package partition

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/field"
)

// DefaultTrials is the number of trials run when [Options.Trials] is zero.
const DefaultTrials = 1024

// Fitter decides whether fields may share a region. [fit.Oracle] is the
// production implementation.
type Fitter interface {
	// WouldFit reports whether members plus candidate fit as one region.
	WouldFit(members []int, candidate int) bool
	// Fits reports whether members fit as one region.
	Fits(members []int) bool
	// Check returns a DEGENERATE_FIT error if members do not fit.
	Check(members []int) error
}

// LayerMode controls how candidates admitted in the same growth layer are
// validated.
type LayerMode int

const (
	// LayersIndependent tests each candidate against the pre-layer region
	// only and admits every passing candidate.
	LayersIndependent LayerMode = iota
	// LayersIncremental additionally re-tests the union of the passing
	// candidates and, if it overflows, admits them one at a time.
	LayersIncremental
)

var layerModeNames = [...]string{"independent", "incremental"}

// ParseLayerMode parses "independent" or "incremental".
func ParseLayerMode(s string) (LayerMode, error) {
	for i, name := range layerModeNames {
		if strings.EqualFold(s, name) {
			return LayerMode(i), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown layer mode %q (must be independent or incremental)", s)
}

func (m LayerMode) String() string {
	if m < 0 || int(m) >= len(layerModeNames) {
		return fmt.Sprintf("LayerMode(%d)", int(m))
	}
	return layerModeNames[m]
}

// TrialReport describes one finished trial. It is passed to
// [Options.Progress].
type TrialReport struct {
	Trial     int  // Trial index
	Regions   int  // Number of regions formed
	Smallest  int  // Size of the smallest region
	Discarded bool // All regions were single fields
	Best      bool // The trial is the best seen so far
}

// Options configures [Partition].
type Options struct {
	// Trials is the number of randomized attempts. Zero means DefaultTrials.
	Trials int
	// Seed makes runs reproducible. Trial i draws from PCG(Seed, i).
	Seed uint64
	// Workers bounds the number of trials run concurrently.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int
	// Layers selects same-layer validation.
	Layers LayerMode
	// Progress, if set, is called once per finished trial from a single
	// goroutine, in completion order.
	Progress func(TrialReport)
}

// WithDefaults returns a copy of opts with zero values replaced.
func (o Options) WithDefaults() Options {
	if o.Trials <= 0 {
		o.Trials = DefaultTrials
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	o.Workers = min(o.Workers, o.Trials)
	return o
}

// Partition grows regions over g with fitter f and returns the best of
// opts.Trials randomized trials.
//
// Before any trial runs, every field is checked on its own; a field that
// cannot fit the volume fails the run with DEGENERATE_FIT naming it. The
// context is checked between trials.
func Partition(ctx context.Context, g *field.Graph, f Fitter, opts Options) (*Result, error) {
	opts = opts.WithDefaults()
	for id := range g.Len() {
		if err := f.Check([]int{id}); err != nil {
			return nil, err
		}
	}

	jobs := make(chan int, opts.Workers*2)
	results := make(chan trial, opts.Workers*2)

	var wg sync.WaitGroup
	for range opts.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				if ctx.Err() != nil {
					continue
				}
				results <- runTrial(g, f, opts, idx)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range opts.Trials {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var (
		best      *trial
		ran       int
		discarded int
	)
	for t := range results {
		ran++
		report := TrialReport{Trial: t.index, Regions: len(t.regions), Smallest: t.smallest, Discarded: t.degenerate}
		if t.degenerate {
			discarded++
		} else if best == nil || t.beats(best) {
			best = &t
			report.Best = true
		}
		if opts.Progress != nil {
			opts.Progress(report)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if best == nil {
		return nil, errors.New(errors.ErrCodeDegenerateFit,
			"all %d trials produced only single-field regions; the printable volume is too small for any two neighboring fields", ran)
	}
	return best.result(Stats{Trials: ran, Discarded: discarded}), nil
}
