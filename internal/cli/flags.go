package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/geodome/pkg/config"
	"github.com/matzehuels/geodome/pkg/errors"
)

// partitionFlags override the [partition] and [printer] tables.
type partitionFlags struct {
	volume    []float64
	strategy  string
	trials    int
	seed      uint64
	workers   int
	layers    string
	perStrand int
}

func (f *partitionFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fs := cmd.Flags()
	fs.Float64SliceVar(&f.volume, "volume", d.Printer.Volume[:], "printable volume x,y,z")
	fs.StringVar(&f.strategy, "strategy", d.Partition.Strategy, "partition strategy: grow, strands")
	fs.IntVar(&f.trials, "trials", d.Partition.Trials, "number of randomized growth trials")
	fs.Uint64Var(&f.seed, "seed", d.Partition.Seed, "random seed")
	fs.IntVar(&f.workers, "workers", d.Partition.Workers, "concurrent trials (0 = one per CPU)")
	fs.StringVar(&f.layers, "layers", d.Partition.Layers, "same-layer validation: independent, incremental")
	fs.IntVar(&f.perStrand, "per-strand", d.Partition.PerStrand, "fields per region for the strands strategy")
}

// apply copies every flag the user set onto cfg.
func (f *partitionFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	if fs.Changed("volume") {
		if len(f.volume) != 3 {
			return errors.New(errors.ErrCodeInvalidConfig, "--volume needs three extents, got %d", len(f.volume))
		}
		copy(cfg.Printer.Volume[:], f.volume)
	}
	if fs.Changed("strategy") {
		cfg.Partition.Strategy = f.strategy
	}
	if fs.Changed("trials") {
		cfg.Partition.Trials = f.trials
	}
	if fs.Changed("seed") {
		cfg.Partition.Seed = f.seed
	}
	if fs.Changed("workers") {
		cfg.Partition.Workers = f.workers
	}
	if fs.Changed("layers") {
		cfg.Partition.Layers = f.layers
	}
	if fs.Changed("per-strand") {
		cfg.Partition.PerStrand = f.perStrand
	}
	return nil
}

// stackFlags override the [stack] table.
type stackFlags struct {
	axis      string
	mode      string
	gap       float64
	clearance float64
}

func (f *stackFlags) register(cmd *cobra.Command) {
	d := config.Default()
	fs := cmd.Flags()
	fs.StringVar(&f.axis, "axis", d.Stack.Axis, "stacking axis: x, y, z")
	fs.StringVar(&f.mode, "mode", d.Stack.Mode, "offset mode: fixed, curvature")
	fs.Float64Var(&f.gap, "gap", d.Stack.Gap, "gap between stacked regions")
	fs.Float64Var(&f.clearance, "clearance", d.Stack.Clearance, "fixed clearance between stacked regions")
}

func (f *stackFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	fs := cmd.Flags()
	if fs.Changed("axis") {
		cfg.Stack.Axis = f.axis
	}
	if fs.Changed("mode") {
		cfg.Stack.Mode = f.mode
	}
	if fs.Changed("gap") {
		cfg.Stack.Gap = f.gap
	}
	if fs.Changed("clearance") {
		cfg.Stack.Clearance = f.clearance
	}
}
