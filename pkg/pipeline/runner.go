package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geodome/pkg/cache"
	"github.com/matzehuels/geodome/pkg/config"
	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/fit"
	geoio "github.com/matzehuels/geodome/pkg/io"
	"github.com/matzehuels/geodome/pkg/observability"
	"github.com/matzehuels/geodome/pkg/partition"
	"github.com/matzehuels/geodome/pkg/stack"
)

const keyTypePartition = "partition"

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can safely use the same Runner with different configurations.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// Refresh skips cache lookups. Results are still written back.
	Refresh bool
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete partition → verify → stack pipeline.
func (r *Runner) Execute(ctx context.Context, cfg *config.Config, in *Input) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{}

	partStart := time.Now()
	res, hit, err := r.PartitionWithCacheInfo(ctx, cfg, in)
	if err != nil {
		return nil, fmt.Errorf("partition: %w", err)
	}
	result.Partition = res
	result.Stats.PartitionTime = time.Since(partStart)
	result.CacheInfo.PartitionHit = hit

	stackStart := time.Now()
	stacks, err := r.Stack(ctx, cfg, in, res)
	if err != nil {
		return nil, fmt.Errorf("stack: %w", err)
	}
	result.Stacks = stacks
	result.Stats.StackTime = time.Since(stackStart)

	result.Layout = geoio.NewLayout(cfg, in.Geometry, res, stacks)
	return result, nil
}

// Partition is a convenience wrapper that calls PartitionWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Partition(ctx context.Context, cfg *config.Config, in *Input) (*partition.Result, error) {
	res, _, err := r.PartitionWithCacheInfo(ctx, cfg, in)
	return res, err
}

// PartitionWithCacheInfo partitions the input with caching, verifies the
// result against the printable volume and reports whether it came from the
// cache.
func (r *Runner) PartitionWithCacheInfo(ctx context.Context, cfg *config.Config, in *Input) (*partition.Result, bool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	if err := in.Geometry.Validate(in.Graph); err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInvalidGraph, err, "geometry")
	}

	oracle := fit.New(in.Geometry, cfg.Volume())
	key := r.Keyer.PartitionKey(in.Hash, partitionKeyOpts(cfg))

	if !r.Refresh {
		if res, ok := r.cachedPartition(ctx, key, in); ok {
			observability.Cache().OnCacheHit(ctx, keyTypePartition)
			r.Logger.Debug("partition cache hit", "key", key)
			r.verify(res, oracle)
			return res, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypePartition)
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnPartitionStart(ctx, in.Graph.Len(), cfg.Partition.Trials)

	var (
		res *partition.Result
		err error
	)
	switch cfg.Partition.Strategy {
	case config.StrategyStrands:
		res, err = partition.Strands(in.Graph, cfg.Partition.PerStrand)
	default:
		opts := cfg.PartitionOptions()
		opts.Progress = func(rep partition.TrialReport) {
			hooks.OnTrial(ctx, rep.Trial, rep.Regions, rep.Smallest, rep.Discarded)
			if rep.Best {
				r.Logger.Debug("new best trial", "trial", rep.Trial, "regions", rep.Regions, "smallest", rep.Smallest)
			}
		}
		res, err = partition.Partition(ctx, in.Graph, oracle, opts)
	}
	duration := time.Since(start)
	if err != nil {
		hooks.OnPartitionComplete(ctx, 0, duration, err)
		return nil, false, err
	}
	hooks.OnPartitionComplete(ctx, len(res.Regions), duration, nil)

	r.Logger.Info("partitioned fields",
		"strategy", cfg.Partition.Strategy,
		"fields", in.Graph.Len(),
		"regions", res.Stats.Regions,
		"smallest", res.Stats.Smallest,
		"discarded", res.Stats.Discarded,
		"duration", duration)

	r.verify(res, oracle)

	if data, err := json.Marshal(cachedResult{Regions: res.Regions, Stats: res.Stats}); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.TTLPartition); err != nil {
			r.Logger.Warn("cache write failed", "key", key, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypePartition, len(data))
		}
	}
	return res, false, nil
}

// Stack packs the regions of res into stacks along the configured axis.
func (r *Runner) Stack(ctx context.Context, cfg *config.Config, in *Input, res *partition.Result) ([]stack.Stack, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s := &stack.Stacker{
		Geometry: in.Geometry,
		Volume:   cfg.Volume(),
		Axis:     cfg.Axis(),
		Offsets:  cfg.Offsetter(),
	}

	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnStackStart(ctx, len(res.Regions))
	stacks, err := s.Pack(res.Regions)
	duration := time.Since(start)
	if err != nil {
		hooks.OnStackComplete(ctx, 0, duration, err)
		return nil, err
	}
	hooks.OnStackComplete(ctx, len(stacks), duration, nil)

	r.Logger.Info("stacked regions",
		"axis", cfg.Stack.Axis,
		"mode", cfg.Stack.Mode,
		"stacks", len(stacks),
		"duration", duration)
	return stacks, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// cachedResult is the cache payload of a partition. The assignment is
// rebuilt from the regions on load.
type cachedResult struct {
	Regions []partition.Region `json:"regions"`
	Stats   partition.Stats    `json:"stats"`
}

func (r *Runner) cachedPartition(ctx context.Context, key string, in *Input) (*partition.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false
	}
	res, ok := partition.FromRegions(in.Graph, cached.Regions)
	if !ok {
		return nil, false
	}
	cached.Stats.Overflows = nil
	res.Stats = cached.Stats
	return res, true
}

func (r *Runner) verify(res *partition.Result, f partition.Fitter) {
	for _, id := range res.Verify(f) {
		r.Logger.Warn("region overflows the printable volume",
			"region", id, "fields", res.Regions[id].Len())
	}
}

func partitionKeyOpts(cfg *config.Config) cache.PartitionKeyOpts {
	p := cfg.Partition
	opts := cache.PartitionKeyOpts{
		Volume:   cfg.Printer.Volume,
		Strategy: p.Strategy,
	}
	if p.Strategy == config.StrategyStrands {
		opts.PerStrand = p.PerStrand
		return opts
	}
	opts.Trials = p.Trials
	opts.Seed = p.Seed
	opts.Layers = p.Layers
	return opts
}
