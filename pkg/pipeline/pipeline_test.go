package pipeline

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/geodome/pkg/cache"
	"github.com/matzehuels/geodome/pkg/config"
	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/field"
	geoio "github.com/matzehuels/geodome/pkg/io"
	"github.com/matzehuels/geodome/pkg/observability"
)

// chainInput encodes a four-field chain of unit boxes.
func chainInput(t *testing.T) *Input {
	t.Helper()
	g, geo := field.Chain(4, 1)
	var buf bytes.Buffer
	if err := geoio.WriteGeometry(g, geo, &buf); err != nil {
		t.Fatalf("WriteGeometry: %v", err)
	}
	in, err := DecodeInput(buf.Bytes())
	if err != nil {
		t.Fatalf("DecodeInput: %v", err)
	}
	return in
}

// chainConfig admits two neighboring chain fields per region.
func chainConfig() *config.Config {
	cfg := config.Default()
	cfg.Printer.Volume = [3]float64{2, 10, 10}
	cfg.Partition.Trials = 64
	cfg.Partition.Workers = 2
	cfg.Stack.Gap = 1
	cfg.Stack.Clearance = 0.5
	return cfg
}

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestExecute(t *testing.T) {
	in := chainInput(t)
	res, err := quietRunner(nil).Execute(context.Background(), chainConfig(), in)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	p := res.Partition
	if p.Stats.Regions != 2 || p.Stats.Smallest != 2 {
		t.Errorf("stats = %+v, want 2 regions of 2", p.Stats)
	}
	if len(p.Stats.Overflows) != 0 {
		t.Errorf("overflows = %v, want none", p.Stats.Overflows)
	}
	if len(res.Stacks) != 1 || len(res.Stacks[0].Members) != 2 {
		t.Fatalf("stacks = %v, want one stack of two", res.Stacks)
	}
	if got := res.Stacks[0].Members[1].Offset; got != 1.5 {
		t.Errorf("second offset = %v, want 1.5", got)
	}

	l := res.Layout
	if l.RunID == "" {
		t.Error("layout has no run id")
	}
	if len(l.Regions) != 2 || len(l.Stacks) != 1 {
		t.Errorf("layout has %d regions and %d stacks", len(l.Regions), len(l.Stacks))
	}
	if res.CacheInfo.PartitionHit {
		t.Error("first run reported a cache hit")
	}
}

func TestExecuteCached(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := quietRunner(fc)
	defer r.Close()

	ctx := context.Background()
	in := chainInput(t)
	cfg := chainConfig()

	first, err := r.Execute(ctx, cfg, in)
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	second, err := r.Execute(ctx, cfg, in)
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.PartitionHit {
		t.Error("second run should hit the partition cache")
	}
	if !slices.Equal(first.Partition.Assignment, second.Partition.Assignment) {
		t.Errorf("assignment changed: %v -> %v", first.Partition.Assignment, second.Partition.Assignment)
	}
	if first.Partition.Stats.BestTrial != second.Partition.Stats.BestTrial {
		t.Errorf("best trial changed: %d -> %d", first.Partition.Stats.BestTrial, second.Partition.Stats.BestTrial)
	}

	// A different seed is a different key.
	cfg.Partition.Seed++
	third, err := r.Execute(ctx, cfg, in)
	if err != nil {
		t.Fatalf("third Execute: %v", err)
	}
	if third.CacheInfo.PartitionHit {
		t.Error("changed seed should miss the cache")
	}

	r.Refresh = true
	fourth, err := r.Execute(ctx, cfg, in)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if fourth.CacheInfo.PartitionHit {
		t.Error("refresh should skip the cache")
	}
}

func TestCorruptCacheEntryIsRecomputed(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	r := quietRunner(fc)
	ctx := context.Background()
	in := chainInput(t)
	cfg := chainConfig()

	key := r.Keyer.PartitionKey(in.Hash, partitionKeyOpts(cfg))
	if err := fc.Set(ctx, key, []byte(`{"regions":[{"id":0,"fields":[0]}]}`), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	res, hit, err := r.PartitionWithCacheInfo(ctx, cfg, in)
	if err != nil {
		t.Fatalf("PartitionWithCacheInfo: %v", err)
	}
	if hit {
		t.Error("partial cached partition should not count as a hit")
	}
	if res.Stats.Regions != 2 {
		t.Errorf("regions = %d, want 2", res.Stats.Regions)
	}
}

func TestStrandsReportOverflows(t *testing.T) {
	cfg := chainConfig()
	cfg.Partition.Strategy = config.StrategyStrands
	cfg.Partition.PerStrand = 3

	res, err := quietRunner(nil).Partition(context.Background(), cfg, chainInput(t))
	if err != nil {
		t.Fatalf("Partition: %v", err)
	}
	if got := res.Stats.Overflows; !slices.Equal(got, []int{0}) {
		t.Errorf("overflows = %v, want [0]", got)
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		code   errors.Code
	}{
		{"InvalidConfig", func(c *config.Config) { c.Stack.Gap = 0 }, errors.ErrCodeInvalidConfig},
		{"FieldTooLarge", func(c *config.Config) { c.Printer.Volume = [3]float64{0.5, 10, 10} }, errors.ErrCodeDegenerateFit},
		{"FieldTooTall", func(c *config.Config) { c.Printer.Volume = [3]float64{2, 10, 0.9} }, errors.ErrCodeDegenerateFit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := chainConfig()
			tt.mutate(cfg)
			_, err := quietRunner(nil).Execute(context.Background(), cfg, chainInput(t))
			if !errors.Is(err, tt.code) {
				t.Errorf("Execute error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadInput(t *testing.T) {
	g, geo := field.Chain(3, 1)
	path := filepath.Join(t.TempDir(), "chain.json")
	if err := geoio.ExportGeometry(g, geo, path); err != nil {
		t.Fatalf("ExportGeometry: %v", err)
	}
	in, err := LoadInput(path)
	if err != nil {
		t.Fatalf("LoadInput: %v", err)
	}
	if in.Graph.Len() != 3 || in.Hash == "" {
		t.Errorf("input = %d fields, hash %q", in.Graph.Len(), in.Hash)
	}

	_, err = LoadInput(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("LoadInput(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestHooksObserveRun(t *testing.T) {
	observability.Reset()
	defer observability.Reset()

	h := &recordingHooks{}
	observability.SetPipelineHooks(h)

	cfg := chainConfig()
	if _, err := quietRunner(nil).Execute(context.Background(), cfg, chainInput(t)); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.trials != cfg.Partition.Trials {
		t.Errorf("OnTrial called %d times, want %d", h.trials, cfg.Partition.Trials)
	}
	if h.regions != 2 || h.stacks != 1 {
		t.Errorf("completed with %d regions and %d stacks, want 2 and 1", h.regions, h.stacks)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu      sync.Mutex
	trials  int
	regions int
	stacks  int
}

func (h *recordingHooks) OnTrial(context.Context, int, int, int, bool) {
	h.mu.Lock()
	h.trials++
	h.mu.Unlock()
}

func (h *recordingHooks) OnPartitionComplete(_ context.Context, regions int, _ time.Duration, _ error) {
	h.mu.Lock()
	h.regions = regions
	h.mu.Unlock()
}

func (h *recordingHooks) OnStackComplete(_ context.Context, stacks int, _ time.Duration, _ error) {
	h.mu.Lock()
	h.stacks = stacks
	h.mu.Unlock()
}
