package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/geom"
	"github.com/matzehuels/geodome/pkg/partition"
	"github.com/matzehuels/geodome/pkg/stack"
)

func TestDefaultValidates(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Axis() != geom.AxisZ {
		t.Errorf("Axis() = %v, want z", cfg.Axis())
	}
	if want := (stack.FixedOffset{Clearance: 20, Gap: 4}); cfg.Offsetter() != want {
		t.Errorf("Offsetter() = %#v, want %#v", cfg.Offsetter(), want)
	}
	opts := cfg.PartitionOptions()
	if opts.Trials != 1024 || opts.Seed != 42 || opts.Layers != partition.LayersIndependent {
		t.Errorf("PartitionOptions() = %+v", opts)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
[printer]
volume = [200.0, 200.0, 180.0]

[partition]
trials = 8
layers = "incremental"

[stack]
mode = "curvature"
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Volume() != (geom.Volume{200, 200, 180}) {
		t.Errorf("Volume() = %v", cfg.Volume())
	}
	if cfg.Partition.Trials != 8 || cfg.PartitionOptions().Layers != partition.LayersIncremental {
		t.Errorf("partition = %+v", cfg.Partition)
	}
	if cfg.Partition.Seed != 42 {
		t.Errorf("Seed = %d, want default 42", cfg.Partition.Seed)
	}
	if want := (stack.CurvatureOffset{Gap: 4, Outer: 170, Inner: 150}); cfg.Offsetter() != want {
		t.Errorf("Offsetter() = %#v, want %#v", cfg.Offsetter(), want)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		toml string
	}{
		{"syntax", `[printer`},
		{"unknown key", "[stack]\nspacing = 3"},
		{"zero volume", "[printer]\nvolume = [0.0, 1.0, 1.0]"},
		{"negative gap", "[stack]\ngap = -1.0"},
		{"zero clearance", "[stack]\nclearance = 0.0"},
		{"bad axis", "[stack]\naxis = \"w\""},
		{"bad mode", "[stack]\nmode = \"spiral\""},
		{"curvature off z", "[stack]\nmode = \"curvature\"\naxis = \"x\""},
		{"inverted radii", "[shell]\nouter_radius = 100.0\ninner_radius = 120.0"},
		{"zero radius", "[shell]\ninner_radius = 0.0"},
		{"bad strategy", "[partition]\nstrategy = \"random\""},
		{"zero trials", "[partition]\ntrials = 0"},
		{"negative workers", "[partition]\nworkers = -2"},
		{"zero per strand", "[partition]\nper_strand = 0"},
		{"bad layers", "[partition]\nlayers = \"greedy\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.toml))
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("Parse() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestParseJSON(t *testing.T) {
	cfg, err := ParseJSON([]byte(`{"stack": {"gap": 2.5}, "partition": {"trials": 16}}`))
	if err != nil {
		t.Fatalf("ParseJSON: %v", err)
	}
	if cfg.Stack.Gap != 2.5 || cfg.Partition.Trials != 16 || cfg.Stack.Clearance != 20 {
		t.Errorf("cfg = %+v", cfg)
	}

	for _, empty := range []string{"", "null", "  "} {
		if _, err := ParseJSON([]byte(empty)); err != nil {
			t.Errorf("ParseJSON(%q) = %v", empty, err)
		}
	}

	if _, err := ParseJSON([]byte(`{"stack": {"gapp": 1}}`)); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("unknown field error = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geodome.toml")
	if err := os.WriteFile(path, []byte("[stack]\naxis = \"y\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Axis() != geom.AxisY {
		t.Errorf("Axis() = %v, want y", cfg.Axis())
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	data, err := Default().Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse(Encode()): %v\n%s", err, data)
	}
	if *cfg != *Default() {
		t.Errorf("round trip changed config:\n%+v\n%+v", cfg, Default())
	}
}
