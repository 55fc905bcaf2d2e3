// Package config loads geodome's TOML configuration.
//
// A configuration file only needs the keys it changes; everything else keeps
// the value from [Default]:
//
//	[printer]
//	volume = [650.0, 550.0, 350.0]
//
//	[shell]
//	outer_radius = 170.0
//	inner_radius = 150.0
//
//	[partition]
//	strategy = "grow"        # grow | strands
//	trials = 1024
//	seed = 42
//	workers = 0              # 0 = one per CPU
//	layers = "independent"   # independent | incremental
//	per_strand = 50
//
//	[stack]
//	axis = "z"
//	mode = "fixed"           # fixed | curvature
//	gap = 4.0
//	clearance = 20.0
//
// The same structure is accepted as JSON by the HTTP API. Every problem is
// reported as an INVALID_CONFIG error before any computation starts.
package config

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/geom"
	"github.com/matzehuels/geodome/pkg/partition"
	"github.com/matzehuels/geodome/pkg/stack"
)

// Partition strategies.
const (
	StrategyGrow    = "grow"
	StrategyStrands = "strands"
)

// Stack offset modes.
const (
	ModeFixed     = "fixed"
	ModeCurvature = "curvature"
)

// Config is the complete run configuration.
type Config struct {
	Printer   Printer   `toml:"printer" json:"printer"`
	Shell     Shell     `toml:"shell" json:"shell"`
	Partition Partition `toml:"partition" json:"partition"`
	Stack     Stack     `toml:"stack" json:"stack"`
}

// Printer describes the print bed.
type Printer struct {
	Volume [3]float64 `toml:"volume" json:"volume"`
}

// Shell gives the radii of the dome's spherical shell.
type Shell struct {
	OuterRadius float64 `toml:"outer_radius" json:"outer_radius"`
	InnerRadius float64 `toml:"inner_radius" json:"inner_radius"`
}

// Partition configures region growth.
type Partition struct {
	Strategy  string `toml:"strategy" json:"strategy"`
	Trials    int    `toml:"trials" json:"trials"`
	Seed      uint64 `toml:"seed" json:"seed"`
	Workers   int    `toml:"workers" json:"workers"`
	Layers    string `toml:"layers" json:"layers"`
	PerStrand int    `toml:"per_strand" json:"per_strand"`
}

// Stack configures batching of regions.
type Stack struct {
	Axis      string  `toml:"axis" json:"axis"`
	Mode      string  `toml:"mode" json:"mode"`
	Gap       float64 `toml:"gap" json:"gap"`
	Clearance float64 `toml:"clearance" json:"clearance"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Printer: Printer{Volume: [3]float64{650, 550, 350}},
		Shell:   Shell{OuterRadius: 170, InnerRadius: 150},
		Partition: Partition{
			Strategy:  StrategyGrow,
			Trials:    partition.DefaultTrials,
			Seed:      42,
			Layers:    partition.LayersIndependent.String(),
			PerStrand: 50,
		},
		Stack: Stack{
			Axis:      "z",
			Mode:      ModeFixed,
			Gap:       4,
			Clearance: 20,
		},
	}
}

// Load reads and validates the TOML file at path on top of [Default].
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Parse(data)
}

// Parse decodes and validates TOML on top of [Default]. Unknown keys are
// rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ParseJSON decodes and validates JSON on top of [Default]. A nil or empty
// message yields the defaults.
func ParseJSON(data []byte) (*Config, error) {
	cfg := Default()
	if len(bytes.TrimSpace(data)) > 0 && !bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode writes cfg as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode config")
	}
	return buf.Bytes(), nil
}

// Validate checks every field and returns the first violation.
func (c *Config) Validate() error {
	if err := c.Volume().Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "printer.volume")
	}

	if err := errors.ValidatePositive("shell.outer_radius", c.Shell.OuterRadius); err != nil {
		return err
	}
	if err := errors.ValidatePositive("shell.inner_radius", c.Shell.InnerRadius); err != nil {
		return err
	}
	if c.Shell.InnerRadius > c.Shell.OuterRadius {
		return errors.New(errors.ErrCodeInvalidConfig, "shell.inner_radius (%g) exceeds shell.outer_radius (%g)",
			c.Shell.InnerRadius, c.Shell.OuterRadius)
	}

	p := c.Partition
	if err := errors.ValidateOneOf("partition.strategy", p.Strategy, StrategyGrow, StrategyStrands); err != nil {
		return err
	}
	if err := errors.ValidateAtLeast("partition.trials", p.Trials, 1); err != nil {
		return err
	}
	if err := errors.ValidateAtLeast("partition.workers", p.Workers, 0); err != nil {
		return err
	}
	if err := errors.ValidateAtLeast("partition.per_strand", p.PerStrand, 1); err != nil {
		return err
	}
	if _, err := partition.ParseLayerMode(p.Layers); err != nil {
		return err
	}

	s := c.Stack
	if _, err := geom.ParseAxis(s.Axis); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "stack.axis")
	}
	if err := errors.ValidateOneOf("stack.mode", s.Mode, ModeFixed, ModeCurvature); err != nil {
		return err
	}
	if err := errors.ValidatePositive("stack.clearance", s.Clearance); err != nil {
		return err
	}
	return c.Offsetter().Validate(c.Axis())
}

// Volume returns the printable volume.
func (c *Config) Volume() geom.Volume { return geom.Volume(c.Printer.Volume) }

// Axis returns the stacking axis. It assumes c has been validated.
func (c *Config) Axis() geom.Axis {
	a, _ := geom.ParseAxis(c.Stack.Axis)
	return a
}

// Offsetter returns the configured offset policy.
func (c *Config) Offsetter() stack.Offsetter {
	if c.Stack.Mode == ModeCurvature {
		return stack.CurvatureOffset{
			Gap:   c.Stack.Gap,
			Outer: c.Shell.OuterRadius,
			Inner: c.Shell.InnerRadius,
		}
	}
	return stack.FixedOffset{Clearance: c.Stack.Clearance, Gap: c.Stack.Gap}
}

// PartitionOptions returns the partitioner options. It assumes c has been
// validated.
func (c *Config) PartitionOptions() partition.Options {
	layers, _ := partition.ParseLayerMode(c.Partition.Layers)
	return partition.Options{
		Trials:  c.Partition.Trials,
		Seed:    c.Partition.Seed,
		Workers: c.Partition.Workers,
		Layers:  layers,
	}
}
