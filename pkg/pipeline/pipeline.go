// Package pipeline provides the core partition-and-stack pipeline for geodome.
//
// The pipeline is shared by the CLI and the HTTP API so that both entry
// points load, cache, log and report in exactly the same way.
//
// # Architecture
//
// A run consists of three stages:
//
//  1. Load: Decode the geometry document and hash its bytes
//  2. Partition: Grow continents (cached by geometry hash and options)
//  3. Stack: Pack the continents into print batches along the stacking axis
//
// Between partition and stack, every region is re-checked against the
// printable volume. Regions that overflow are reported in the layout's
// stats and logged as warnings; they are not an error.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	in, err := pipeline.LoadInput("dome.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := runner.Execute(ctx, cfg, in)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = io.ExportLayout(result.Layout, "dome.layout.json")
package pipeline

import (
	"os"
	"time"

	"github.com/matzehuels/geodome/pkg/cache"
	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/field"
	geoio "github.com/matzehuels/geodome/pkg/io"
	"github.com/matzehuels/geodome/pkg/partition"
	"github.com/matzehuels/geodome/pkg/stack"
)

// Input is a decoded geometry document together with the content hash used
// for cache keys.
type Input struct {
	Graph    *field.Graph
	Geometry *field.Geometry
	Hash     string
}

// DecodeInput decodes a geometry document.
func DecodeInput(data []byte) (*Input, error) {
	g, geo, err := geoio.DecodeGeometry(data)
	if err != nil {
		return nil, err
	}
	return &Input{Graph: g, Geometry: geo, Hash: cache.Hash(data)}, nil
}

// LoadInput reads and decodes the geometry document at path.
func LoadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "geometry %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return DecodeInput(data)
}

// Result is the outcome of a pipeline run.
type Result struct {
	Partition *partition.Result
	Stacks    []stack.Stack
	Layout    *geoio.Layout
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records stage timings.
type Stats struct {
	PartitionTime time.Duration
	StackTime     time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	PartitionHit bool
}
