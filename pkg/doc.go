// Package pkg provides the libraries behind geodome.
//
// # Overview
//
// geodome splits the shell of a geodesic dome into contiguous regions
// ("continents") that each fit a printer's build volume, then batches those
// regions into stacks along one axis. The pkg directory is organized as:
//
//  1. [geom], [field] - Geometry primitives and the field graph
//  2. [fit], [partition], [stack] - The fit oracle, region growth and stacking
//  3. [config], [io], [errors] - Configuration, document codecs, error codes
//  4. [cache], [observability] - Result caching and instrumentation hooks
//  5. [pipeline] - Orchestration (load → partition → verify → stack)
//  6. [render] - Continent adjacency maps
//
// # Architecture
//
//	geometry document (JSON/JSON5)
//	         ↓
//	    [io] package (field graph + geometry)
//	         ↓
//	    [partition] package (randomized growth, checked by [fit])
//	         ↓
//	    [stack] package (first-fit batches along an axis)
//	         ↓
//	    layout document (JSON), adjacency map (DOT/SVG)
//
// # Quick Start
//
//	runner := pipeline.NewRunner(nil, nil, logger)
//	in, _ := pipeline.LoadInput("dome.json")
//	res, err := runner.Execute(ctx, config.Default(), in)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = io.ExportLayout(res.Layout, "dome.layout.json")
package pkg
