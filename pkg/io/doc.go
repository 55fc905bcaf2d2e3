// Package io reads and writes geodome's JSON documents.
//
// # Geometry
//
// The geometry document is produced by the mesh generator and describes the
// field graph together with the solid each field contributes:
//
//	{
//	  // indices below border lie on the outer surface
//	  "border": 120,
//	  "vertices": [[0.0, 0.0, 170.0], ...],
//	  "fields": [
//	    {
//	      "id": 0,
//	      "neighbors": [1, 5, 9, 13, 17],
//	      "position": [1.5707, 0.0],
//	      "vertices": [0, 1, 2, 120, 121, 122],
//	      "normal": [0.0, 0.0, 1.0],
//	    },
//	  ],
//	}
//
// Geometry is decoded as JSON5, so comments and trailing commas are
// accepted. [ReadGeometry] validates the graph and the geometry against it;
// structural problems are reported as INVALID_GRAPH errors and syntax errors
// as INVALID_FORMAT.
//
// # Layout
//
// The layout document is geodome's output: the configuration it ran with,
// the regions, the stacks and run statistics, stamped with a run id.
// [WriteLayout] and [ReadLayout] round-trip it; the visualize and inspect
// commands read it back.
//
// # Concurrency
//
// All functions are safe for concurrent use. Decoded values share no state
// with their source.
package io
