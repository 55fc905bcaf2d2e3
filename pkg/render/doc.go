// Package render provides visualization output for geodome layouts.
//
// # Overview
//
// The [continents] subpackage draws the region adjacency map of a layout:
// one node per continent, an edge wherever two continents share a field
// border, and one cluster per stack. It emits Graphviz DOT and renders it
// to SVG in-process.
//
// # Format Conversion
//
// [Convert] (and the [ToPDF] and [ToPNG] shorthands) pipe an SVG through
// rsvg-convert from librsvg. Without it installed they fail with code
// UNSUPPORTED.
//
//	svg, err := continents.RenderSVG(dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2)
package render
