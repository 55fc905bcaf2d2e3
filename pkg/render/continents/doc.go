// Package continents renders the region adjacency map of a layout.
//
// Each region becomes a node labelled with its id (and, in detailed mode,
// its field count, vertex count and print direction). Regions that share at
// least one field border are joined by an undirected edge. Regions placed in
// the same stack are grouped in a Graphviz cluster whose label carries the
// stack's height along the stacking axis.
//
//	dot := continents.ToDOT(layout, res.Adjacency(g), continents.Options{})
//	svg, err := continents.RenderSVG(dot)
//
// Rendering uses github.com/goccy/go-graphviz, which embeds Graphviz as
// WebAssembly; no system installation is needed for SVG output.
package continents
