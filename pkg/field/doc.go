// Package field holds the input model of geodome: the geodesic field graph
// and the solid geometry a mesh generator derived from it.
//
// # Graph
//
// A [Graph] is an immutable arena of [Node] values. Node ids are their
// indices, and each node lists its neighbors in circular, counter-clockwise
// order. On a geodesic subdivision of an icosahedron exactly twelve nodes
// (the pole-derived pentagons) have five neighbors and every other node has
// six; [Graph.IsGeodesic] reports whether a graph has that shape, but the
// partitioner does not require it.
//
// [New] copies and validates its input: ids must equal indices, adjacency
// must be symmetric, free of self loops and duplicates, and the graph must be
// connected. Nothing in the graph is ever mutated after construction; region
// assignments live in per-trial slices owned by the partitioner.
//
// # Geometry
//
// A [Geometry] carries what the mesh generator hands over for each node:
// the indices into a shared vertex table that make up the node's piece of
// the printable solid, and the node's orientation vector (the direction of
// its LED hole). Vertex indices below [Geometry.Border] lie on the outer
// shell surface and the rest on the inner surface; a zero border means the
// generator did not split them.
package field
