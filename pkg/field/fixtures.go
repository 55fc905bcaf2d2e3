package field

import (
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/geodome/pkg/geom"
)

// Chain builds a path graph 0-1-...-(n-1) in which node i contributes the
// eight corners of the box [i, i+1]×[0, size]×[0, size] and every normal
// points up. It is the smallest input on which growth, splitting and
// stacking can be observed, and backs the package examples and tests.
func Chain(n int, size float64) (*Graph, *Geometry) {
	nodes := make([]Node, n)
	geo := &Geometry{
		Contributions: make([][]int, n),
		Normals:       make([]v3.Vec, n),
	}
	for i := range n {
		var nbs []int
		if i > 0 {
			nbs = append(nbs, i-1)
		}
		if i < n-1 {
			nbs = append(nbs, i+1)
		}
		nodes[i] = Node{ID: i, Neighbors: nbs, Position: geom.LatLon{Lon: float64(i)}}

		base := len(geo.Vertices)
		geo.Vertices = append(geo.Vertices, box(float64(i), 0, 0, 1, size, size)...)
		for k := range 8 {
			geo.Contributions[i] = append(geo.Contributions[i], base+k)
		}
		geo.Normals[i] = geom.Up
	}
	return MustNew(nodes), geo
}

// Ring builds a cycle of n nodes (n >= 3) laid out like [Chain].
func Ring(n int, size float64) (*Graph, *Geometry) {
	g, geo := Chain(n, size)
	nodes := g.Nodes()
	nodes[0].Neighbors = append(nodes[0].Neighbors, n-1)
	nodes[n-1].Neighbors = append(nodes[n-1].Neighbors, 0)
	return MustNew(nodes), geo
}

// box returns the corners of an axis-aligned box with min corner (x, y, z).
func box(x, y, z, dx, dy, dz float64) []v3.Vec {
	pts := make([]v3.Vec, 0, 8)
	for _, px := range []float64{x, x + dx} {
		for _, py := range []float64{y, y + dy} {
			for _, pz := range []float64{z, z + dz} {
				pts = append(pts, v3.Vec{X: px, Y: py, Z: pz})
			}
		}
	}
	return pts
}
