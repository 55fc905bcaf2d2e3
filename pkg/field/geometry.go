package field

import (
	"errors"
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

var (
	// ErrGeometryMismatch is returned when the geometry does not carry exactly
	// one contribution and one normal per graph node.
	ErrGeometryMismatch = errors.New("geometry does not match graph")

	// ErrVertexOutOfRange is returned when a contribution references a vertex
	// index outside the vertex table.
	ErrVertexOutOfRange = errors.New("vertex index out of range")

	// ErrEmptyContribution is returned when a node contributes no vertices.
	ErrEmptyContribution = errors.New("node contributes no vertices")

	// ErrInvalidBorder is returned when Border is negative or beyond the
	// vertex table.
	ErrInvalidBorder = errors.New("invalid surface border")

	// ErrNonFinite is returned when a vertex or normal has a NaN or infinite
	// component.
	ErrNonFinite = errors.New("non-finite coordinate")
)

// Geometry is the printable solid as seen by the partitioner: a shared vertex
// table plus, per node, the vertex indices it contributes and its
// orientation vector.
//
// Geometry is read-only once validated and safe for concurrent use.
type Geometry struct {
	Vertices      []v3.Vec // Global vertex table
	Border        int      // Indices below Border are outer surface; 0 = no split
	Contributions [][]int  // Per-node vertex indices
	Normals       []v3.Vec // Per-node orientation ("hole") vectors
}

// Validate checks the geometry against graph g.
func (geo *Geometry) Validate(g *Graph) error {
	n := g.Len()
	if len(geo.Contributions) != n {
		return fmt.Errorf("%w: %d contributions for %d nodes", ErrGeometryMismatch, len(geo.Contributions), n)
	}
	if len(geo.Normals) != n {
		return fmt.Errorf("%w: %d normals for %d nodes", ErrGeometryMismatch, len(geo.Normals), n)
	}
	if geo.Border < 0 || geo.Border > len(geo.Vertices) {
		return fmt.Errorf("%w: %d with %d vertices", ErrInvalidBorder, geo.Border, len(geo.Vertices))
	}
	for i, v := range geo.Vertices {
		if !finite(v) {
			return fmt.Errorf("%w: vertex %d", ErrNonFinite, i)
		}
	}
	for id, c := range geo.Contributions {
		if len(c) == 0 {
			return fmt.Errorf("%w: node %d", ErrEmptyContribution, id)
		}
		for _, vi := range c {
			if vi < 0 || vi >= len(geo.Vertices) {
				return fmt.Errorf("%w: node %d references %d of %d", ErrVertexOutOfRange, id, vi, len(geo.Vertices))
			}
		}
		if !finite(geo.Normals[id]) {
			return fmt.Errorf("%w: normal of node %d", ErrNonFinite, id)
		}
	}
	return nil
}

// Outer reports whether vertex index vi lies on the outer shell surface.
func (geo *Geometry) Outer(vi int) bool { return geo.Border == 0 || vi < geo.Border }

// Inner reports whether vertex index vi lies on the inner shell surface.
func (geo *Geometry) Inner(vi int) bool { return geo.Border == 0 || vi >= geo.Border }

// Points resolves vertex indices to positions.
func (geo *Geometry) Points(indices []int) []v3.Vec {
	pts := make([]v3.Vec, len(indices))
	for i, vi := range indices {
		pts[i] = geo.Vertices[vi]
	}
	return pts
}

func finite(v v3.Vec) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
