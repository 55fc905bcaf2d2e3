// Package fit decides whether a set of fields fits the printable volume.
//
// The [Oracle] gathers the vertices every member contributes, turns the set
// so that its summed orientation vector points up ([geom.ToUp]) and compares
// the axis-aligned bounding box of the turned vertices against the volume.
// It is pure and holds no per-call state, so a single Oracle is shared by all
// partitioning workers.
package fit

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/field"
	"github.com/matzehuels/geodome/pkg/geom"
)

// RegionBounds is the geometric footprint of a set of fields.
type RegionBounds struct {
	Vertices []int  // Deduplicated vertex indices, in first-seen order
	Normal   v3.Vec // Sum of member normals, not normalized
}

// Add merges the contribution and normal of node id into b.
func (b *RegionBounds) Add(geo *field.Geometry, id int, seen map[int]struct{}) {
	for _, vi := range geo.Contributions[id] {
		if _, ok := seen[vi]; ok {
			continue
		}
		seen[vi] = struct{}{}
		b.Vertices = append(b.Vertices, vi)
	}
	b.Normal = b.Normal.Add(geo.Normals[id])
}

// Rotation returns the rotation placing the region in print orientation.
func (b RegionBounds) Rotation() sdf.M44 { return geom.ToUp(b.Normal) }

// Oriented returns the region's vertices in print orientation.
func (b RegionBounds) Oriented(geo *field.Geometry) []v3.Vec {
	m := b.Rotation()
	pts := make([]v3.Vec, len(b.Vertices))
	for i, vi := range b.Vertices {
		pts[i] = m.MulPosition(geo.Vertices[vi])
	}
	return pts
}

// Oracle tests region candidates against a printable volume.
type Oracle struct {
	geo *field.Geometry
	vol geom.Volume
}

// New returns an Oracle over geo and vol. Both are assumed validated.
func New(geo *field.Geometry, vol geom.Volume) *Oracle {
	return &Oracle{geo: geo, vol: vol}
}

// Geometry returns the geometry the oracle measures.
func (o *Oracle) Geometry() *field.Geometry { return o.geo }

// Volume returns the printable volume.
func (o *Oracle) Volume() geom.Volume { return o.vol }

// Bounds collects the footprint of members.
func (o *Oracle) Bounds(members []int) RegionBounds {
	var b RegionBounds
	seen := make(map[int]struct{})
	for _, id := range members {
		b.Add(o.geo, id, seen)
	}
	return b
}

// Extent returns the size of the oriented bounding box of members.
func (o *Oracle) Extent(members []int) v3.Vec {
	b := o.Bounds(members)
	return geom.Size(b.Oriented(o.geo))
}

// WouldFit reports whether members plus candidate fit the volume once
// oriented as a single region. The candidate's normal takes part in the
// orientation.
func (o *Oracle) WouldFit(members []int, candidate int) bool {
	b := o.Bounds(members)
	seen := make(map[int]struct{}, len(b.Vertices))
	for _, vi := range b.Vertices {
		seen[vi] = struct{}{}
	}
	b.Add(o.geo, candidate, seen)
	return o.vol.Holds(geom.Size(b.Oriented(o.geo)))
}

// Fits reports whether members fit as a whole. An empty set fits.
func (o *Oracle) Fits(members []int) bool {
	if len(members) == 0 {
		return true
	}
	return o.vol.Holds(o.Extent(members))
}

// Check is like [Oracle.Fits] but returns a DEGENERATE_FIT error naming the
// first overflowing axis.
func (o *Oracle) Check(members []int) error {
	if len(members) == 0 {
		return nil
	}
	size := o.Extent(members)
	a, over := o.vol.Overflow(size)
	if !over {
		return nil
	}
	return errors.New(errors.ErrCodeDegenerateFit,
		"%s exceeds the printable volume on %s: %.4g > %.4g",
		describe(members), a, a.Of(size), o.vol.Along(a))
}

func describe(members []int) string {
	if len(members) == 1 {
		return fmt.Sprintf("field %d", members[0])
	}
	return fmt.Sprintf("region of %d fields", len(members))
}
