package geom

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the slack used when comparing lengths and directions.
const Epsilon = 1e-9

var (
	// ErrInvalidAxis is returned by [ParseAxis] for anything but x, y or z.
	ErrInvalidAxis = errors.New("invalid axis")

	// ErrInvalidVolume is returned by [Volume.Validate] when an extent is
	// not a positive finite number.
	ErrInvalidVolume = errors.New("invalid printable volume")
)

// Up is the canonical print direction every region is rotated onto.
var Up = v3.Vec{X: 0, Y: 0, Z: 1}

// Axis selects one of the three spatial axes.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

var axisNames = [...]string{"x", "y", "z"}

// ParseAxis parses "x", "y" or "z" (case-insensitive).
func ParseAxis(s string) (Axis, error) {
	for i, name := range axisNames {
		if strings.EqualFold(s, name) {
			return Axis(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (must be x, y or z)", ErrInvalidAxis, s)
}

// Valid reports whether a is one of the three axes.
func (a Axis) Valid() bool { return a >= AxisX && a <= AxisZ }

func (a Axis) String() string {
	if !a.Valid() {
		return fmt.Sprintf("axis(%d)", int(a))
	}
	return axisNames[a]
}

// Of returns the component of v along a.
func (a Axis) Of(v v3.Vec) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

// Unit returns the unit vector along a.
func (a Axis) Unit() v3.Vec {
	switch a {
	case AxisX:
		return v3.Vec{X: 1}
	case AxisY:
		return v3.Vec{Y: 1}
	default:
		return v3.Vec{Z: 1}
	}
}

// Shift returns v moved by d along a.
func (a Axis) Shift(v v3.Vec, d float64) v3.Vec {
	return v.Add(a.Unit().MulScalar(d))
}

// Lateral returns the distance of v from the line through the origin
// along a, i.e. the length of v projected onto the plane normal to a.
func (a Axis) Lateral(v v3.Vec) float64 {
	switch a {
	case AxisX:
		return math.Hypot(v.Y, v.Z)
	case AxisY:
		return math.Hypot(v.X, v.Z)
	default:
		return math.Hypot(v.X, v.Y)
	}
}

// Volume is the printable build volume, one extent per axis.
type Volume [3]float64

// Along returns the extent of the volume along a.
func (v Volume) Along(a Axis) float64 { return v[a] }

// Validate checks that every extent is positive and finite.
func (v Volume) Validate() error {
	for i, e := range v {
		if !(e > 0) || math.IsInf(e, 0) {
			return fmt.Errorf("%w: %s extent is %g, must be positive", ErrInvalidVolume, Axis(i), e)
		}
	}
	return nil
}

// Holds reports whether a box of the given size fits inside the volume.
func (v Volume) Holds(size v3.Vec) bool {
	_, ok := v.Overflow(size)
	return !ok
}

// Overflow returns the first axis on which size exceeds the volume.
func (v Volume) Overflow(size v3.Vec) (Axis, bool) {
	for _, a := range []Axis{AxisX, AxisY, AxisZ} {
		if a.Of(size) > v[a]+Epsilon {
			return a, true
		}
	}
	return 0, false
}

// ToUp returns the shortest-arc rotation taking direction n onto [Up].
//
// n does not need to be normalized. A zero vector is treated as already up.
// Directions within [Epsilon] of -Up are turned half way round the X axis
// (or Y, should n lie on X) instead of relying on a degenerate cross product.
func ToUp(n v3.Vec) sdf.M44 {
	return RotateOnto(n, Up)
}

// RotateOnto returns the shortest-arc rotation taking direction from onto
// direction to. Both may be unnormalized; to must be non-zero.
func RotateOnto(from, to v3.Vec) sdf.M44 {
	fl := from.Length()
	if fl < Epsilon {
		return sdf.Identity3d()
	}
	f := from.MulScalar(1 / fl)
	t := to.Normalize()

	cos := clamp(f.Dot(t), -1, 1)
	switch {
	case cos >= 1-Epsilon:
		return sdf.Identity3d()
	case cos <= -1+Epsilon:
		return sdf.Rotate3d(fallbackAxis(f).Normalize(), math.Pi)
	}
	axis := f.Cross(t).Normalize()
	return sdf.Rotate3d(axis, math.Acos(cos))
}

// fallbackAxis picks a rotation axis perpendicular to the (unit) direction d.
func fallbackAxis(d v3.Vec) v3.Vec {
	x := v3.Vec{X: 1}
	if math.Abs(d.Dot(x)) > 0.9 {
		x = v3.Vec{Y: 1}
	}
	// Remove the component along d so the half turn maps d onto -d exactly.
	return x.Sub(d.MulScalar(d.Dot(x)))
}

// Bounds returns the axis-aligned bounding box of points.
// The second result is false when points is empty.
func Bounds(points []v3.Vec) (sdf.Box3, bool) {
	if len(points) == 0 {
		return sdf.Box3{}, false
	}
	lo, hi := points[0], points[0]
	for _, p := range points[1:] {
		lo = lo.Min(p)
		hi = hi.Max(p)
	}
	return sdf.Box3{Min: lo, Max: hi}, true
}

// Size returns the extents of the bounding box of points (zero when empty).
func Size(points []v3.Vec) v3.Vec {
	box, ok := Bounds(points)
	if !ok {
		return v3.Vec{}
	}
	return box.Size()
}

// LatLon is an angular position on the unit sphere, in radians.
type LatLon struct {
	Lat float64
	Lon float64
}

// Cartesian returns the point at radius r in the direction of p.
func (p LatLon) Cartesian(r float64) v3.Vec {
	return v3.Vec{
		X: r * math.Cos(p.Lat) * math.Cos(p.Lon),
		Y: r * math.Cos(p.Lat) * math.Sin(p.Lon),
		Z: r * math.Sin(p.Lat),
	}
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
