package stack

import (
	"math"

	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/geom"
)

// Offsetter computes the axial step between consecutive stack members.
type Offsetter interface {
	// Offset returns how far next sits beyond prev along the stacking axis.
	Offset(prev, next *Piece) float64
	// Validate checks the policy's parameters for the given stacking axis.
	Validate(axis geom.Axis) error
}

// FixedOffset steps every member by Clearance + Gap.
type FixedOffset struct {
	Clearance float64 // Height of the truncated cap between members
	Gap       float64 // Extra air gap
}

// Offset implements [Offsetter].
func (f FixedOffset) Offset(_, _ *Piece) float64 { return f.Clearance + f.Gap }

// Validate implements [Offsetter].
func (f FixedOffset) Validate(geom.Axis) error {
	if err := errors.ValidatePositive("stack.gap", f.Gap); err != nil {
		return err
	}
	if f.Clearance < 0 || math.IsNaN(f.Clearance) || math.IsInf(f.Clearance, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "stack.clearance must not be negative, got %g", f.Clearance)
	}
	return nil
}

// CurvatureOffset steps members by the exact clearance between two nested
// spherical caps of the shell.
type CurvatureOffset struct {
	Gap   float64 // Extra air gap
	Outer float64 // Outer shell radius
	Inner float64 // Inner shell radius
}

// Offset implements [Offsetter].
func (c CurvatureOffset) Offset(prev, next *Piece) float64 {
	d := min(prev.OuterReach, next.InnerReach, c.Inner)
	return c.Gap + math.Sqrt(c.Outer*c.Outer-d*d) - math.Sqrt(c.Inner*c.Inner-d*d)
}

// Validate implements [Offsetter]. Caps are oriented towards +Z, so only
// the z axis is accepted.
func (c CurvatureOffset) Validate(axis geom.Axis) error {
	if axis != geom.AxisZ {
		return errors.New(errors.ErrCodeInvalidConfig, "curvature offsets require stacking along z, got %s", axis)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{{"stack.gap", c.Gap}, {"shell.outer_radius", c.Outer}, {"shell.inner_radius", c.Inner}} {
		if err := errors.ValidatePositive(p.name, p.v); err != nil {
			return err
		}
	}
	if c.Inner > c.Outer {
		return errors.New(errors.ErrCodeInvalidConfig, "shell.inner_radius (%g) exceeds shell.outer_radius (%g)", c.Inner, c.Outer)
	}
	return nil
}
