package geom

import (
	"errors"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func near(a, b v3.Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

func TestToUp(t *testing.T) {
	tests := []struct {
		name string
		n    v3.Vec
	}{
		{"AlreadyUp", v3.Vec{Z: 1}},
		{"Unnormalized", v3.Vec{Z: 12.5}},
		{"Down", v3.Vec{Z: -1}},
		{"NearlyDown", v3.Vec{X: 1e-12, Z: -1}},
		{"AlongX", v3.Vec{X: 1}},
		{"AlongNegY", v3.Vec{Y: -3}},
		{"Oblique", v3.Vec{X: 1, Y: 2, Z: -0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToUp(tt.n).MulPosition(tt.n.Normalize())
			if !near(got, Up, 1e-9) {
				t.Errorf("ToUp(%v) maps n to %v, want %v", tt.n, got, Up)
			}
		})
	}
}

func TestToUpZeroIsIdentity(t *testing.T) {
	p := v3.Vec{X: 1, Y: 2, Z: 3}
	if got := ToUp(v3.Vec{}).MulPosition(p); !near(got, p, 0) {
		t.Errorf("ToUp(0) moved %v to %v", p, got)
	}
}

func TestToUpPreservesLength(t *testing.T) {
	m := ToUp(v3.Vec{X: 0.3, Y: -0.7, Z: 0.2})
	p := v3.Vec{X: 4, Y: -1, Z: 9}
	if got := m.MulPosition(p).Length(); math.Abs(got-p.Length()) > 1e-9 {
		t.Errorf("rotation changed length: %v -> %v", p.Length(), got)
	}
}

func TestParseAxis(t *testing.T) {
	for in, want := range map[string]Axis{"x": AxisX, "Y": AxisY, "z": AxisZ} {
		got, err := ParseAxis(in)
		if err != nil {
			t.Fatalf("ParseAxis(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseAxis(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseAxis("w"); !errors.Is(err, ErrInvalidAxis) {
		t.Errorf("ParseAxis(w) error = %v, want ErrInvalidAxis", err)
	}
}

func TestVolume(t *testing.T) {
	vol := Volume{2, 10, 10}
	if err := vol.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !vol.Holds(v3.Vec{X: 2, Y: 1, Z: 1}) {
		t.Error("exact fit should hold")
	}
	a, over := vol.Overflow(v3.Vec{X: 3, Y: 1, Z: 1})
	if !over || a != AxisX {
		t.Errorf("Overflow = (%v, %v), want (x, true)", a, over)
	}

	for _, bad := range []Volume{{0, 1, 1}, {1, -1, 1}, {1, 1, math.NaN()}, {1, math.Inf(1), 1}} {
		if err := bad.Validate(); !errors.Is(err, ErrInvalidVolume) {
			t.Errorf("Validate(%v) = %v, want ErrInvalidVolume", bad, err)
		}
	}
}

func TestBounds(t *testing.T) {
	if _, ok := Bounds(nil); ok {
		t.Error("Bounds(nil) should report empty")
	}
	size := Size([]v3.Vec{{X: 0, Y: 0, Z: 0}, {X: 1, Y: -2, Z: 3}, {X: -1, Y: 1, Z: 0}})
	if !near(size, v3.Vec{X: 2, Y: 3, Z: 3}, 0) {
		t.Errorf("Size = %v, want {2 3 3}", size)
	}
}

func TestLateral(t *testing.T) {
	p := v3.Vec{X: 3, Y: 4, Z: 12}
	if got := AxisZ.Lateral(p); got != 5 {
		t.Errorf("Lateral(z) = %v, want 5", got)
	}
	if got := AxisX.Lateral(p); math.Abs(got-math.Hypot(4, 12)) > 1e-12 {
		t.Errorf("Lateral(x) = %v", got)
	}
	if got := AxisY.Shift(p, 2); got.Y != 6 {
		t.Errorf("Shift(y, 2).Y = %v, want 6", got.Y)
	}
}
