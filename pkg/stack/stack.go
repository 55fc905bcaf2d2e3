package stack

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/field"
	"github.com/matzehuels/geodome/pkg/fit"
	"github.com/matzehuels/geodome/pkg/geom"
	"github.com/matzehuels/geodome/pkg/partition"
)

// Piece is a region prepared for stacking: its vertices in print
// orientation plus the measurements offset policies need.
type Piece struct {
	Region     int
	Normal     v3.Vec  // Unit print direction, +Z when the normals cancel
	Low, High  float64 // Extent along the stacking axis before shifting
	OuterReach float64 // Largest lateral distance of an outer-surface vertex
	InnerReach float64 // Largest lateral distance of an inner-surface vertex
}

// Member is a region placed in a stack.
type Member struct {
	Region int
	Offset float64
	Normal v3.Vec
}

// Stack is one print batch.
type Stack struct {
	Members []Member
	Height  float64 // Extent along the stacking axis
}

// Regions returns the region ids of the stack in order.
func (s Stack) Regions() []int {
	ids := make([]int, len(s.Members))
	for i, m := range s.Members {
		ids[i] = m.Region
	}
	return ids
}

// Stacker packs regions into stacks along Axis.
type Stacker struct {
	Geometry *field.Geometry
	Volume   geom.Volume
	Axis     geom.Axis
	Offsets  Offsetter
}

// Validate checks the stacker's configuration.
func (s *Stacker) Validate() error {
	if !s.Axis.Valid() {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid stacking axis %s", s.Axis)
	}
	if err := s.Volume.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "printer.volume")
	}
	if s.Offsets == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "no offset policy")
	}
	return s.Offsets.Validate(s.Axis)
}

// Prepare orients region and measures it.
func (s *Stacker) Prepare(region partition.Region) *Piece {
	var b fit.RegionBounds
	seen := make(map[int]struct{})
	for _, id := range region.Fields {
		b.Add(s.Geometry, id, seen)
	}

	p := &Piece{Region: region.ID, Normal: geom.Up}
	if b.Normal.Length() >= geom.Epsilon {
		p.Normal = b.Normal.Normalize()
	}
	m := b.Rotation()
	p.Low, p.High = math.Inf(1), math.Inf(-1)
	for _, vi := range b.Vertices {
		v := m.MulPosition(s.Geometry.Vertices[vi])
		along := s.Axis.Of(v)
		p.Low = min(p.Low, along)
		p.High = max(p.High, along)

		lat := s.Axis.Lateral(v)
		if s.Geometry.Outer(vi) {
			p.OuterReach = max(p.OuterReach, lat)
		}
		if s.Geometry.Inner(vi) {
			p.InnerReach = max(p.InnerReach, lat)
		}
	}
	return p
}

// Pack stacks regions first-fit in the given order.
func (s *Stacker) Pack(regions []partition.Region) ([]Stack, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	limit := s.Volume.Along(s.Axis)
	var (
		stacks []Stack
		open   []*Piece
	)
	pieces := make([]*Piece, len(regions))
	for i, r := range regions {
		pieces[i] = s.Prepare(r)
	}

	for i := 0; i < len(pieces); {
		p := pieces[i]
		candidate := append(open[:len(open):len(open)], p)
		offsets := s.offsets(candidate)
		if height := span(candidate, offsets); height <= limit+geom.Epsilon {
			open = candidate
			i++
			continue
		}
		if len(open) == 0 {
			return nil, errors.New(errors.ErrCodeDegenerateFit,
				"stack %d: region %d alone is %.4g along %s, the printable volume allows %.4g",
				len(stacks), p.Region, p.High-p.Low, s.Axis, limit)
		}
		stacks = append(stacks, s.close(open))
		open = nil
	}
	if len(open) > 0 {
		stacks = append(stacks, s.close(open))
	}
	return stacks, nil
}

// offsets returns the prefix sums of the policy's steps.
func (s *Stacker) offsets(pieces []*Piece) []float64 {
	out := make([]float64, len(pieces))
	for i := 1; i < len(pieces); i++ {
		out[i] = out[i-1] + s.Offsets.Offset(pieces[i-1], pieces[i])
	}
	return out
}

func (s *Stacker) close(pieces []*Piece) Stack {
	offsets := s.offsets(pieces)
	st := Stack{Height: span(pieces, offsets)}
	for i, p := range pieces {
		st.Members = append(st.Members, Member{Region: p.Region, Offset: offsets[i], Normal: p.Normal})
	}
	return st
}

// span is the extent along the stacking axis of pieces placed at offsets.
func span(pieces []*Piece, offsets []float64) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, p := range pieces {
		lo = min(lo, p.Low+offsets[i])
		hi = max(hi, p.High+offsets[i])
	}
	return hi - lo
}

func (s Stack) String() string {
	return fmt.Sprintf("stack%v (height %.4g)", s.Regions(), s.Height)
}
