package io

import (
	"encoding/json"
	"io"
	"os"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"

	"github.com/matzehuels/geodome/pkg/config"
	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/field"
	"github.com/matzehuels/geodome/pkg/geom"
	"github.com/matzehuels/geodome/pkg/partition"
	"github.com/matzehuels/geodome/pkg/stack"
)

// Layout is the output document of a run.
type Layout struct {
	RunID     string          `json:"run_id"`
	CreatedAt time.Time       `json:"created_at"`
	Config    *config.Config  `json:"config"`
	Regions   []LayoutRegion  `json:"regions"`
	Stacks    []LayoutStack   `json:"stacks,omitempty"`
	Stats     partition.Stats `json:"stats"`
}

// LayoutRegion is a region with the measurements downstream export needs.
type LayoutRegion struct {
	ID       int   `json:"id"`
	Fields   []int `json:"fields"`
	Normal   Vec   `json:"normal"`
	Vertices int   `json:"vertices"`
}

// LayoutStack is one print batch.
type LayoutStack struct {
	Height  float64        `json:"height"`
	Members []LayoutMember `json:"members"`
}

// LayoutMember is a region placed in a stack.
type LayoutMember struct {
	Region int     `json:"region"`
	Offset float64 `json:"offset"`
	Normal Vec     `json:"normal"`
}

// NewLayout assembles a layout document with a fresh run id. stacks may be
// nil when only partitioning ran.
func NewLayout(cfg *config.Config, geo *field.Geometry, res *partition.Result, stacks []stack.Stack) *Layout {
	l := &Layout{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Config:    cfg,
		Regions:   make([]LayoutRegion, len(res.Regions)),
		Stats:     res.Stats,
	}
	for i, r := range res.Regions {
		var (
			normal = geom.Up
			sum    v3.Vec
			seen   = make(map[int]struct{})
		)
		for _, id := range r.Fields {
			sum = sum.Add(geo.Normals[id])
			for _, vi := range geo.Contributions[id] {
				seen[vi] = struct{}{}
			}
		}
		if sum.Length() >= geom.Epsilon {
			normal = sum.Normalize()
		}
		l.Regions[i] = LayoutRegion{ID: r.ID, Fields: r.Fields, Normal: NewVec(normal), Vertices: len(seen)}
	}
	l.SetStacks(stacks)
	return l
}

// SetStacks replaces the stacks of the layout.
func (l *Layout) SetStacks(stacks []stack.Stack) {
	l.Stacks = nil
	for _, s := range stacks {
		ls := LayoutStack{Height: s.Height}
		for _, m := range s.Members {
			ls.Members = append(ls.Members, LayoutMember{Region: m.Region, Offset: m.Offset, Normal: NewVec(m.Normal)})
		}
		l.Stacks = append(l.Stacks, ls)
	}
}

// PartitionRegions returns the layout's regions in partition form.
func (l *Layout) PartitionRegions() []partition.Region {
	out := make([]partition.Region, len(l.Regions))
	for i, r := range l.Regions {
		out[i] = partition.Region{ID: r.ID, Fields: r.Fields}
	}
	return out
}

// Result rebuilds the partition result against graph g. It fails with
// INVALID_INPUT when the layout does not cover g exactly.
func (l *Layout) Result(g *field.Graph) (*partition.Result, error) {
	res, ok := partition.FromRegions(g, l.PartitionRegions())
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput,
			"layout %s does not assign each of the %d fields to exactly one region", l.RunID, g.Len())
	}
	res.Stats = l.Stats
	return res, nil
}

// ReadLayout decodes a layout document from r.
func ReadLayout(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode layout")
	}
	if l.Config == nil {
		l.Config = config.Default()
	}
	return &l, nil
}

// ImportLayout reads the layout document at path.
func ImportLayout(path string) (*Layout, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadLayout(f)
}

// WriteLayout encodes l to w.
func WriteLayout(l *Layout, w io.Writer) error { return encode(w, l) }

// ExportLayout writes l to path.
func ExportLayout(l *Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := WriteLayout(l, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
