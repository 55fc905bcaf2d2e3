package io

import (
	"encoding/json"
	"io"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/titanous/json5"

	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/field"
	"github.com/matzehuels/geodome/pkg/geom"
)

// Vec is a 3D vector as a JSON array.
type Vec [3]float64

// NewVec converts an sdfx vector.
func NewVec(v v3.Vec) Vec { return Vec{v.X, v.Y, v.Z} }

// V3 converts to an sdfx vector.
func (v Vec) V3() v3.Vec { return v3.Vec{X: v[0], Y: v[1], Z: v[2]} }

type geometryDoc struct {
	Border   int        `json:"border"`
	Vertices []Vec      `json:"vertices"`
	Fields   []fieldDoc `json:"fields"`
}

type fieldDoc struct {
	ID        int        `json:"id"`
	Neighbors []int      `json:"neighbors"`
	Position  [2]float64 `json:"position"`
	Vertices  []int      `json:"vertices"`
	Normal    Vec        `json:"normal"`
}

// ReadGeometry decodes a geometry document from r and validates it.
// ReadGeometry does not close r.
func ReadGeometry(r io.Reader) (*field.Graph, *field.Geometry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read geometry")
	}
	return DecodeGeometry(data)
}

// DecodeGeometry is like [ReadGeometry] for an in-memory document.
func DecodeGeometry(data []byte) (*field.Graph, *field.Geometry, error) {
	var doc geometryDoc
	if err := json5.Unmarshal(data, &doc); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode geometry")
	}
	return doc.build()
}

func (doc *geometryDoc) build() (*field.Graph, *field.Geometry, error) {
	nodes := make([]field.Node, len(doc.Fields))
	geo := &field.Geometry{
		Border:        doc.Border,
		Vertices:      make([]v3.Vec, len(doc.Vertices)),
		Contributions: make([][]int, len(doc.Fields)),
		Normals:       make([]v3.Vec, len(doc.Fields)),
	}
	for i, v := range doc.Vertices {
		geo.Vertices[i] = v.V3()
	}
	for i, f := range doc.Fields {
		nodes[i] = field.Node{
			ID:        f.ID,
			Neighbors: f.Neighbors,
			Position:  geom.LatLon{Lat: f.Position[0], Lon: f.Position[1]},
		}
		geo.Contributions[i] = f.Vertices
		geo.Normals[i] = f.Normal.V3()
	}

	g, err := field.New(nodes)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "field graph")
	}
	if err := geo.Validate(g); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "geometry")
	}
	return g, geo, nil
}

// ImportGeometry reads the geometry document at path.
func ImportGeometry(path string) (*field.Graph, *field.Geometry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "geometry %s", path)
		}
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadGeometry(f)
}

// WriteGeometry encodes g and geo as a geometry document.
func WriteGeometry(g *field.Graph, geo *field.Geometry, w io.Writer) error {
	doc := geometryDoc{
		Border:   geo.Border,
		Vertices: make([]Vec, len(geo.Vertices)),
		Fields:   make([]fieldDoc, g.Len()),
	}
	for i, v := range geo.Vertices {
		doc.Vertices[i] = NewVec(v)
	}
	for i, n := range g.Nodes() {
		doc.Fields[i] = fieldDoc{
			ID:        n.ID,
			Neighbors: n.Neighbors,
			Position:  [2]float64{n.Position.Lat, n.Position.Lon},
			Vertices:  geo.Contributions[i],
			Normal:    NewVec(geo.Normals[i]),
		}
	}
	return encode(w, doc)
}

// ExportGeometry writes a geometry document to path.
func ExportGeometry(g *field.Graph, geo *field.Geometry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "create %s", path)
	}
	if err := WriteGeometry(g, geo, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode")
	}
	return nil
}
