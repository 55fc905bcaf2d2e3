package io

import (
	"bytes"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/geodome/pkg/config"
	"github.com/matzehuels/geodome/pkg/errors"
	"github.com/matzehuels/geodome/pkg/field"
	"github.com/matzehuels/geodome/pkg/partition"
	"github.com/matzehuels/geodome/pkg/stack"
)

const pairJSON5 = `{
  // two fields sharing an edge
  border: 0,
  vertices: [[0, 0, 0], [1, 1, 1], [2, 1, 1],],
  fields: [
    {id: 0, neighbors: [1], position: [0.5, 0], vertices: [0, 1], normal: [0, 0, 1]},
    {id: 1, neighbors: [0], position: [0.5, 0.1], vertices: [1, 2], normal: [0, 0, 1]},
  ],
}`

func TestDecodeGeometryJSON5(t *testing.T) {
	g, geo, err := DecodeGeometry([]byte(pairJSON5))
	if err != nil {
		t.Fatalf("DecodeGeometry: %v", err)
	}
	if g.Len() != 2 || len(geo.Vertices) != 3 {
		t.Fatalf("got %d fields, %d vertices", g.Len(), len(geo.Vertices))
	}
	if g.Node(1).Position.Lon != 0.1 {
		t.Errorf("position = %+v", g.Node(1).Position)
	}
	if geo.Vertices[2].X != 2 {
		t.Errorf("vertex 2 = %v", geo.Vertices[2])
	}
}

func TestDecodeGeometryErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		code errors.Code
	}{
		{"syntax", `{fields: [}`, errors.ErrCodeInvalidFormat},
		{"asymmetric", `{vertices: [[0,0,0]], fields: [
			{id: 0, neighbors: [1], vertices: [0], normal: [0,0,1]},
			{id: 1, neighbors: [], vertices: [0], normal: [0,0,1]}]}`, errors.ErrCodeInvalidGraph},
		{"vertex out of range", `{vertices: [[0,0,0]], fields: [
			{id: 0, neighbors: [], vertices: [4], normal: [0,0,1]}]}`, errors.ErrCodeInvalidGraph},
		{"empty", `{}`, errors.ErrCodeInvalidGraph},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := DecodeGeometry([]byte(tt.doc))
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestGeometryRoundTrip(t *testing.T) {
	g, geo := field.Chain(5, 2)
	path := filepath.Join(t.TempDir(), "chain.json")
	if err := ExportGeometry(g, geo, path); err != nil {
		t.Fatalf("ExportGeometry: %v", err)
	}
	g2, geo2, err := ImportGeometry(path)
	if err != nil {
		t.Fatalf("ImportGeometry: %v", err)
	}
	if !reflect.DeepEqual(g.Nodes(), g2.Nodes()) {
		t.Errorf("nodes differ after round trip")
	}
	if !reflect.DeepEqual(geo, geo2) {
		t.Errorf("geometry differs after round trip")
	}
}

func TestImportGeometryMissing(t *testing.T) {
	_, _, err := ImportGeometry(filepath.Join(t.TempDir(), "nope.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	g, geo := field.Chain(4, 1)
	res, err := partition.Strands(g, 2)
	if err != nil {
		t.Fatal(err)
	}
	stacks := []stack.Stack{{
		Height:  2.5,
		Members: []stack.Member{{Region: 0, Offset: 0, Normal: geo.Normals[0]}, {Region: 1, Offset: 1.5, Normal: geo.Normals[2]}},
	}}
	l := NewLayout(config.Default(), geo, res, stacks)
	if _, err := uuid.Parse(l.RunID); err != nil {
		t.Errorf("RunID %q is not a uuid: %v", l.RunID, err)
	}
	if l.Regions[0].Vertices != 16 {
		t.Errorf("region 0 vertices = %d, want 16", l.Regions[0].Vertices)
	}
	if l.Regions[1].Normal != (Vec{0, 0, 1}) {
		t.Errorf("region 1 normal = %v", l.Regions[1].Normal)
	}

	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		t.Fatalf("WriteLayout: %v", err)
	}
	if !strings.Contains(buf.String(), `"run_id": "`+l.RunID+`"`) {
		t.Errorf("output lacks run id:\n%s", buf.String())
	}
	back, err := ReadLayout(&buf)
	if err != nil {
		t.Fatalf("ReadLayout: %v", err)
	}
	if !reflect.DeepEqual(back.Stacks, l.Stacks) || *back.Config != *l.Config {
		t.Errorf("layout changed in round trip")
	}

	res2, err := back.Result(g)
	if err != nil {
		t.Fatalf("Result: %v", err)
	}
	if !reflect.DeepEqual(res2.Assignment, res.Assignment) {
		t.Errorf("Assignment = %v, want %v", res2.Assignment, res.Assignment)
	}

	small, _ := field.Chain(3, 1)
	if _, err := back.Result(small); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Result(other graph) error = %v, want INVALID_INPUT", err)
	}
}

func TestReadLayoutDefaultsConfig(t *testing.T) {
	l, err := ReadLayout(strings.NewReader(`{"run_id": "x", "regions": []}`))
	if err != nil {
		t.Fatalf("ReadLayout: %v", err)
	}
	if l.Config == nil || l.Config.Stack.Axis != "z" {
		t.Errorf("Config = %+v, want defaults", l.Config)
	}
}
