package continents

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	geoio "github.com/matzehuels/geodome/pkg/io"
)

// Options configures adjacency map rendering.
type Options struct {
	// Detailed adds field and vertex counts and the print direction to
	// node labels. When false, only the region id is shown.
	Detailed bool
}

// palette fills stack clusters in turn.
var palette = []string{
	"#dbeafe", "#dcfce7", "#fef9c3", "#fee2e2", "#ede9fe", "#cffafe", "#ffedd5", "#f3f4f6",
}

// ToDOT converts a layout and its region adjacency pairs to Graphviz DOT.
// edges may be nil, in which case only the stack clusters are drawn.
// The resulting DOT string can be rendered using [RenderSVG].
func ToDOT(l *geoio.Layout, edges [][2]int, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=fdp;\n")
	buf.WriteString("  overlap=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	stacked := make(map[int]bool)
	for i, s := range l.Stacks {
		fill := palette[i%len(palette)]
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", fmt.Sprintf("stack %d (%.4g)", i, s.Height))
		buf.WriteString("    style=\"rounded\";\n")
		for _, m := range s.Members {
			stacked[m.Region] = true
			if m.Region < 0 || m.Region >= len(l.Regions) {
				continue
			}
			fmt.Fprintf(&buf, "    %s [%s, fillcolor=%q];\n", nodeID(m.Region), fmtLabel(l.Regions[m.Region], opts.Detailed), fill)
		}
		buf.WriteString("  }\n")
	}

	for _, r := range l.Regions {
		if stacked[r.ID] {
			continue
		}
		fmt.Fprintf(&buf, "  %s [%s];\n", nodeID(r.ID), fmtLabel(r, opts.Detailed))
	}

	if len(edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %s -- %s;\n", nodeID(e[0]), nodeID(e[1]))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(region int) string { return "r" + strconv.Itoa(region) }

func fmtLabel(r geoio.LayoutRegion, detailed bool) string {
	if !detailed {
		return fmt.Sprintf("label=%q", strconv.Itoa(r.ID))
	}
	n := r.Normal
	lines := []string{
		strconv.Itoa(r.ID),
		fmt.Sprintf("fields: %d", len(r.Fields)),
		fmt.Sprintf("vertices: %d", r.Vertices),
		fmt.Sprintf("up: %.2f %.2f %.2f", n[0], n[1], n[2]),
	}
	return fmt.Sprintf("label=%q, shape=box", strings.Join(lines, "\n"))
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing starts at the
// origin and scales with its container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
