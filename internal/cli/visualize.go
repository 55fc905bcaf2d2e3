package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/geodome/pkg/errors"
	geoio "github.com/matzehuels/geodome/pkg/io"
	"github.com/matzehuels/geodome/pkg/render"
	"github.com/matzehuels/geodome/pkg/render/continents"
)

// Output formats of the visualize command.
const (
	formatDOT = "dot"
	formatSVG = "svg"
	formatPDF = "pdf"
	formatPNG = "png"
)

// visualizeCommand creates the visualize command.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		geometry string
		output   string
		format   string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Draw the continent adjacency map of a layout",
		Long: `Draw the continent adjacency map of a layout.

Each continent is a node; continents in the same stack are grouped. With
--geometry, continents sharing a field border are connected.

SVG is rendered in-process. PDF and PNG additionally need rsvg-convert
(librsvg).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := errors.ValidateOneOf("format", format, formatDOT, formatSVG, formatPDF, formatPNG); err != nil {
				return err
			}
			input := args[0]
			if output == "" {
				output = outputPath(input, "."+format)
			}
			if err := errors.ValidateOutputPath(output); err != nil {
				return err
			}

			l, err := geoio.ImportLayout(input)
			if err != nil {
				return err
			}

			var edges [][2]int
			if geometry != "" {
				g, _, err := geoio.ImportGeometry(geometry)
				if err != nil {
					return err
				}
				res, err := l.Result(g)
				if err != nil {
					return err
				}
				edges = res.Adjacency(g)
			}

			data, err := renderMap(cmd.Context(), l, edges, format, detailed)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "write %s", output)
			}

			printSuccess("Rendered %d continents", len(l.Regions))
			printFile(output)
			if geometry == "" {
				printDetail("pass --geometry to draw borders between continents")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&geometry, "geometry", "g", "", "geometry document, enables adjacency edges")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.<format>)")
	cmd.Flags().StringVarP(&format, "format", "f", formatSVG, "output format: dot, svg, pdf, png")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label continents with sizes and print directions")

	return cmd
}

// renderMap produces the adjacency map in the requested format.
func renderMap(ctx context.Context, l *geoio.Layout, edges [][2]int, format string, detailed bool) ([]byte, error) {
	dot := continents.ToDOT(l, edges, continents.Options{Detailed: detailed})
	if format == formatDOT {
		return []byte(dot), nil
	}
	svg, err := continents.RenderSVG(dot)
	if err != nil {
		return nil, fmt.Errorf("render svg: %w", err)
	}
	switch format {
	case formatPDF:
		return render.ToPDF(ctx, svg)
	case formatPNG:
		return render.ToPNG(ctx, svg, 2)
	default:
		return svg, nil
	}
}
