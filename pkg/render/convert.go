package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/geodome/pkg/errors"
)

// Format is an output format produced from SVG by an external converter.
type Format string

const (
	PDF Format = "pdf"
	PNG Format = "png"
)

// Converter is the librsvg command line tool invoked by [Convert].
var Converter = "rsvg-convert"

// Convert turns an SVG document into f. scale only applies to PNG output;
// values <= 0 mean 1.
//
// A missing converter is reported as UNSUPPORTED so callers can fall back to
// SVG output.
func Convert(ctx context.Context, svg []byte, f Format, scale float64) ([]byte, error) {
	args := []string{"--format", string(f)}
	switch f {
	case PDF:
	case PNG:
		if scale <= 0 {
			scale = 1
		}
		args = append(args, "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "cannot convert svg to %q", f)
	}

	bin, err := exec.LookPath(Converter)
	if err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s output needs %s (apt install librsvg2-bin, brew install librsvg)", f, Converter)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", Converter, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// ToPDF converts svg to a PDF document.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return Convert(ctx, svg, PDF, 0)
}

// ToPNG rasterizes svg at the given zoom factor.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	return Convert(ctx, svg, PNG, scale)
}
