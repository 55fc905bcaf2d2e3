package render

import (
	"context"
	"testing"

	"github.com/matzehuels/geodome/pkg/errors"
)

func TestConvertUnknownFormat(t *testing.T) {
	_, err := Convert(context.Background(), []byte("<svg/>"), Format("gif"), 1)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Convert(gif) error = %v, want INVALID_FORMAT", err)
	}
}

func TestConvertMissingTool(t *testing.T) {
	old := Converter
	Converter = "geodome-no-such-converter"
	t.Cleanup(func() { Converter = old })

	for _, f := range []Format{PDF, PNG} {
		_, err := Convert(context.Background(), []byte("<svg/>"), f, 2)
		if !errors.Is(err, errors.ErrCodeUnsupported) {
			t.Errorf("Convert(%s) error = %v, want UNSUPPORTED", f, err)
		}
	}
}
