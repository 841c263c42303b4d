package ocr

import (
	"context"
	"errors"

	"github.com/polydocai/polydoc/model"
)

// ErrOCRNotEnabled is returned when OCR functions are called but OCR
// support was not compiled in. Rebuild with -tags ocr to enable it.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Region is one detected text region: the recognized text, the (possibly
// rotated) polygon the engine returned, and the engine confidence in [0,1].
type Region struct {
	Text       string
	Polygon    []model.Point
	Confidence float64
}

// Engine recognizes text regions in a raster image. Engine construction is
// expensive; one Engine is created per process, shared read-only across
// requests, and closed on shutdown.
type Engine interface {
	Regions(ctx context.Context, path string) ([]Region, error)
	Close() error
}
