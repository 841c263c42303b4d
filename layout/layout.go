// Package layout provides document layout analysis. The primary
// implementation delegates to Google Document AI; callers treat the
// annotator as an optional refinement stage.
package layout

import (
	"context"

	"github.com/polydocai/polydoc/model"
)

// Region is a layout region detected on a page.
type Region struct {
	Text       string
	Kind       model.Kind
	PageNumber int
	BBox       model.BBox
	Confidence float64
}

// Annotator analyzes the layout of a document image or PDF.
type Annotator interface {
	Annotate(ctx context.Context, path string) ([]Region, error)
	Close() error
}
