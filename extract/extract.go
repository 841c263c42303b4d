// Package extract defines the common contract for format extractors and
// the registry that dispatches them by detected format. Each supported
// container format provides one Extractor; per-format failure domains stay
// isolated behind this interface.
package extract

import (
	"context"

	"github.com/polydocai/polydoc/format"
	"github.com/polydocai/polydoc/model"
)

// Result holds the raw output of one extraction: the ordered element
// fragments and the source page count.
type Result struct {
	Elements  []model.Element
	PageCount int
}

// Extractor extracts raw elements from a file it owns the format of.
// Implementations must never let one malformed page, slide, shape or
// region abort the whole document: the failing unit is skipped and
// extraction continues. Formats without real layout coordinates emit
// monotonically increasing synthetic vertical positions per unit.
type Extractor interface {
	Extract(ctx context.Context, path string) (*Result, error)
}

// Registry maps formats to their extractors.
type Registry struct {
	extractors map[format.Format]Extractor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{extractors: make(map[format.Format]Extractor)}
}

// Register binds an extractor to a format, replacing any previous binding.
func (r *Registry) Register(f format.Format, e Extractor) {
	r.extractors[f] = e
}

// Lookup returns the extractor registered for a format.
func (r *Registry) Lookup(f format.Format) (Extractor, bool) {
	e, ok := r.extractors[f]
	return e, ok
}

// Formats returns the formats with a registered extractor.
func (r *Registry) Formats() []format.Format {
	out := make([]format.Format, 0, len(r.extractors))
	for f := range r.extractors {
		out = append(out, f)
	}
	return out
}
