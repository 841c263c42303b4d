package model

import "github.com/google/uuid"

// Metadata keys every processed document carries.
const (
	MetaFileType  = "file_type"
	MetaSizeBytes = "size_bytes"
)

// ProcessedDocument is the normalized result of one pipeline invocation.
// It is append-only during construction and read-only afterwards; each
// invocation owns its own instance, nothing is shared between requests.
type ProcessedDocument struct {
	// ID uniquely identifies this processing run.
	ID string `json:"id"`

	// Filename is the source file path as given to the pipeline.
	Filename string `json:"filename"`

	// TotalPages is the page (or slide) count of the source, >= 0.
	TotalPages int `json:"total_pages"`

	// Elements is the ordered element sequence. Ordering within a page
	// preserves extraction order.
	Elements []Element `json:"elements"`

	// Metadata holds at least file_type and size_bytes.
	Metadata map[string]any `json:"metadata"`
}

// NewProcessedDocument creates an empty document for the given source file.
func NewProcessedDocument(filename string) *ProcessedDocument {
	return &ProcessedDocument{
		ID:       uuid.NewString(),
		Filename: filename,
		Elements: make([]Element, 0),
		Metadata: make(map[string]any),
	}
}

// AddElement appends an element, preserving extraction order.
func (d *ProcessedDocument) AddElement(e Element) {
	d.Elements = append(d.Elements, e)
}

// Text returns all element text joined by newlines, in extraction order.
func (d *ProcessedDocument) Text() string {
	var out string
	for i, e := range d.Elements {
		if i > 0 {
			out += "\n"
		}
		out += e.Text
	}
	return out
}

// PageElements returns the elements reported on the given 1-based page.
func (d *ProcessedDocument) PageElements(page int) []Element {
	var out []Element
	for _, e := range d.Elements {
		if e.PageNumber == page {
			out = append(out, e)
		}
	}
	return out
}
