package model

// Kind represents the type of an extracted document element
type Kind int

const (
	KindUnknown Kind = iota
	KindParagraph
	KindHeading
	KindTable
	KindText
	KindHandwriting
)

func (k Kind) String() string {
	switch k {
	case KindParagraph:
		return "paragraph"
	case KindHeading:
		return "heading"
	case KindTable:
		return "table"
	case KindText:
		return "text"
	case KindHandwriting:
		return "handwriting"
	default:
		return "unknown"
	}
}

// MarshalJSON emits the kind as its lowercase string form.
func (k Kind) MarshalJSON() ([]byte, error) {
	return []byte(`"` + k.String() + `"`), nil
}

// Element is one unit of extracted, typed, positioned document content.
type Element struct {
	// Text is the element content, non-empty after trimming.
	Text string `json:"text"`

	// PageNumber is the 1-based page (or slide) the element came from.
	// Formats without a page concept report page 1.
	PageNumber int `json:"page_number"`

	// Kind classifies the element.
	Kind Kind `json:"element_kind"`

	// BBox is the element position. For formats without real layout
	// coordinates it is a synthesized stacked band, so top-to-bottom
	// ordering is still reconstructable.
	BBox BBox `json:"bounding_box"`

	// Confidence is in [0,1]: 1.0 for text-native formats, the OCR engine
	// score for image-derived elements.
	Confidence float64 `json:"confidence"`

	// Language is an ISO-ish short code or "unknown". Attached by the
	// pipeline, empty until then.
	Language string `json:"language,omitempty"`

	// FontInfo carries format-dependent style metadata.
	FontInfo map[string]string `json:"font_info,omitempty"`
}
