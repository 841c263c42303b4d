package model

// Stats summarizes a processed document.
type Stats struct {
	TotalElements    int            `json:"total_elements"`
	TotalPages       int            `json:"total_pages"`
	CountsByKind     map[string]int `json:"element_types"`
	CountsByLanguage map[string]int `json:"languages"`
	MeanConfidence   float64        `json:"avg_confidence"`
	TotalTextLength  int            `json:"total_text_length"`
}

// ComputeStats derives aggregate statistics from a processed document.
// MeanConfidence is 0 when the document has no elements.
func ComputeStats(doc *ProcessedDocument) Stats {
	stats := Stats{
		TotalElements:    len(doc.Elements),
		TotalPages:       doc.TotalPages,
		CountsByKind:     make(map[string]int),
		CountsByLanguage: make(map[string]int),
	}

	var confSum float64
	for _, e := range doc.Elements {
		stats.CountsByKind[e.Kind.String()]++
		if e.Language != "" {
			stats.CountsByLanguage[e.Language]++
		}
		confSum += e.Confidence
		stats.TotalTextLength += len([]rune(e.Text))
	}

	if len(doc.Elements) > 0 {
		stats.MeanConfidence = confSum / float64(len(doc.Elements))
	}

	return stats
}
