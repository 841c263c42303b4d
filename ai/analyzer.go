package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/polydocai/polydoc/model"
)

const structureTopicCount = 5

// Structure summarizes the composition and content of a processed
// document.
type Structure struct {
	Headings        int         `json:"headings"`
	Paragraphs      int         `json:"paragraphs"`
	Tables          int         `json:"tables"`
	HasHandwriting  bool        `json:"has_handwriting"`
	Languages       []string    `json:"languages"`
	ElementsPerPage map[int]int `json:"elements_per_page"`
	MeanConfidence  float64     `json:"mean_confidence"`
	TotalTextLength int         `json:"total_text_length"`
	KeyTopics       []string    `json:"key_topics"`
	Sentiment       string      `json:"sentiment"`
	Readability     float64     `json:"readability"`
}

// SummaryLength selects a target summary size.
type SummaryLength int

const (
	SummaryShort SummaryLength = iota
	SummaryMedium
	SummaryLong
)

// maxLength returns the character budget for the preset.
func (l SummaryLength) maxLength() int {
	switch l {
	case SummaryShort:
		return 100
	case SummaryLong:
		return 500
	default:
		return 250
	}
}

// minLength returns the character floor for the preset.
func (l SummaryLength) minLength() int {
	switch l {
	case SummaryShort:
		return 30
	case SummaryLong:
		return 120
	default:
		return 60
	}
}

// AnalyzeStructure walks a document's elements and reports its
// composition, dominant topics, overall sentiment and a readability
// score. Content analysis uses whatever backends the manager carries;
// missing backends leave their fields at fallback values.
func (m *Manager) AnalyzeStructure(ctx context.Context, doc *model.ProcessedDocument) Structure {
	s := Structure{ElementsPerPage: make(map[int]int)}

	langSeen := make(map[string]bool)
	var confSum float64

	for _, el := range doc.Elements {
		switch el.Kind {
		case model.KindHeading:
			s.Headings++
		case model.KindParagraph, model.KindText:
			s.Paragraphs++
		case model.KindTable:
			s.Tables++
		case model.KindHandwriting:
			s.HasHandwriting = true
		}

		s.ElementsPerPage[el.PageNumber]++
		s.TotalTextLength += len([]rune(el.Text))
		confSum += el.Confidence

		if el.Language != "" && !langSeen[el.Language] {
			langSeen[el.Language] = true
			s.Languages = append(s.Languages, el.Language)
		}
	}

	if len(doc.Elements) > 0 {
		s.MeanConfidence = confSum / float64(len(doc.Elements))
	}

	text := doc.Text()
	if text == "" {
		return s
	}

	if phrases, err := m.ExtractKeyPhrases(ctx, text, structureTopicCount); err == nil {
		for _, p := range phrases {
			s.KeyTopics = append(s.KeyTopics, p.Text)
		}
	}
	if resp, err := m.AnalyzeSentiment(ctx, text); err == nil {
		s.Sentiment = resp.Content
	}
	s.Readability = readabilityScore(text)

	return s
}

// readabilityScore computes a Flesch style reading ease score in
// [0, 100], higher meaning easier text. Syllables are estimated from
// vowel groups, which is close enough for ranking documents against
// each other.
func readabilityScore(text string) float64 {
	sentences := splitSentences(text)
	words := strings.Fields(text)
	if len(sentences) == 0 || len(words) == 0 {
		return 0
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordsPerSentence := float64(len(words)) / float64(len(sentences))
	syllablesPerWord := float64(syllables) / float64(len(words))

	score := 206.835 - 1.015*wordsPerSentence - 84.6*syllablesPerWord
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// countSyllables estimates syllables as the number of vowel groups,
// with a floor of one per word.
func countSyllables(word string) int {
	groups := 0
	inVowel := false
	for _, r := range strings.ToLower(word) {
		v := strings.ContainsRune("aeiouy", r)
		if v && !inVowel {
			groups++
		}
		inVowel = v
	}
	if groups == 0 {
		return 1
	}
	return groups
}

// GenerateDocumentSummary summarizes a whole document at the requested
// length preset, annotating the response with document context and the
// per page element distribution.
func (m *Manager) GenerateDocumentSummary(ctx context.Context, doc *model.ProcessedDocument, length SummaryLength) (ModelResponse, error) {
	text := doc.Text()
	if text == "" {
		return ModelResponse{}, fmt.Errorf("document %s has no text to summarize", doc.ID)
	}

	resp, err := m.Summarize(ctx, text, length.maxLength(), length.minLength(), m.DetectLanguage(text))
	if err != nil {
		return ModelResponse{}, err
	}

	perPage := make(map[int]int)
	for _, el := range doc.Elements {
		perPage[el.PageNumber]++
	}

	if resp.Metadata == nil {
		resp.Metadata = make(map[string]any)
	}
	resp.Metadata["document_id"] = doc.ID
	resp.Metadata["total_pages"] = doc.TotalPages
	resp.Metadata["element_count"] = len(doc.Elements)
	resp.Metadata["elements_per_page"] = perPage
	return resp, nil
}
