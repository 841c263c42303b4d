package pptx

import (
	"context"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"github.com/polydocai/polydoc/extract"
	"github.com/polydocai/polydoc/model"
)

const (
	headingMaxRunes = 50
	shapeBandHeight = 50
	slideWidth      = 500
)

// Extractor extracts structured elements from PPTX files.
type Extractor struct {
	logger *zap.Logger
}

// New creates a PPTX extractor.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract parses the presentation at path and returns one element per
// text shape. Slide numbers map to page numbers, so a deck of N slides
// reports N pages. Shapes that carry explicit geometry keep it,
// converted from EMUs to points; the rest get stacked bands.
func (e *Extractor) Extract(ctx context.Context, path string) (*extract.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	result := &extract.Result{PageCount: len(r.Slides())}

	for _, slide := range r.Slides() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		band := 0
		for _, shape := range slide.Shapes {
			kind := model.KindParagraph
			if isHeadingText(shape.Text) {
				kind = model.KindHeading
			}

			el := model.Element{
				Text:       shape.Text,
				PageNumber: slide.Number,
				Kind:       kind,
				Confidence: 1.0,
			}
			if shape.Placeholder != "" {
				el.FontInfo = map[string]string{"placeholder": shape.Placeholder}
			}
			if shape.HasGeometry {
				el.BBox = model.NewBBox(shape.X, shape.Y, shape.X+shape.Width, shape.Y+shape.Height)
			} else {
				el.BBox = syntheticBand(band)
				band++
			}
			result.Elements = append(result.Elements, el)
		}

		for _, tbl := range slide.Tables {
			text := serializeTable(tbl)
			if text == "" {
				continue
			}
			el := model.Element{
				Text:       text,
				PageNumber: slide.Number,
				Kind:       model.KindTable,
				Confidence: 1.0,
			}
			if tbl.HasGeometry {
				el.BBox = model.NewBBox(tbl.X, tbl.Y, tbl.X+tbl.Width, tbl.Y+tbl.Height)
			} else {
				el.BBox = syntheticBand(band)
				band++
			}
			result.Elements = append(result.Elements, el)
		}
	}

	e.logger.Debug("pptx extraction complete",
		zap.String("path", path),
		zap.Int("slides", result.PageCount),
		zap.Int("elements", len(result.Elements)))

	return result, nil
}

func syntheticBand(idx int) model.BBox {
	return model.NewBBox(0, float64(idx*shapeBandHeight), slideWidth, float64((idx+1)*shapeBandHeight))
}

// isHeadingText reports whether shape text looks like a slide heading:
// short text, or text with letters that are all uppercase.
func isHeadingText(text string) bool {
	runes := []rune(text)
	if len(runes) < headingMaxRunes && !strings.Contains(text, "\n") {
		return true
	}

	hasLetter := false
	for _, r := range runes {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

// serializeTable renders a table as pipe-separated cells with one row
// per line.
func serializeTable(t Table) string {
	rows := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, strings.Join(row, " | "))
	}
	return strings.TrimSpace(strings.Join(rows, "\n"))
}
