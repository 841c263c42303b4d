package docx

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/polydocai/polydoc/extract"
	"github.com/polydocai/polydoc/model"
)

const (
	paragraphBandHeight = 30
	tableBandHeight     = 100
	tableBandOffset     = 1000
	pageWidth           = 500
)

// Extractor extracts structured elements from DOCX files.
type Extractor struct {
	logger *zap.Logger
}

// New creates a DOCX extractor.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract parses the DOCX file at path and returns its paragraphs and
// tables as positioned elements. DOCX has no fixed pagination, so all
// elements are reported on page 1 with synthetic vertical bands.
func (e *Extractor) Extract(ctx context.Context, path string) (*extract.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	result := &extract.Result{PageCount: 1}

	idx := 0
	for _, p := range r.Paragraphs() {
		text := strings.TrimSpace(p.Text)
		if text == "" {
			continue
		}

		kind := model.KindParagraph
		if p.IsHeading {
			kind = model.KindHeading
		}

		el := model.Element{
			Text:       text,
			PageNumber: 1,
			Kind:       kind,
			BBox:       model.NewBBox(0, float64(idx*paragraphBandHeight), pageWidth, float64((idx+1)*paragraphBandHeight)),
			Confidence: 1.0,
		}
		if p.StyleName != "" {
			el.FontInfo = map[string]string{"style": p.StyleName}
		}
		result.Elements = append(result.Elements, el)
		idx++
	}

	for tIdx, tbl := range r.Tables() {
		text := serializeTable(tbl)
		if text == "" {
			continue
		}
		y1 := float64(tableBandOffset + tIdx*tableBandHeight)
		result.Elements = append(result.Elements, model.Element{
			Text:       text,
			PageNumber: 1,
			Kind:       model.KindTable,
			BBox:       model.NewBBox(0, y1, pageWidth, y1+tableBandHeight),
			Confidence: 1.0,
		})
	}

	e.logger.Debug("docx extraction complete",
		zap.String("path", path),
		zap.Int("elements", len(result.Elements)))

	return result, nil
}

// serializeTable renders a table as pipe-separated cells with one row
// per line.
func serializeTable(t parsedTable) string {
	rows := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, strings.Join(row, " | "))
	}
	return strings.TrimSpace(strings.Join(rows, "\n"))
}
