package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Reader provides access to DOCX document content.
type Reader struct {
	zipReader  *zip.ReadCloser
	document   *documentXML
	styles     *stylesXML
	paragraphs []parsedParagraph
	tables     []parsedTable
}

// parsedParagraph holds a parsed paragraph with resolved style.
type parsedParagraph struct {
	Text      string
	StyleID   string
	StyleName string
	IsHeading bool
}

// parsedTable holds a parsed table as rows of cell text.
type parsedTable struct {
	Rows [][]string
}

// Open opens a DOCX file for reading.
func Open(filename string) (*Reader, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("opening ZIP archive: %w", err)
	}

	r := &Reader{zipReader: zr}

	if err := r.validate(); err != nil {
		zr.Close()
		return nil, err
	}

	if err := r.parseDocument(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing document: %w", err)
	}

	// Styles are optional - continue without them on failure.
	r.parseStyles()

	r.processParagraphs()
	r.processTables()

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	if r.zipReader != nil {
		err := r.zipReader.Close()
		r.zipReader = nil
		return err
	}
	return nil
}

// Paragraphs returns the parsed paragraphs in document order.
func (r *Reader) Paragraphs() []parsedParagraph {
	return r.paragraphs
}

// Tables returns the parsed tables in document order.
func (r *Reader) Tables() []parsedTable {
	return r.tables
}

// validate checks that required DOCX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"word/document.xml",
	}

	fileMap := make(map[string]bool)
	for _, f := range r.zipReader.File {
		fileMap[f.Name] = true
	}

	for _, name := range required {
		if !fileMap[name] {
			return fmt.Errorf("missing required file: %s", name)
		}
	}

	return nil
}

// getFileContent reads the content of a file from the ZIP archive.
func (r *Reader) getFileContent(name string) ([]byte, error) {
	for _, f := range r.zipReader.File {
		if f.Name == name {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("file not found: %s", name)
}

// parseDocument parses the main document content.
func (r *Reader) parseDocument() error {
	data, err := r.getFileContent("word/document.xml")
	if err != nil {
		return err
	}

	r.document = &documentXML{}
	if err := xml.Unmarshal(data, r.document); err != nil {
		return fmt.Errorf("unmarshaling document.xml: %w", err)
	}

	return nil
}

// parseStyles parses the styles definition file.
func (r *Reader) parseStyles() {
	data, err := r.getFileContent("word/styles.xml")
	if err != nil {
		return
	}

	r.styles = &stylesXML{}
	xml.Unmarshal(data, r.styles)
}

// processParagraphs processes all body paragraphs in document order.
func (r *Reader) processParagraphs() {
	if r.document == nil || r.document.Body == nil {
		return
	}

	r.paragraphs = make([]parsedParagraph, 0, len(r.document.Body.Paragraphs))
	for _, p := range r.document.Body.Paragraphs {
		r.paragraphs = append(r.paragraphs, r.processParagraph(p))
	}
}

// processParagraph processes a single paragraph.
func (r *Reader) processParagraph(p paragraphXML) parsedParagraph {
	parsed := parsedParagraph{
		StyleID: p.Properties.Style.Val,
	}

	var textParts []string
	for _, run := range p.Runs {
		if runText := extractRunText(run); runText != "" {
			textParts = append(textParts, runText)
		}
	}
	parsed.Text = strings.Join(textParts, "")

	if parsed.StyleID != "" {
		parsed.IsHeading = r.isHeadingStyle(parsed.StyleID)
		if r.styles != nil {
			for _, style := range r.styles.Styles {
				if style.StyleID == parsed.StyleID {
					parsed.StyleName = style.Name.Val
					break
				}
			}
		}
		if parsed.StyleName == "" {
			parsed.StyleName = parsed.StyleID
		}
	}

	return parsed
}

// processTables parses each body table into rows of cell text.
func (r *Reader) processTables() {
	if r.document == nil || r.document.Body == nil {
		return
	}

	for _, tbl := range r.document.Body.Tables {
		var parsed parsedTable
		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				var parts []string
				for _, p := range cell.Paragraphs {
					if text := r.processParagraph(p).Text; text != "" {
						parts = append(parts, text)
					}
				}
				cells = append(cells, strings.Join(parts, " "))
			}
			parsed.Rows = append(parsed.Rows, cells)
		}
		r.tables = append(r.tables, parsed)
	}
}

// extractRunText extracts text from a run element.
func extractRunText(run runXML) string {
	var parts []string

	for _, t := range run.Text {
		parts = append(parts, t.Value)
	}

	for range run.Tabs {
		parts = append(parts, "\t")
	}

	for _, br := range run.Breaks {
		if br.Type == "page" {
			parts = append(parts, "\n\n")
		} else {
			parts = append(parts, "\n")
		}
	}

	return strings.Join(parts, "")
}

// isHeadingStyle determines if a style ID represents a heading.
func (r *Reader) isHeadingStyle(styleID string) bool {
	id := strings.ToLower(styleID)

	// Standard Word heading style IDs.
	if strings.HasPrefix(id, "heading") || id == "title" {
		return true
	}

	// Check style definitions for outline level or a heading-like name.
	if r.styles != nil {
		for _, style := range r.styles.Styles {
			if strings.EqualFold(style.StyleID, styleID) {
				if style.PPr.OutlineLvl.Val != "" {
					return true
				}
				if strings.Contains(strings.ToLower(style.Name.Val), "heading") {
					return true
				}
			}
		}
	}

	return false
}
