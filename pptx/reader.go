package pptx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
)

// emuPerPoint converts English Metric Units to typographic points.
const emuPerPoint = 12700

// Reader provides access to PPTX presentation content.
type Reader struct {
	zipReader    *zip.ReadCloser
	presentation *presentationXML
	slides       []*Slide
}

// Slide represents a parsed slide.
type Slide struct {
	Number int         // 1-indexed slide number
	Shapes []TextShape // Text shapes in document order
	Tables []Table     // Tables on the slide
}

// TextShape represents a block of text on a slide.
type TextShape struct {
	Text        string
	Placeholder string // Placeholder type (title, body, etc.)
	HasGeometry bool
	X, Y        float64 // Position in points
	Width       float64 // Width in points
	Height      float64 // Height in points
}

// Table represents a table on a slide.
type Table struct {
	Rows        [][]string
	HasGeometry bool
	X, Y        float64
	Width       float64
	Height      float64
}

// Open opens a PPTX file for reading.
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

	if err := r.parsePresentation(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing presentation: %w", err)
	}

	if err := r.parseSlides(); err != nil {
		zr.Close()
		return nil, fmt.Errorf("parsing slides: %w", err)
	}

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

// Slides returns the parsed slides in presentation order.
func (r *Reader) Slides() []*Slide {
	return r.slides
}

// validate checks that required PPTX files exist.
func (r *Reader) validate() error {
	required := []string{
		"[Content_Types].xml",
		"ppt/presentation.xml",
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

	hasSlide := false
	for name := range fileMap {
		if isSlidePath(name) {
			hasSlide = true
			break
		}
	}
	if !hasSlide {
		return fmt.Errorf("no slides found in presentation")
	}

	return nil
}

func isSlidePath(name string) bool {
	return strings.HasPrefix(name, "ppt/slides/slide") &&
		strings.HasSuffix(name, ".xml") &&
		!strings.Contains(name, "_rels")
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

// parsePresentation parses the main presentation file.
func (r *Reader) parsePresentation() error {
	data, err := r.getFileContent("ppt/presentation.xml")
	if err != nil {
		return err
	}

	r.presentation = &presentationXML{}
	return xml.Unmarshal(data, r.presentation)
}

// parseSlides parses all slide files in slide-number order.
func (r *Reader) parseSlides() error {
	slideFiles := make([]string, 0)
	for _, f := range r.zipReader.File {
		if isSlidePath(f.Name) {
			slideFiles = append(slideFiles, f.Name)
		}
	}

	sort.Slice(slideFiles, func(i, j int) bool {
		return extractSlideNumber(slideFiles[i]) < extractSlideNumber(slideFiles[j])
	})

	r.slides = make([]*Slide, 0, len(slideFiles))

	for i, slidePath := range slideFiles {
		slide, err := r.parseSlide(slidePath, i+1)
		if err != nil {
			continue // Skip slides that fail to parse
		}
		r.slides = append(r.slides, slide)
	}

	if len(r.slides) == 0 {
		return fmt.Errorf("no slides could be parsed")
	}

	return nil
}

// extractSlideNumber extracts the slide number from a path like "ppt/slides/slide1.xml"
func extractSlideNumber(path string) int {
	name := strings.TrimPrefix(path, "ppt/slides/slide")
	name = strings.TrimSuffix(name, ".xml")
	var num int
	fmt.Sscanf(name, "%d", &num)
	return num
}

// parseSlide parses a single slide file.
func (r *Reader) parseSlide(slidePath string, number int) (*Slide, error) {
	data, err := r.getFileContent(slidePath)
	if err != nil {
		return nil, err
	}

	var sx slideXML
	if err := xml.Unmarshal(data, &sx); err != nil {
		return nil, err
	}

	slide := &Slide{Number: number}
	extractShapes(&sx.CSld.SpTree, slide)

	return slide, nil
}

// extractShapes extracts text content from all shapes in the shape tree.
func extractShapes(spTree *spTreeXML, slide *Slide) {
	for _, sp := range spTree.Sp {
		if shape := extractTextShape(&sp); shape != nil {
			slide.Shapes = append(slide.Shapes, *shape)
		}
	}

	for _, gf := range spTree.GraphicFrame {
		if gf.Graphic.GraphicData.Tbl == nil {
			continue
		}
		tbl := extractTable(gf.Graphic.GraphicData.Tbl)
		if gf.Xfrm != nil {
			tbl.HasGeometry = true
			tbl.X = float64(gf.Xfrm.Off.X) / emuPerPoint
			tbl.Y = float64(gf.Xfrm.Off.Y) / emuPerPoint
			tbl.Width = float64(gf.Xfrm.Ext.Cx) / emuPerPoint
			tbl.Height = float64(gf.Xfrm.Ext.Cy) / emuPerPoint
		}
		slide.Tables = append(slide.Tables, tbl)
	}

	for _, grpSp := range spTree.GrpSp {
		extractGroupedShapes(&grpSp, slide)
	}
}

// extractGroupedShapes extracts shapes from a group, including nested groups.
func extractGroupedShapes(grpSp *grpSpXML, slide *Slide) {
	for _, sp := range grpSp.Sp {
		if shape := extractTextShape(&sp); shape != nil {
			slide.Shapes = append(slide.Shapes, *shape)
		}
	}

	for _, nested := range grpSp.GrpSp {
		extractGroupedShapes(&nested, slide)
	}
}

// extractTextShape extracts text from a shape. Returns nil for shapes
// with no text content.
func extractTextShape(sp *spXML) *TextShape {
	if sp.TxBody == nil || len(sp.TxBody.P) == 0 {
		return nil
	}

	shape := &TextShape{}

	if sp.NvSpPr.NvPr.Ph != nil {
		shape.Placeholder = sp.NvSpPr.NvPr.Ph.Type
	}

	if sp.SpPr.Xfrm != nil {
		shape.HasGeometry = true
		shape.X = float64(sp.SpPr.Xfrm.Off.X) / emuPerPoint
		shape.Y = float64(sp.SpPr.Xfrm.Off.Y) / emuPerPoint
		shape.Width = float64(sp.SpPr.Xfrm.Ext.Cx) / emuPerPoint
		shape.Height = float64(sp.SpPr.Xfrm.Ext.Cy) / emuPerPoint
	}

	var lines []string
	for _, p := range sp.TxBody.P {
		var b strings.Builder
		for _, run := range p.R {
			b.WriteString(run.T)
		}
		if text := strings.TrimSpace(b.String()); text != "" {
			lines = append(lines, text)
		}
	}
	shape.Text = strings.Join(lines, "\n")

	if shape.Text == "" {
		return nil
	}

	return shape
}

// extractTable extracts cell text from a table.
func extractTable(tbl *tblXML) Table {
	var t Table
	for _, tr := range tbl.Tr {
		row := make([]string, 0, len(tr.Tc))
		for _, tc := range tr.Tc {
			var parts []string
			if tc.TxBody != nil {
				for _, p := range tc.TxBody.P {
					var b strings.Builder
					for _, run := range p.R {
						b.WriteString(run.T)
					}
					if text := strings.TrimSpace(b.String()); text != "" {
						parts = append(parts, text)
					}
				}
			}
			row = append(row, strings.Join(parts, " "))
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}
