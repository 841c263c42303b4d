package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/polydocai/polydoc/model"
)

// writeZipFile writes a file into a zip archive.
func writeZipFile(t *testing.T, zw *zip.Writer, name, content string) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("Failed to create %s in zip: %v", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// createTestPPTX creates a PPTX file with the supplied slide bodies.
// Each entry becomes the spTree content of one slide.
func createTestPPTX(t *testing.T, slideTrees ...string) string {
	t.Helper()

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "test.pptx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	contentTypes := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
</Types>`
	writeZipFile(t, zw, "[Content_Types].xml", contentTypes)

	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="ppt/presentation.xml"/>
</Relationships>`
	writeZipFile(t, zw, "_rels/.rels", rels)

	presentation := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main">
  <p:sldSz cx="9144000" cy="6858000"/>
</p:presentation>`
	writeZipFile(t, zw, "ppt/presentation.xml", presentation)

	for i, tree := range slideTrees {
		slide := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld>
    <p:spTree>` + tree + `</p:spTree>
  </p:cSld>
</p:sld>`
		writeZipFile(t, zw, fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slide)
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}

	return path
}

// textShape builds a simple shape with no explicit geometry.
func textShape(text string) string {
	return `<p:sp><p:nvSpPr><p:nvPr/></p:nvSpPr><p:spPr/><p:txBody><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></p:txBody></p:sp>`
}

// positionedShape builds a shape with xfrm geometry in EMUs.
func positionedShape(text string, x, y, cx, cy int) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm></p:spPr>
<p:txBody><a:p><a:r><a:t>%s</a:t></a:r></a:p></p:txBody></p:sp>`, x, y, cx, cy, text)
}

func TestOpen_SlideOrder(t *testing.T) {
	path := createTestPPTX(t,
		textShape("Slide one"),
		textShape("Slide two"),
		textShape("Slide three"),
	)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	slides := r.Slides()
	if len(slides) != 3 {
		t.Fatalf("expected 3 slides, got %d", len(slides))
	}
	for i, want := range []string{"Slide one", "Slide two", "Slide three"} {
		if slides[i].Number != i+1 {
			t.Errorf("slide %d number = %d", i, slides[i].Number)
		}
		if len(slides[i].Shapes) != 1 || slides[i].Shapes[0].Text != want {
			t.Errorf("slide %d text = %+v, want %q", i, slides[i].Shapes, want)
		}
	}
}

func TestOpen_NoSlides(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "empty.pptx")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(f)
	writeZipFile(t, zw, "[Content_Types].xml", "<Types/>")
	writeZipFile(t, zw, "ppt/presentation.xml", "<p:presentation xmlns:p=\"http://schemas.openxmlformats.org/presentationml/2006/main\"/>")
	zw.Close()
	f.Close()

	if _, err := Open(path); err == nil {
		t.Error("expected error for presentation without slides")
	}
}

func TestOpen_SkipsMalformedSlide(t *testing.T) {
	path := createTestPPTX(t, textShape("Good slide"))

	// Append a malformed slide to a copy of the archive content by
	// rebuilding with an invalid second slide.
	tmpDir := t.TempDir()
	bad := filepath.Join(tmpDir, "mixed.pptx")
	src, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(src), int64(len(src)))
	if err != nil {
		t.Fatal(err)
	}

	out, err := os.Create(bad)
	if err != nil {
		t.Fatal(err)
	}
	zw := zip.NewWriter(out)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		w, _ := zw.Create(f.Name)
		w.Write(data)
	}
	writeZipFile(t, zw, "ppt/slides/slide2.xml", "<not-valid-xml")
	zw.Close()
	out.Close()

	r, err := Open(bad)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if len(r.Slides()) != 1 {
		t.Errorf("expected malformed slide to be skipped, got %d slides", len(r.Slides()))
	}
}

func TestIsHeadingText(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Introduction", true},
		{"AGENDA", true},
		{"THIS ENTIRE LINE IS UPPERCASE SO IT READS AS A SECTION HEADING EVEN THOUGH LONG", true},
		{"This is a much longer sentence of mixed case that keeps going past the cutoff length.", false},
		{"short\nmultiline", false},
	}

	for _, tt := range tests {
		if got := isHeadingText(tt.text); got != tt.want {
			t.Errorf("isHeadingText(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestExtract_Geometry(t *testing.T) {
	// 457200 EMU = 36pt, 274638 EMU ~= 21.625pt.
	path := createTestPPTX(t, positionedShape("Deck Title", 457200, 635000, 6350000, 1270000))

	result, err := New(nil).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.PageCount != 1 {
		t.Errorf("PageCount = %d, want 1", result.PageCount)
	}
	if len(result.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(result.Elements))
	}

	el := result.Elements[0]
	if el.Kind != model.KindHeading {
		t.Errorf("kind = %v, want heading", el.Kind)
	}
	if el.BBox.X1 != 36 || el.BBox.Y1 != 50 {
		t.Errorf("origin = (%v, %v), want (36, 50)", el.BBox.X1, el.BBox.Y1)
	}
	if el.BBox.Width() != 500 || el.BBox.Height() != 100 {
		t.Errorf("size = %vx%v, want 500x100", el.BBox.Width(), el.BBox.Height())
	}
	if el.FontInfo["placeholder"] != "title" {
		t.Errorf("placeholder = %q, want title", el.FontInfo["placeholder"])
	}
}

func TestExtract_PageNumbers(t *testing.T) {
	path := createTestPPTX(t,
		textShape("OVERVIEW"),
		textShape("The second slide holds a longer paragraph of narrative text that runs past fifty characters."),
	)

	result, err := New(nil).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if result.PageCount != 2 {
		t.Errorf("PageCount = %d, want 2", result.PageCount)
	}
	if len(result.Elements) != 2 {
		t.Fatalf("expected 2 elements, got %d", len(result.Elements))
	}
	if result.Elements[0].PageNumber != 1 || result.Elements[1].PageNumber != 2 {
		t.Errorf("page numbers = %d, %d, want 1, 2", result.Elements[0].PageNumber, result.Elements[1].PageNumber)
	}
	if result.Elements[0].Kind != model.KindHeading {
		t.Errorf("slide 1 kind = %v, want heading", result.Elements[0].Kind)
	}
	if result.Elements[1].Kind != model.KindParagraph {
		t.Errorf("slide 2 kind = %v, want paragraph", result.Elements[1].Kind)
	}
}

func TestExtract_Table(t *testing.T) {
	table := `<p:graphicFrame><a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/table"><a:tbl>
<a:tr><a:tc><a:txBody><a:p><a:r><a:t>Region</a:t></a:r></a:p></a:txBody></a:tc><a:tc><a:txBody><a:p><a:r><a:t>Sales</a:t></a:r></a:p></a:txBody></a:tc></a:tr>
<a:tr><a:tc><a:txBody><a:p><a:r><a:t>West</a:t></a:r></a:p></a:txBody></a:tc><a:tc><a:txBody><a:p><a:r><a:t>42</a:t></a:r></a:p></a:txBody></a:tc></a:tr>
</a:tbl></a:graphicData></a:graphic></p:graphicFrame>`
	path := createTestPPTX(t, table)

	result, err := New(nil).Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}

	if len(result.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(result.Elements))
	}
	el := result.Elements[0]
	if el.Kind != model.KindTable {
		t.Errorf("kind = %v, want table", el.Kind)
	}
	want := "Region | Sales\nWest | 42"
	if el.Text != want {
		t.Errorf("table text = %q, want %q", el.Text, want)
	}
}

func TestExtract_Cancelled(t *testing.T) {
	path := createTestPPTX(t, textShape("content"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(nil).Extract(ctx, path); err == nil {
		t.Error("expected error for cancelled context")
	}
}
