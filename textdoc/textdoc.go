// Package textdoc extracts elements from plain text, Markdown and HTML
// files.
package textdoc

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/polydocai/polydoc/extract"
	"github.com/polydocai/polydoc/model"
)

const (
	bandHeight = 30
	pageWidth  = 500
)

// Extractor extracts structured elements from text-based files.
type Extractor struct {
	logger *zap.Logger
}

// New creates a text extractor.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract reads the file at path and splits it into elements. Plain
// text splits on blank lines, Markdown additionally recognizes ATX
// headings, and HTML is parsed with heading tags mapped to heading
// elements. Everything lands on page 1 with stacked synthetic bands.
func (e *Extractor) Extract(ctx context.Context, path string) (*extract.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var blocks []block
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		blocks = parseMarkdown(string(data))
	case ".html", ".htm":
		blocks, err = parseHTML(string(data))
		if err != nil {
			return nil, fmt.Errorf("parsing HTML: %w", err)
		}
	default:
		blocks = parsePlainText(string(data))
	}

	result := &extract.Result{PageCount: 1}
	for i, b := range blocks {
		result.Elements = append(result.Elements, model.Element{
			Text:       b.text,
			PageNumber: 1,
			Kind:       b.kind,
			BBox:       model.NewBBox(0, float64(i*bandHeight), pageWidth, float64((i+1)*bandHeight)),
			Confidence: 1.0,
		})
	}

	e.logger.Debug("text extraction complete",
		zap.String("path", path),
		zap.Int("elements", len(result.Elements)))

	return result, nil
}

type block struct {
	text string
	kind model.Kind
}

// parsePlainText splits text into paragraphs on blank lines.
func parsePlainText(text string) []block {
	var blocks []block
	for _, chunk := range splitBlankLines(text) {
		blocks = append(blocks, block{text: chunk, kind: model.KindParagraph})
	}
	return blocks
}

// parseMarkdown splits text on blank lines and classifies ATX heading
// lines.
func parseMarkdown(text string) []block {
	var blocks []block
	for _, chunk := range splitBlankLines(text) {
		if heading, ok := atxHeading(chunk); ok {
			blocks = append(blocks, block{text: heading, kind: model.KindHeading})
			continue
		}
		blocks = append(blocks, block{text: chunk, kind: model.KindParagraph})
	}
	return blocks
}

// atxHeading strips ATX heading markers from a single-line chunk.
func atxHeading(chunk string) (string, bool) {
	if strings.Contains(chunk, "\n") {
		return "", false
	}
	trimmed := strings.TrimLeft(chunk, "#")
	level := len(chunk) - len(trimmed)
	if level < 1 || level > 6 || !strings.HasPrefix(trimmed, " ") {
		return "", false
	}
	text := strings.TrimSpace(strings.TrimRight(trimmed, "#"))
	if text == "" {
		return "", false
	}
	return text, true
}

// splitBlankLines splits normalized text into trimmed non-empty chunks.
func splitBlankLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var chunks []string
	for _, chunk := range strings.Split(text, "\n\n") {
		if chunk = strings.TrimSpace(chunk); chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

var headingTags = map[string]bool{
	"h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true,
}

var skipTags = map[string]bool{
	"script": true, "style": true, "head": true,
}

// parseHTML walks the document tree and emits one block per heading or
// paragraph-level element.
func parseHTML(src string) ([]block, error) {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return nil, err
	}

	var blocks []block
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if skipTags[n.Data] {
				return
			}
			if headingTags[n.Data] {
				if text := nodeText(n); text != "" {
					blocks = append(blocks, block{text: text, kind: model.KindHeading})
				}
				return
			}
			if n.Data == "p" || n.Data == "li" || n.Data == "td" || n.Data == "th" {
				if text := nodeText(n); text != "" {
					blocks = append(blocks, block{text: text, kind: model.KindParagraph})
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	// Documents without paragraph markup still yield their text.
	if len(blocks) == 0 {
		if text := nodeText(doc); text != "" {
			blocks = append(blocks, block{text: text, kind: model.KindParagraph})
		}
	}

	return blocks, nil
}

// nodeText collects the text content beneath a node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}
