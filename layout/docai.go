package layout

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/polydocai/polydoc/model"
)

// Config holds Google Document AI connection settings.
type Config struct {
	ProjectID       string
	Location        string
	ProcessorID     string
	CredentialsFile string
}

// DocAI is an Annotator backed by Google Document AI.
type DocAI struct {
	client *documentai.DocumentProcessorClient
	name   string
}

// NewDocAI creates a Document AI annotator. The client is process
// scoped; callers must Close it when done.
func NewDocAI(ctx context.Context, cfg Config) (*DocAI, error) {
	if cfg.ProjectID == "" || cfg.Location == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("incomplete Document AI configuration")
	}

	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)

	opts := []option.ClientOption{option.WithEndpoint(endpoint)}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating Document AI client: %w", err)
	}

	return &DocAI{
		client: client,
		name: fmt.Sprintf("projects/%s/locations/%s/processors/%s",
			cfg.ProjectID, cfg.Location, cfg.ProcessorID),
	}, nil
}

// Close releases the underlying gRPC connection.
func (d *DocAI) Close() error {
	return d.client.Close()
}

// Annotate sends the file at path to Document AI and returns the
// detected layout regions.
func (d *DocAI) Annotate(ctx context.Context, path string) ([]Region, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	req := &documentaipb.ProcessRequest{
		Name: d.name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  content,
				MimeType: mimeTypeFor(path),
			},
		},
		SkipHumanReview: true,
	}

	resp, err := d.client.ProcessDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("processing document: %w", err)
	}

	return regionsFromDocument(resp.Document), nil
}

// mimeTypeFor maps a file extension to the MIME type Document AI
// expects.
func mimeTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return "application/pdf"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".tiff", ".tif":
		return "image/tiff"
	case ".bmp":
		return "image/bmp"
	default:
		return "application/octet-stream"
	}
}

// regionsFromDocument flattens a Document proto into layout regions,
// one per detected block. Normalized vertices are scaled to the page
// dimension so coordinates come back in the page's native unit.
func regionsFromDocument(doc *documentaipb.Document) []Region {
	if doc == nil {
		return nil
	}

	var regions []Region
	for pageIdx, page := range doc.Pages {
		pageNum := int(page.PageNumber)
		if pageNum == 0 {
			pageNum = pageIdx + 1
		}
		for _, block := range page.Blocks {
			if block.Layout == nil {
				continue
			}
			regions = append(regions, Region{
				Text:       textFromLayout(block.Layout, doc.Text),
				Kind:       model.KindParagraph,
				PageNumber: pageNum,
				BBox:       bboxFromLayout(block.Layout, page.Dimension),
				Confidence: float64(block.Layout.Confidence),
			})
		}
	}
	return regions
}

// textFromLayout resolves a layout's text anchor against the full
// document text.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}

	runes := []rune(fullText)
	var b strings.Builder
	for _, seg := range layout.TextAnchor.TextSegments {
		start := int(seg.StartIndex)
		end := int(seg.EndIndex)
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start > end {
			start = end
		}
		b.WriteString(string(runes[start:end]))
	}
	return strings.TrimSpace(b.String())
}

// bboxFromLayout scales a layout's normalized bounding poly to page
// coordinates.
func bboxFromLayout(layout *documentaipb.Document_Page_Layout, dim *documentaipb.Document_Page_Dimension) model.BBox {
	if layout.BoundingPoly == nil || dim == nil || len(layout.BoundingPoly.NormalizedVertices) == 0 {
		return model.BBox{}
	}

	pts := make([]model.Point, 0, len(layout.BoundingPoly.NormalizedVertices))
	for _, v := range layout.BoundingPoly.NormalizedVertices {
		pts = append(pts, model.Point{
			X: float64(v.X) * float64(dim.Width),
			Y: float64(v.Y) * float64(dim.Height),
		})
	}
	return model.Envelope(pts)
}
