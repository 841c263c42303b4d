//go:build ocr

// Package ocr provides OCR (Optical Character Recognition) for extracting
// positioned text regions from raster images.
//
// This package wraps the Tesseract OCR engine via gosseract. It requires
// Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/polydocai/polydoc/model"
)

// Client wraps Tesseract for OCR operations. It implements Engine.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client. The client should be closed when no
// longer needed to release resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// SetLanguages sets the language(s) for OCR recognition, e.g. "eng", "fra".
// Default is "eng".
func (c *Client) SetLanguages(langs ...string) error {
	return c.client.SetLanguage(langs...)
}

// Regions runs line-level recognition over the whole image and returns
// one Region per detected text line. Tesseract reports confidence on a
// 0-100 scale; it is normalized to [0,1] here.
func (c *Client) Regions(ctx context.Context, path string) ([]Region, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.client.SetImage(path); err != nil {
		return nil, fmt.Errorf("setting image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	regions := make([]Region, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		regions = append(regions, Region{
			Text: text,
			Polygon: []model.Point{
				{X: float64(b.Box.Min.X), Y: float64(b.Box.Min.Y)},
				{X: float64(b.Box.Max.X), Y: float64(b.Box.Min.Y)},
				{X: float64(b.Box.Max.X), Y: float64(b.Box.Max.Y)},
				{X: float64(b.Box.Min.X), Y: float64(b.Box.Max.Y)},
			},
			Confidence: b.Confidence / 100,
		})
	}

	return regions, nil
}
