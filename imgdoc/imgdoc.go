// Package imgdoc extracts text elements from raster images using OCR,
// optionally refined by a layout annotator.
package imgdoc

import (
	"context"
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"go.uber.org/zap"

	"github.com/polydocai/polydoc/extract"
	"github.com/polydocai/polydoc/layout"
	"github.com/polydocai/polydoc/model"
	"github.com/polydocai/polydoc/ocr"
)

const (
	// DefaultAcceptThreshold drops OCR regions at or below this
	// confidence.
	DefaultAcceptThreshold = 0.5
	// DefaultHandwritingThreshold classifies accepted regions below
	// this confidence as handwriting.
	DefaultHandwritingThreshold = 0.8

	// annotatorOverlap is the overlap ratio above which an annotator
	// region is considered already covered by an OCR element.
	annotatorOverlap = 0.5
)

// Extractor extracts text elements from image files.
type Extractor struct {
	engine               ocr.Engine
	annotator            layout.Annotator
	logger               *zap.Logger
	acceptThreshold      float64
	handwritingThreshold float64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithAnnotator adds an optional layout annotator pass. Annotator
// failures are logged, never fatal.
func WithAnnotator(a layout.Annotator) Option {
	return func(e *Extractor) { e.annotator = a }
}

// WithThresholds overrides the confidence thresholds.
func WithThresholds(accept, handwriting float64) Option {
	return func(e *Extractor) {
		e.acceptThreshold = accept
		e.handwritingThreshold = handwriting
	}
}

// New creates an image extractor backed by the given OCR engine.
func New(engine ocr.Engine, logger *zap.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Extractor{
		engine:               engine,
		logger:               logger,
		acceptThreshold:      DefaultAcceptThreshold,
		handwritingThreshold: DefaultHandwritingThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs OCR over the image at path. Regions at or below the
// accept threshold are dropped; accepted regions below the handwriting
// threshold are classified as handwriting, the rest as printed text.
// All elements land on page 1 with the envelope of the OCR polygon as
// their bounding box.
func (e *Extractor) Extract(ctx context.Context, path string) (*extract.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e.engine == nil {
		return nil, fmt.Errorf("no OCR engine configured: %w", ocr.ErrOCRNotEnabled)
	}

	if err := validateImage(path); err != nil {
		return nil, err
	}

	regions, err := e.engine.Regions(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("running OCR: %w", err)
	}

	result := &extract.Result{PageCount: 1}

	dropped := 0
	for _, r := range regions {
		if r.Text == "" || r.Confidence <= e.acceptThreshold {
			dropped++
			continue
		}

		kind := model.KindText
		if r.Confidence < e.handwritingThreshold {
			kind = model.KindHandwriting
		}

		result.Elements = append(result.Elements, model.Element{
			Text:       r.Text,
			PageNumber: 1,
			Kind:       kind,
			BBox:       model.Envelope(r.Polygon),
			Confidence: r.Confidence,
		})
	}

	if e.annotator != nil {
		e.annotate(ctx, path, result)
	}

	e.logger.Debug("image extraction complete",
		zap.String("path", path),
		zap.Int("elements", len(result.Elements)),
		zap.Int("dropped", dropped))

	return result, nil
}

// annotate merges layout annotator regions into the result. Regions
// already covered by an OCR element are skipped.
func (e *Extractor) annotate(ctx context.Context, path string, result *extract.Result) {
	regions, err := e.annotator.Annotate(ctx, path)
	if err != nil {
		e.logger.Warn("layout annotation failed",
			zap.String("path", path),
			zap.Error(err))
		return
	}

	for _, r := range regions {
		if r.Text == "" {
			continue
		}
		covered := false
		for _, el := range result.Elements {
			if r.BBox.OverlapRatio(el.BBox) > annotatorOverlap {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		result.Elements = append(result.Elements, model.Element{
			Text:       r.Text,
			PageNumber: 1,
			Kind:       model.KindText,
			BBox:       r.BBox,
			Confidence: r.Confidence,
		})
	}
}

// validateImage confirms the file decodes as a supported image format.
func validateImage(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, _, err := image.DecodeConfig(f); err != nil {
		return fmt.Errorf("decoding image: %w", err)
	}
	return nil
}
