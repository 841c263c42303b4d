// Package polydoc turns documents in mixed formats into a normalized
// element stream. PDF, DOCX, PPTX, images and plain text all come out
// as the same positioned, language-tagged elements, ready for search
// and inference.
package polydoc

import (
	"context"
	"errors"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/polydocai/polydoc/config"
	"github.com/polydocai/polydoc/docx"
	"github.com/polydocai/polydoc/extract"
	"github.com/polydocai/polydoc/format"
	"github.com/polydocai/polydoc/imgdoc"
	"github.com/polydocai/polydoc/lang"
	"github.com/polydocai/polydoc/layout"
	"github.com/polydocai/polydoc/model"
	"github.com/polydocai/polydoc/ocr"
	"github.com/polydocai/polydoc/pdfdoc"
	"github.com/polydocai/polydoc/pptx"
	"github.com/polydocai/polydoc/textdoc"
)

// Pipeline processes documents into normalized elements.
type Pipeline struct {
	registry  *extract.Registry
	engine    ocr.Engine
	annotator layout.Annotator
	logger    *zap.Logger

	engineSet bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOCREngine overrides the OCR engine used for images. Passing nil
// leaves image extraction unavailable.
func WithOCREngine(e ocr.Engine) Option {
	return func(p *Pipeline) {
		p.engine = e
		p.engineSet = true
	}
}

// WithAnnotator adds a layout annotator for image extraction.
func WithAnnotator(a layout.Annotator) Option {
	return func(p *Pipeline) { p.annotator = a }
}

// New builds a Pipeline with extractors for every supported format.
// The OCR engine is created from cfg unless an option replaces it;
// engines are process scoped and released by Close.
func New(cfg *config.Config, logger *zap.Logger, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Pipeline{
		registry: extract.NewRegistry(),
		logger:   logger,
	}

	for _, opt := range opts {
		opt(p)
	}

	if !p.engineSet {
		client, err := ocr.New()
		if err == nil {
			if len(cfg.OCR.Languages) > 0 {
				if err := client.SetLanguages(cfg.OCR.Languages...); err != nil {
					client.Close()
					return nil, err
				}
			}
			p.engine = client
		} else if !errors.Is(err, ocr.ErrOCRNotEnabled) {
			return nil, err
		}
	}

	if p.annotator == nil && cfg.Layout.Enabled() {
		annotator, err := layout.NewDocAI(context.Background(), layout.Config{
			ProjectID:       cfg.Layout.ProjectID,
			Location:        cfg.Layout.Location,
			ProcessorID:     cfg.Layout.ProcessorID,
			CredentialsFile: cfg.Layout.CredentialsFile,
		})
		if err != nil {
			return nil, err
		}
		p.annotator = annotator
	}

	p.registry.Register(format.PDF, pdfdoc.New(logger))
	p.registry.Register(format.DOCX, docx.New(logger))
	p.registry.Register(format.PPTX, pptx.New(logger))
	p.registry.Register(format.Text, textdoc.New(logger))

	// The image extractor is registered even without an OCR engine so
	// image files stay inside the allow-list; extracting one then fails
	// with an extraction error, not a format rejection.
	imgOpts := []imgdoc.Option{
		imgdoc.WithThresholds(cfg.OCR.AcceptThreshold, cfg.OCR.HandwritingThreshold),
	}
	if p.annotator != nil {
		imgOpts = append(imgOpts, imgdoc.WithAnnotator(p.annotator))
	}
	p.registry.Register(format.Image, imgdoc.New(p.engine, logger, imgOpts...))

	return p, nil
}

// Capabilities reports which formats this pipeline can process. Image
// processing needs an OCR engine.
func (p *Pipeline) Capabilities() map[string]bool {
	caps := make(map[string]bool)
	for _, f := range []format.Format{format.PDF, format.DOCX, format.PPTX, format.Image, format.Text} {
		_, ok := p.registry.Lookup(f)
		if f == format.Image {
			ok = ok && p.engine != nil
		}
		caps[f.String()] = ok
	}
	return caps
}

// Close releases process-scoped resources.
func (p *Pipeline) Close() error {
	var errs []error
	if p.engine != nil {
		errs = append(errs, p.engine.Close())
	}
	if p.annotator != nil {
		errs = append(errs, p.annotator.Close())
	}
	return errors.Join(errs...)
}

// Process extracts the file at path into a normalized document. Every
// element is tagged with its detected language, and the document
// carries file type and size metadata.
func (p *Pipeline) Process(ctx context.Context, path string) (*model.ProcessedDocument, error) {
	start := time.Now()

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !format.Supported(path) {
		return nil, ErrUnsupportedFormat
	}
	f := format.Detect(path)
	extractor, ok := p.registry.Lookup(f)
	if !ok {
		return nil, ErrUnsupportedFormat
	}

	if mf := sniffFormat(path); mf != format.Unknown && mf != f {
		p.logger.Warn("file content does not match extension",
			zap.String("path", path),
			zap.String("extension_format", f.String()),
			zap.String("content_format", mf.String()))
	}

	result, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, &ExtractionError{Filename: path, Stage: f.String() + " extraction", Err: err}
	}

	doc := model.NewProcessedDocument(path)
	doc.TotalPages = result.PageCount
	for _, el := range result.Elements {
		el.Language = lang.Normalize(lang.Classify(el.Text))
		doc.AddElement(el)
	}
	doc.Metadata[model.MetaFileType] = f.String()
	doc.Metadata[model.MetaSizeBytes] = info.Size()

	p.logger.Info("document processed",
		zap.String("path", path),
		zap.String("format", f.String()),
		zap.Int("pages", doc.TotalPages),
		zap.Int("elements", len(doc.Elements)),
		zap.Duration("elapsed", time.Since(start)))

	return doc, nil
}

// sniffFormat reads the leading bytes of a file and returns the format
// their magic numbers indicate, when they indicate any at all.
func sniffFormat(path string) format.Format {
	f, err := os.Open(path)
	if err != nil {
		return format.Unknown
	}
	defer f.Close()

	buf := make([]byte, 8)
	n, _ := f.Read(buf)
	return format.DetectFromMagic(buf[:n])
}

// GetDocumentStats aggregates element statistics for a processed
// document.
func (p *Pipeline) GetDocumentStats(doc *model.ProcessedDocument) model.Stats {
	return model.ComputeStats(doc)
}
