package polydoc

import (
	"os"
	"time"

	"github.com/polydocai/polydoc/format"
)

// Estimate is a pre-flight processing forecast for a file.
type Estimate struct {
	Format     format.Format `json:"-"`
	FormatName string        `json:"format"`
	SizeBytes  int64         `json:"size_bytes"`
	Complexity string        `json:"complexity"`
	Duration   time.Duration `json:"estimated_duration"`
}

// Per-format processing rates, in bytes per second. OCR-bound image
// work is far slower than structured formats.
var formatRates = map[format.Format]int64{
	format.PDF:   2 << 20,
	format.DOCX:  8 << 20,
	format.PPTX:  8 << 20,
	format.Text:  32 << 20,
	format.Image: 256 << 10,
}

const minEstimate = 50 * time.Millisecond

// EstimateProcessing predicts how expensive processing a file will be
// from its size and format, without reading its content.
func (p *Pipeline) EstimateProcessing(path string) (Estimate, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Estimate{}, ErrNotFound
		}
		return Estimate{}, err
	}

	f := format.Detect(path)
	if _, ok := p.registry.Lookup(f); !ok {
		return Estimate{}, ErrUnsupportedFormat
	}

	rate := formatRates[f]
	if rate == 0 {
		rate = 1 << 20
	}

	dur := time.Duration(float64(info.Size()) / float64(rate) * float64(time.Second))
	if dur < minEstimate {
		dur = minEstimate
	}

	return Estimate{
		Format:     f,
		FormatName: f.String(),
		SizeBytes:  info.Size(),
		Complexity: complexityBucket(info.Size(), f),
		Duration:   dur,
	}, nil
}

// complexityBucket classifies expected processing effort.
func complexityBucket(size int64, f format.Format) string {
	threshold := int64(5 << 20)
	if f == format.Image {
		threshold = 512 << 10
	}

	switch {
	case size < threshold/5:
		return "low"
	case size < threshold:
		return "medium"
	default:
		return "high"
	}
}
