// Package format provides file format detection for the document pipeline.
package format

import (
	"path/filepath"
	"strings"
)

// Format represents a supported document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// PPTX indicates a Microsoft PowerPoint (.pptx) document.
	PPTX
	// Image indicates a raster image processed through OCR.
	Image
	// Text indicates a plain-text variant (.txt, .md, .html).
	Text
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case PDF:
		return "pdf"
	case DOCX:
		return "docx"
	case PPTX:
		return "pptx"
	case Image:
		return "image"
	case Text:
		return "text"
	default:
		return "unknown"
	}
}

// extensions is the fixed allow-list. Dispatch is by extension,
// case-insensitive; anything else is rejected up front.
var extensions = map[string]Format{
	".pdf":      PDF,
	".docx":     DOCX,
	".pptx":     PPTX,
	".png":      Image,
	".jpg":      Image,
	".jpeg":     Image,
	".tiff":     Image,
	".bmp":      Image,
	".txt":      Text,
	".text":     Text,
	".md":       Text,
	".markdown": Text,
	".html":     Text,
	".htm":      Text,
}

// Detect determines file format from the filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	if f, ok := extensions[ext]; ok {
		return f
	}
	return Unknown
}

// Supported reports whether the filename carries an allow-listed extension.
func Supported(filename string) bool {
	return Detect(filename) != Unknown
}

// Extensions returns the allow-listed extensions for a format.
func Extensions(f Format) []string {
	var out []string
	for ext, ff := range extensions {
		if ff == f {
			out = append(out, ext)
		}
	}
	return out
}

// DetectFromMagic checks leading file bytes to sanity-check a format.
// Returns Unknown when magic bytes alone cannot decide (ZIP containers
// can be DOCX or PPTX; plain text has no signature).
func DetectFromMagic(data []byte) Format {
	if len(data) < 4 {
		return Unknown
	}

	// PDF magic: %PDF
	if data[0] == '%' && data[1] == 'P' && data[2] == 'D' && data[3] == 'F' {
		return PDF
	}

	// PNG magic
	if data[0] == 0x89 && data[1] == 'P' && data[2] == 'N' && data[3] == 'G' {
		return Image
	}

	// JPEG magic
	if data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF {
		return Image
	}

	// BMP magic
	if data[0] == 'B' && data[1] == 'M' {
		return Image
	}

	// TIFF magic, both byte orders
	if (data[0] == 'I' && data[1] == 'I' && data[2] == 0x2A) ||
		(data[0] == 'M' && data[1] == 'M' && data[2] == 0x00) {
		return Image
	}

	return Unknown
}
