//go:build !ocr

// Package ocr provides OCR (Optical Character Recognition) for extracting
// positioned text regions from raster images.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All functions return ErrOCRNotEnabled.
//
// To enable OCR, rebuild with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"context"
)

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
// To enable OCR, rebuild with: go build -tags ocr
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client. It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// SetLanguages returns an error indicating OCR support is not enabled.
func (c *Client) SetLanguages(langs ...string) error {
	return ErrOCRNotEnabled
}

// Regions returns an error indicating OCR support is not enabled.
func (c *Client) Regions(ctx context.Context, path string) ([]Region, error) {
	return nil, ErrOCRNotEnabled
}
