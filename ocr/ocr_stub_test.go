//go:build !ocr

package ocr

import (
	"context"
	"errors"
	"testing"
)

func TestStubNew(t *testing.T) {
	_, err := New()
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("New() error = %v, want ErrOCRNotEnabled", err)
	}
}

func TestStubOperations(t *testing.T) {
	var c *Client

	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}

	c = &Client{}
	if err := c.SetLanguages("eng"); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("SetLanguages() error = %v, want ErrOCRNotEnabled", err)
	}
	if _, err := c.Regions(context.Background(), "x.png"); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("Regions() error = %v, want ErrOCRNotEnabled", err)
	}
}
