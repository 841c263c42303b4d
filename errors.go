package polydoc

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the input file does not exist.
var ErrNotFound = errors.New("file not found")

// ErrUnsupportedFormat is returned for files whose format has no
// registered extractor.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// ExtractionError wraps a failure in a specific stage of processing a
// file.
type ExtractionError struct {
	Filename string
	Stage    string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("processing %s: %s: %v", e.Filename, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
