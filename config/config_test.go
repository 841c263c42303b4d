package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"eng"}, cfg.OCR.Languages)
	assert.Equal(t, 0.5, cfg.OCR.AcceptThreshold)
	assert.Equal(t, 0.8, cfg.OCR.HandwritingThreshold)
	assert.Equal(t, 1000, cfg.Inference.ChunkSize)
	assert.Equal(t, 2000, cfg.Inference.WindowSize)
	assert.Equal(t, 4, cfg.Inference.Concurrency)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Layout.Enabled())
}

func TestLoad_FromFile(t *testing.T) {
	content := `ocr:
  languages: [eng, deu]
  accept_threshold: 0.6
inference:
  chunk_size: 800
layout:
  project_id: my-project
  location: us
  processor_id: proc-123
`
	path := filepath.Join(t.TempDir(), "polydoc.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"eng", "deu"}, cfg.OCR.Languages)
	assert.Equal(t, 0.6, cfg.OCR.AcceptThreshold)
	assert.Equal(t, 800, cfg.Inference.ChunkSize)
	// Unset keys keep their defaults.
	assert.Equal(t, 2000, cfg.Inference.WindowSize)
	assert.True(t, cfg.Layout.Enabled())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("POLYDOC_INFERENCE_CHUNK_SIZE", "1500")
	t.Setenv("POLYDOC_LOGGING_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1500, cfg.Inference.ChunkSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_InvalidThreshold(t *testing.T) {
	t.Setenv("POLYDOC_OCR_ACCEPT_THRESHOLD", "1.5")

	_, err := Load("")
	assert.Error(t, err)
}

func TestLoad_ThresholdOrdering(t *testing.T) {
	content := `ocr:
  accept_threshold: 0.9
  handwriting_threshold: 0.6
`
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
