// Package config loads pipeline configuration from file, environment
// and defaults.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the document pipeline.
type Config struct {
	OCR       OCRConfig       `mapstructure:"ocr"`
	Inference InferenceConfig `mapstructure:"inference"`
	Layout    LayoutConfig    `mapstructure:"layout"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// OCRConfig holds OCR engine settings.
type OCRConfig struct {
	Languages            []string `mapstructure:"languages"`
	AcceptThreshold      float64  `mapstructure:"accept_threshold"`
	HandwritingThreshold float64  `mapstructure:"handwriting_threshold"`
}

// InferenceConfig holds model orchestration settings.
type InferenceConfig struct {
	ChunkSize    int `mapstructure:"chunk_size"`
	WindowSize   int `mapstructure:"window_size"`
	Concurrency  int `mapstructure:"concurrency"`
	EmbeddingDim int `mapstructure:"embedding_dim"`
}

// LayoutConfig holds Google Document AI settings. Layout analysis is
// enabled when all three identifiers are set.
type LayoutConfig struct {
	ProjectID       string `mapstructure:"project_id"`
	Location        string `mapstructure:"location"`
	ProcessorID     string `mapstructure:"processor_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Enabled reports whether layout analysis is fully configured.
func (l LayoutConfig) Enabled() bool {
	return l.ProjectID != "" && l.Location != "" && l.ProcessorID != ""
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Defaults alone never fail to load.
		panic(err)
	}
	return cfg
}

// Load reads configuration from the optional file at configPath,
// overlaid with POLYDOC_* environment variables on top of defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		if _, err := os.Stat(configPath); err != nil {
			return nil, fmt.Errorf("config file: %w", err)
		}
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Environment variables (POLYDOC_OCR_ACCEPT_THRESHOLD, etc.)
	v.SetEnvPrefix("POLYDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ocr.languages", []string{"eng"})
	v.SetDefault("ocr.accept_threshold", 0.5)
	v.SetDefault("ocr.handwriting_threshold", 0.8)

	v.SetDefault("inference.chunk_size", 1000)
	v.SetDefault("inference.window_size", 2000)
	v.SetDefault("inference.concurrency", 4)
	v.SetDefault("inference.embedding_dim", 384)

	v.SetDefault("layout.location", "eu")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.development", false)
}

func validate(cfg *Config) error {
	if cfg.OCR.AcceptThreshold < 0 || cfg.OCR.AcceptThreshold > 1 {
		return fmt.Errorf("ocr.accept_threshold must be in [0, 1], got %v", cfg.OCR.AcceptThreshold)
	}
	if cfg.OCR.HandwritingThreshold < 0 || cfg.OCR.HandwritingThreshold > 1 {
		return fmt.Errorf("ocr.handwriting_threshold must be in [0, 1], got %v", cfg.OCR.HandwritingThreshold)
	}
	if cfg.OCR.HandwritingThreshold < cfg.OCR.AcceptThreshold {
		return fmt.Errorf("ocr.handwriting_threshold must not be below ocr.accept_threshold")
	}
	if cfg.Inference.ChunkSize <= 0 {
		return fmt.Errorf("inference.chunk_size must be positive, got %d", cfg.Inference.ChunkSize)
	}
	if cfg.Inference.WindowSize <= 0 {
		return fmt.Errorf("inference.window_size must be positive, got %d", cfg.Inference.WindowSize)
	}
	if cfg.Inference.Concurrency <= 0 {
		return fmt.Errorf("inference.concurrency must be positive, got %d", cfg.Inference.Concurrency)
	}
	return nil
}
