// Package config defines process configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a .env file, an optional YAML file and DECATHLON_* env vars.
// - Validation errors wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/okian/decathlon/internal/adapters/sink"
	"github.com/okian/decathlon/internal/adapters/source"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogJSON switches log output to JSON lines.
	LogJSON bool `koanf:"log_json"`

	// InputPath is the competitor file to read.
	InputPath string `koanf:"input_path"`

	// Delimiter is the single-character field separator of the input.
	Delimiter string `koanf:"delimiter"`

	// OutputFormat is one of json, jsonl, yaml, cbor, csv.
	OutputFormat string `koanf:"output_format"`

	// OutputPath is the result file; "-" writes to stdout.
	OutputPath string `koanf:"output_path"`

	// Serve keeps the process alive serving the ranked results over HTTP.
	Serve bool `koanf:"serve"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// MaxResultsLimit caps GET /results?limit.
	MaxResultsLimit int `koanf:"max_results_limit"`

	// MetricsTextfile, when set, receives a Prometheus textfile dump after a run.
	MetricsTextfile string `koanf:"metrics_textfile"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:        "info",
		InputPath:       "results.csv",
		Delimiter:       string(source.DefaultDelimiter),
		OutputFormat:    string(sink.FormatJSON),
		OutputPath:      "results.json",
		Addr:            ":9080",
		MaxResultsLimit: 100,
	}
}

// DelimiterRune returns the configured delimiter as a rune. Call after Validate.
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Format returns the parsed output format. Call after Validate.
func (c *Config) Format() sink.Format {
	f, _ := sink.ParseFormat(c.OutputFormat)
	return f
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.InputPath) == "" {
		return fmt.Errorf("%w: input_path must not be empty", ErrInvalidConfig)
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("%w: delimiter must be a single character, got %q", ErrInvalidConfig, c.Delimiter)
	}
	if err := source.ValidateDelimiter(c.DelimiterRune()); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := sink.ParseFormat(c.OutputFormat); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	}
	if c.Serve && c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty when serving", ErrInvalidConfig)
	}
	if c.MaxResultsLimit <= 0 {
		return fmt.Errorf("%w: max_results_limit must be positive, got %d", ErrInvalidConfig, c.MaxResultsLimit)
	}
	return nil
}
