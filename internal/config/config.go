// Package config provides unified configuration loading for the
// converter. Supports YAML files, environment variables, and
// programmatic overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/spherical/pdf-converter/internal/domain"
)

// Default payload strings embedded in the feature index messages.
const (
	DefaultInstruction = "You are a helpful assistant that can answer questions about IT support based on the documents provided in markdown."
	DefaultQuestion    = "How do I clear paper jams in the copier?"
)

// Config holds all configuration for the converter.
type Config struct {
	Selection  SelectionConfig  `yaml:"selection"`
	Conversion ConversionConfig `yaml:"conversion"`
	Output     OutputConfig     `yaml:"output"`
	Payload    PayloadConfig    `yaml:"payload"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// SelectionConfig holds document sampling settings.
type SelectionConfig struct {
	SampleSize int   `yaml:"sample_size"`
	Seed       int64 `yaml:"seed"` // 0 seeds from the clock
}

// ConversionConfig holds worker pool settings.
type ConversionConfig struct {
	Workers int           `yaml:"workers"`
	Timeout time.Duration `yaml:"timeout"` // 0 disables the per-document timeout
}

// UnmarshalYAML decodes the conversion section. The timeout accepts a
// duration string ("30s", "250ms") or integer nanoseconds; absent keys
// keep their current values.
func (c *ConversionConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Workers *int       `yaml:"workers"`
		Timeout *yaml.Node `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Workers != nil {
		c.Workers = *raw.Workers
	}
	if raw.Timeout == nil {
		return nil
	}

	var nanos int64
	if err := raw.Timeout.Decode(&nanos); err == nil {
		c.Timeout = time.Duration(nanos)
		return nil
	}

	var text string
	if err := raw.Timeout.Decode(&text); err != nil {
		return fmt.Errorf("invalid conversion timeout: %w", err)
	}
	d, err := time.ParseDuration(text)
	if err != nil {
		return fmt.Errorf("invalid conversion timeout %q: %w", text, err)
	}
	c.Timeout = d
	return nil
}

// OutputConfig holds artifact destination settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// PayloadConfig holds the message strings embedded in the feature index.
type PayloadConfig struct {
	Instruction string `yaml:"instruction"`
	Question    string `yaml:"question"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads configuration from a YAML file and applies environment
// overrides. An empty path loads defaults only.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, domain.ConfigError(fmt.Sprintf("cannot read config file: %s", path), err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, domain.ConfigError(fmt.Sprintf("cannot parse config file: %s", path), err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, domain.ConfigError("invalid configuration", err)
	}

	return cfg, nil
}

// DefaultConfig returns a configuration with the conventional defaults:
// five sampled documents, a single worker, no per-document timeout.
func DefaultConfig() *Config {
	return &Config{
		Selection: SelectionConfig{
			SampleSize: 5,
			Seed:       0,
		},
		Conversion: ConversionConfig{
			Workers: 1,
			Timeout: 0,
		},
		Output: OutputConfig{
			Dir: "markdown_output",
		},
		Payload: PayloadConfig{
			Instruction: DefaultInstruction,
			Question:    DefaultQuestion,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.Selection,
		validation.Field(&c.Selection.SampleSize, validation.Required, validation.Min(1)),
	); err != nil {
		return fmt.Errorf("selection: %w", err)
	}

	if err := validation.ValidateStruct(&c.Conversion,
		validation.Field(&c.Conversion.Workers, validation.Required, validation.Min(1)),
		validation.Field(&c.Conversion.Timeout, validation.Min(time.Duration(0))),
	); err != nil {
		return fmt.Errorf("conversion: %w", err)
	}

	if err := validation.ValidateStruct(&c.Output,
		validation.Field(&c.Output.Dir, validation.Required),
	); err != nil {
		return fmt.Errorf("output: %w", err)
	}

	if err := validation.ValidateStruct(&c.Payload,
		validation.Field(&c.Payload.Instruction, validation.Required),
		validation.Field(&c.Payload.Question, validation.Required),
	); err != nil {
		return fmt.Errorf("payload: %w", err)
	}

	if err := validation.ValidateStruct(&c.Logging,
		validation.Field(&c.Logging.Level, validation.Required,
			validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")),
		validation.Field(&c.Logging.Format, validation.Required,
			validation.In("console", "json")),
	); err != nil {
		return fmt.Errorf("logging: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PDF_CONVERTER_SAMPLE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Selection.SampleSize = n
		}
	}

	if v := os.Getenv("PDF_CONVERTER_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Selection.Seed = n
		}
	}

	if v := os.Getenv("PDF_CONVERTER_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Conversion.Workers = n
		}
	}

	if v := os.Getenv("PDF_CONVERTER_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Conversion.Timeout = d
		}
	}

	if v := os.Getenv("PDF_CONVERTER_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
