package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/pdf-converter/internal/domain"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 5, cfg.Selection.SampleSize)
	assert.Zero(t, cfg.Selection.Seed)
	assert.Equal(t, 1, cfg.Conversion.Workers)
	assert.Zero(t, cfg.Conversion.Timeout)
	assert.Equal(t, "markdown_output", cfg.Output.Dir)
	assert.Equal(t, DefaultInstruction, cfg.Payload.Instruction)
	assert.Equal(t, DefaultQuestion, cfg.Payload.Question)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)

	require.NoError(t, cfg.Validate())
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
selection:
  sample_size: 3
  seed: 42
conversion:
  workers: 4
  timeout: 250ms
output:
  dir: converted
payload:
  question: "Where is the manual?"
logging:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Selection.SampleSize)
	assert.Equal(t, int64(42), cfg.Selection.Seed)
	assert.Equal(t, 4, cfg.Conversion.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.Conversion.Timeout)
	assert.Equal(t, "converted", cfg.Output.Dir)
	assert.Equal(t, "Where is the manual?", cfg.Payload.Question)
	// Untouched fields keep their defaults.
	assert.Equal(t, DefaultInstruction, cfg.Payload.Instruction)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadTimeoutForms(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    time.Duration
		wantErr bool
	}{
		{"duration string", "conversion:\n  timeout: 30s\n", 30 * time.Second, false},
		{"nanosecond integer", "conversion:\n  timeout: 250000000\n", 250 * time.Millisecond, false},
		{"absent keeps default", "conversion:\n  workers: 2\n", 0, false},
		{"garbage", "conversion:\n  timeout: soonish\n", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			cfg, err := Load(path)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Conversion.Timeout)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrorTypeConfig, de.Type)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("selection: [not a map"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrorTypeConfig, de.Type)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PDF_CONVERTER_SAMPLE_SIZE", "7")
	t.Setenv("PDF_CONVERTER_SEED", "123")
	t.Setenv("PDF_CONVERTER_WORKERS", "6")
	t.Setenv("PDF_CONVERTER_TIMEOUT", "2s")
	t.Setenv("PDF_CONVERTER_OUTPUT_DIR", "/tmp/converted")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Selection.SampleSize)
	assert.Equal(t, int64(123), cfg.Selection.Seed)
	assert.Equal(t, 6, cfg.Conversion.Workers)
	assert.Equal(t, 2*time.Second, cfg.Conversion.Timeout)
	assert.Equal(t, "/tmp/converted", cfg.Output.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestEnvOverridesIgnoreMalformedValues(t *testing.T) {
	t.Setenv("PDF_CONVERTER_WORKERS", "lots")
	t.Setenv("PDF_CONVERTER_TIMEOUT", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Conversion.Workers)
	assert.Zero(t, cfg.Conversion.Timeout)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sample size", func(c *Config) { c.Selection.SampleSize = 0 }},
		{"negative sample size", func(c *Config) { c.Selection.SampleSize = -1 }},
		{"zero workers", func(c *Config) { c.Conversion.Workers = 0 }},
		{"negative workers", func(c *Config) { c.Conversion.Workers = -2 }},
		{"negative timeout", func(c *Config) { c.Conversion.Timeout = -time.Second }},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }},
		{"empty instruction", func(c *Config) { c.Payload.Instruction = "" }},
		{"empty question", func(c *Config) { c.Payload.Question = "" }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }},
		{"unknown log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
