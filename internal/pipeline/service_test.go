package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spherical/pdf-converter/internal/config"
	"github.com/spherical/pdf-converter/internal/domain"
)

func writeInputPDFs(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4"), 0o644))
	}
}

func serviceConfig(t *testing.T, outDir string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.Dir = outDir
	cfg.Selection.Seed = 1
	cfg.Conversion.Workers = 2
	return cfg
}

func passthroughConverter() *stubConverter {
	return &stubConverter{fn: func(ctx context.Context, path string) (*domain.MarkdownDocument, error) {
		if strings.Contains(path, "broken") {
			return nil, fmt.Errorf("parse: %w", domain.ErrCorrupt)
		}
		return okDoc("body of " + filepath.Base(path)), nil
	}}
}

func TestServiceRunAllSuccess(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeInputPDFs(t, inDir, "a.pdf", "b.pdf", "c.pdf")

	svc := NewService(serviceConfig(t, outDir), passthroughConverter(), zerolog.Nop())
	report, err := svc.Run(context.Background(), inDir)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.RunID)
	assert.Equal(t, 3, report.Discovered)
	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 3, report.Succeeded)
	assert.Zero(t, report.Failed)
	assert.Equal(t, 2, report.Workers)
	require.Len(t, report.Documents, 3)

	for _, name := range []string{"a.md", "b.md", "c.md", "all_documents.md", "features.json", "processing_results.json"} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, "missing artifact %s", name)
	}
}

func TestServiceRunMixedFailures(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeInputPDFs(t, inDir, "a.pdf", "b.pdf", "broken.pdf")

	svc := NewService(serviceConfig(t, outDir), passthroughConverter(), zerolog.Nop())
	report, err := svc.Run(context.Background(), inDir)
	require.NoError(t, err, "per-document failures must not fail the run")

	assert.Equal(t, 3, report.Attempted)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)

	combined, err := os.ReadFile(filepath.Join(outDir, "all_documents.md"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(combined), "## "))
	assert.NotContains(t, string(combined), "broken.pdf")

	var index domain.FeatureIndex
	data, err := os.ReadFile(filepath.Join(outDir, "features.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &index))
	assert.Len(t, index.Documents, 2)

	var persisted domain.BatchReport
	data, err = os.ReadFile(filepath.Join(outDir, "processing_results.json"))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &persisted))
	assert.Equal(t, report.Succeeded, persisted.Succeeded)
	assert.Equal(t, report.Failed, persisted.Failed)

	_, err = os.Stat(filepath.Join(outDir, "broken.md"))
	assert.True(t, errors.Is(err, os.ErrNotExist), "failed document must not produce a markdown file")
}

func TestServiceRunMissingInputDirIsFatal(t *testing.T) {
	outDir := filepath.Join(t.TempDir(), "out")

	svc := NewService(serviceConfig(t, outDir), passthroughConverter(), zerolog.Nop())
	report, err := svc.Run(context.Background(), filepath.Join(t.TempDir(), "absent"))

	require.Error(t, err)
	assert.Nil(t, report)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrorTypeInput, de.Type)

	_, statErr := os.Stat(outDir)
	assert.True(t, errors.Is(statErr, os.ErrNotExist), "fatal runs must not leave artifacts")
}

func TestServiceRunEmptyInputDirIsFatal(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")

	svc := NewService(serviceConfig(t, outDir), passthroughConverter(), zerolog.Nop())
	_, err := svc.Run(context.Background(), inDir)

	require.Error(t, err)
	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrorTypeInput, de.Type)

	_, statErr := os.Stat(outDir)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestServiceRunOutputFailureIsFatal(t *testing.T) {
	inDir := t.TempDir()
	writeInputPDFs(t, inDir, "a.pdf")

	base := t.TempDir()
	blocked := filepath.Join(base, "out")
	require.NoError(t, os.WriteFile(blocked, []byte("occupied"), 0o644))

	svc := NewService(serviceConfig(t, blocked), passthroughConverter(), zerolog.Nop())
	report, err := svc.Run(context.Background(), inDir)

	require.Error(t, err)
	assert.Nil(t, report)

	var de *domain.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, domain.ErrorTypeOutput, de.Type)
}

func TestServiceHooks(t *testing.T) {
	inDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "out")
	writeInputPDFs(t, inDir, "a.pdf", "b.pdf", "c.pdf")

	svc := NewService(serviceConfig(t, outDir), passthroughConverter(), zerolog.Nop())

	var selected, discovered, resultCalls int
	svc.OnSelect(func(docs []domain.Document, d int) {
		selected, discovered = len(docs), d
	})
	svc.OnResult(func(res domain.DocumentResult) {
		resultCalls++
	})

	_, err := svc.Run(context.Background(), inDir)
	require.NoError(t, err)

	assert.Equal(t, 3, selected)
	assert.Equal(t, 3, discovered)
	assert.Equal(t, 3, resultCalls)
}

func TestServiceSeedMakesSelectionReproducible(t *testing.T) {
	inDir := t.TempDir()
	writeInputPDFs(t, inDir, "a.pdf", "b.pdf", "c.pdf", "d.pdf", "e.pdf", "f.pdf")

	runNames := func(outDir string) []string {
		cfg := serviceConfig(t, outDir)
		cfg.Selection.SampleSize = 3
		cfg.Selection.Seed = 42

		svc := NewService(cfg, passthroughConverter(), zerolog.Nop())
		report, err := svc.Run(context.Background(), inDir)
		require.NoError(t, err)

		names := make([]string, 0, len(report.Documents))
		for _, rec := range report.Documents {
			names = append(names, rec.Name)
		}
		return names
	}

	first := runNames(filepath.Join(t.TempDir(), "out1"))
	second := runNames(filepath.Join(t.TempDir(), "out2"))
	assert.Equal(t, first, second)
}
