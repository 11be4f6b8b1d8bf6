// Package aggregate folds per-document outcomes into batch artifacts.
package aggregate

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spherical/pdf-converter/internal/domain"
)

// Params carries run context into Build.
type Params struct {
	RunID       uuid.UUID
	Results     []domain.DocumentResult
	Discovered  int
	Workers     int
	OutputDir   string
	StartedAt   time.Time
	Instruction string
	Question    string
}

// Batch is the complete set of artifacts produced by one run.
type Batch struct {
	Report   *domain.BatchReport
	Index    *domain.FeatureIndex
	Combined string            // concatenated markdown of all successes
	Files    map[string]string // artifact name -> markdown content
}

// Build folds results into batch artifacts. It restores selection order
// first, so artifacts come out identical regardless of completion order.
// Failed documents are recorded in the report but contribute nothing to
// the combined markdown or the feature index. Build is a pure fold; it
// runs only after the worker pool has fully drained.
func Build(p Params) *Batch {
	results := make([]domain.DocumentResult, len(p.Results))
	copy(results, p.Results)
	sort.Slice(results, func(i, j int) bool {
		return results[i].Document.Index < results[j].Document.Index
	})

	completedAt := time.Now().UTC()
	report := &domain.BatchReport{
		RunID:       p.RunID,
		Discovered:  p.Discovered,
		Attempted:   len(results),
		Workers:     p.Workers,
		OutputDir:   p.OutputDir,
		StartedAt:   p.StartedAt,
		CompletedAt: completedAt,
		DurationMS:  completedAt.Sub(p.StartedAt).Milliseconds(),
		Documents:   make([]domain.DocumentRecord, 0, len(results)),
	}

	index := &domain.FeatureIndex{
		GeneratedAt: completedAt,
		Documents:   make(map[string]domain.FeatureEntry, len(results)),
	}

	files := make(map[string]string, len(results))
	var combined strings.Builder

	for _, res := range results {
		record := domain.DocumentRecord{
			Name:      res.Document.Name,
			Path:      res.Document.Path,
			Size:      res.Document.Size,
			Status:    res.Outcome.Status,
			ElapsedMS: res.Outcome.Elapsed.Milliseconds(),
		}

		if res.Outcome.Succeeded() {
			report.Succeeded++

			name := ArtifactName(res.Document.Name)
			record.MarkdownPath = filepath.Join(p.OutputDir, name)
			files[name] = res.Outcome.Markdown.Content

			fmt.Fprintf(&combined, "## %s\n\n%s\n\n---\n", res.Document.Name, res.Outcome.Markdown.Content)

			index.Documents[res.Document.Name] = domain.FeatureEntry{
				MarkdownFile: name,
				Features:     res.Outcome.Markdown.Features,
				Messages:     payloadMessages(p.Instruction, p.Question, res.Outcome.Markdown.Content),
			}
		} else {
			report.Failed++
			record.ErrorKind = res.Outcome.ErrorKind
			record.Error = res.Outcome.ErrorMessage
		}

		report.Documents = append(report.Documents, record)
	}

	return &Batch{
		Report:   report,
		Index:    index,
		Combined: combined.String(),
		Files:    files,
	}
}

// ArtifactName maps a source PDF name to its markdown artifact name.
// The extension is dropped and spaces become underscores, so
// "setup guide.pdf" yields "setup_guide.md".
func ArtifactName(pdfName string) string {
	stem := strings.TrimSuffix(pdfName, filepath.Ext(pdfName))
	return strings.ReplaceAll(stem, " ", "_") + ".md"
}

// payloadMessages builds the request payload the load-testing client
// replays verbatim. Backslashes in the markdown are doubled so the
// content survives templating on the consumer side.
func payloadMessages(instruction, question, markdown string) []domain.Message {
	escaped := strings.ReplaceAll(markdown, `\`, `\\`)
	return []domain.Message{
		{
			Role:    "assistant",
			Content: instruction,
		},
		{
			Role:    "user",
			Content: fmt.Sprintf("%s\n\nSupporting documents in markdown:\n\n%s", question, escaped),
		},
	}
}
