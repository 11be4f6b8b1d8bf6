// Package output persists batch artifacts to the output directory.
package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spherical/pdf-converter/internal/aggregate"
	"github.com/spherical/pdf-converter/internal/domain"
)

// Artifact names within the output directory.
const (
	CombinedFileName = "all_documents.md"
	FeaturesFileName = "features.json"
	ReportFileName   = "processing_results.json"
)

// Writer persists the artifacts of a run under a single directory.
type Writer struct {
	dir string
}

// NewWriter creates a writer targeting dir. The directory is created on
// the first write if it does not exist.
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the destination directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteBatch persists every artifact of a completed batch: one markdown
// file per converted document, the combined markdown, the feature index,
// and the processing report. Each file lands atomically via a temp file
// and rename, so no partial artifact ever exists at a final path. Any
// failure is fatal for the run.
func (w *Writer) WriteBatch(batch *aggregate.Batch) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return domain.OutputWriteError(fmt.Sprintf("cannot create output folder: %s", w.dir), err)
	}

	for name, content := range batch.Files {
		if err := w.writeFile(name, []byte(content)); err != nil {
			return err
		}
	}

	if err := w.writeFile(CombinedFileName, []byte(batch.Combined)); err != nil {
		return err
	}
	if err := w.writeJSON(FeaturesFileName, batch.Index); err != nil {
		return err
	}
	return w.writeJSON(ReportFileName, batch.Report)
}

// writeFile atomically writes data: temp file in the destination
// directory, fsync, then rename into place.
func (w *Writer) writeFile(name string, data []byte) error {
	tmp, err := os.CreateTemp(w.dir, ".pdf-converter-*")
	if err != nil {
		return domain.OutputWriteError(fmt.Sprintf("cannot create temp file for %s", name), err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return domain.OutputWriteError(fmt.Sprintf("cannot write %s", name), err)
	}
	if err := tmp.Sync(); err != nil {
		return domain.OutputWriteError(fmt.Sprintf("cannot sync %s", name), err)
	}
	if err := tmp.Close(); err != nil {
		return domain.OutputWriteError(fmt.Sprintf("cannot close temp file for %s", name), err)
	}
	if err := os.Rename(tmpName, filepath.Join(w.dir, name)); err != nil {
		return domain.OutputWriteError(fmt.Sprintf("cannot rename %s into place", name), err)
	}
	success = true
	return nil
}

func (w *Writer) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return domain.OutputWriteError(fmt.Sprintf("cannot encode %s", name), err)
	}
	return w.writeFile(name, data)
}
