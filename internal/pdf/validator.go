package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spherical/pdf-converter/internal/domain"
)

// ValidatePDFPath validates that a file path is valid and points to a
// readable PDF. Failures wrap domain.ErrUnreadable so callers can
// classify them without inspecting message text.
func ValidatePDFPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return domain.ConversionError("file path cannot be empty", domain.ErrUnreadable)
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.ConversionError(fmt.Sprintf("file does not exist: %s", path), fmt.Errorf("%w: %w", domain.ErrUnreadable, err))
		}
		return domain.ConversionError(fmt.Sprintf("cannot access file: %s", path), fmt.Errorf("%w: %w", domain.ErrUnreadable, err))
	}

	if info.IsDir() {
		return domain.ConversionError(fmt.Sprintf("path is a directory, not a file: %s", path), domain.ErrUnreadable)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".pdf" {
		return domain.ConversionError(fmt.Sprintf("file is not a PDF (has extension %q)", ext), domain.ErrUnreadable)
	}

	file, err := os.Open(path)
	if err != nil {
		return domain.ConversionError(fmt.Sprintf("cannot open file: %s", path), fmt.Errorf("%w: %w", domain.ErrUnreadable, err))
	}
	file.Close()

	return nil
}
