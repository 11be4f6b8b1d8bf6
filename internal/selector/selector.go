// Package selector discovers PDF documents in a folder and draws a
// random sample for processing.
package selector

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spherical/pdf-converter/internal/domain"
)

// Selector scans an input folder and samples documents without
// replacement.
type Selector struct {
	sampleSize int
	rng        *rand.Rand
}

// New creates a selector that draws up to sampleSize documents. A nil
// rng gets a time-seeded source; pass a seeded rng for reproducible
// selections.
func New(sampleSize int, rng *rand.Rand) *Selector {
	if sampleSize < 1 {
		sampleSize = 1
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Selector{
		sampleSize: sampleSize,
		rng:        rng,
	}
}

// Select scans inputDir (non-recursive) for PDF files and returns a
// random sample along with the total number discovered. When fewer
// documents exist than the sample size, all of them are selected, still
// in random order. Document indices record the selection order.
func (s *Selector) Select(inputDir string) ([]domain.Document, int, error) {
	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return nil, 0, domain.InputNotFoundError(fmt.Sprintf("cannot read input folder: %s", inputDir), err)
	}

	candidates := make([]domain.Document, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.ToLower(filepath.Ext(entry.Name())) != ".pdf" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		candidates = append(candidates, domain.Document{
			Path: filepath.Join(inputDir, entry.Name()),
			Name: entry.Name(),
			Size: info.Size(),
		})
	}

	discovered := len(candidates)
	if discovered == 0 {
		return nil, 0, domain.InputNotFoundError(fmt.Sprintf("no PDF files found in %s", inputDir), nil)
	}

	n := s.sampleSize
	if n > discovered {
		n = discovered
	}

	// Partial Fisher-Yates: the first n slots end up holding a uniform
	// sample without replacement.
	for i := 0; i < n; i++ {
		j := i + s.rng.Intn(discovered-i)
		candidates[i], candidates[j] = candidates[j], candidates[i]
	}

	selected := candidates[:n]
	for i := range selected {
		selected[i].Index = i
	}

	return selected, discovered, nil
}
