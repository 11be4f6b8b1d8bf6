// Package pdf converts PDF files to markdown using go-fitz.
package pdf

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"

	"github.com/spherical/pdf-converter/internal/domain"
	"github.com/spherical/pdf-converter/internal/markdown"
)

// Converter implements PDF to markdown conversion using go-fitz.
type Converter struct {
	detector *markdown.Detector
}

// NewConverter creates a new PDF converter instance.
func NewConverter() *Converter {
	return &Converter{
		detector: markdown.NewDetector(),
	}
}

// ConvertFile converts a single PDF file to markdown and detects the
// structural features of the result. Structural failures wrap
// domain.ErrCorrupt; a document with no extractable text is not an
// error and yields empty content.
func (c *Converter) ConvertFile(ctx context.Context, path string) (*domain.MarkdownDocument, error) {
	if err := ValidatePDFPath(path); err != nil {
		return nil, err
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, domain.ConversionError(fmt.Sprintf("failed to open PDF: %s", filepath.Base(path)), fmt.Errorf("%w: %w", domain.ErrCorrupt, err))
	}
	defer doc.Close()

	pageCount := doc.NumPage()
	if pageCount == 0 {
		return nil, domain.ConversionError(fmt.Sprintf("PDF has no pages: %s", filepath.Base(path)), domain.ErrCorrupt)
	}

	pages := make([]string, 0, pageCount)
	for pageNum := 0; pageNum < pageCount; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		text, err := doc.Text(pageNum)
		if err != nil {
			return nil, domain.ConversionError(fmt.Sprintf("failed to extract text from page %d", pageNum+1), err)
		}
		pages = append(pages, strings.TrimSpace(text))
	}

	content := strings.Join(pages, "\n\n")
	feats := c.detector.Detect([]byte(content))
	feats.Pages = pageCount

	return &domain.MarkdownDocument{
		Content:  content,
		Features: feats,
	}, nil
}
