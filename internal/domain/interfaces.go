package domain

import "context"

// Converter defines the interface for the opaque PDF to markdown primitive.
// Implementations block until the document is converted or ctx expires;
// the pipeline never inspects how the markdown was produced.
type Converter interface {
	// ConvertFile converts one PDF file into a markdown document.
	ConvertFile(ctx context.Context, path string) (*MarkdownDocument, error)
}
