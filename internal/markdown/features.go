// Package markdown inspects converted documents for structural features.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/spherical/pdf-converter/internal/domain"
)

// Detector parses markdown and reports which structural features it contains.
type Detector struct {
	md goldmark.Markdown
}

// NewDetector creates a detector with GFM extensions enabled, so pipe
// tables and bare URLs are recognized.
func NewDetector() *Detector {
	return &Detector{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Detect parses source and returns its feature summary. Page count is
// not known at this layer and is left zero.
func (d *Detector) Detect(source []byte) domain.Features {
	feats := domain.Features{
		Words: len(strings.Fields(string(source))),
	}

	root := d.md.Parser().Parse(text.NewReader(source))
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case east.KindTable:
			feats.HasTables = true
		case ast.KindImage:
			feats.HasImages = true
		case ast.KindLink, ast.KindAutoLink:
			feats.HasLinks = true
		case ast.KindHeading:
			feats.Headings++
		}
		return ast.WalkContinue, nil
	})

	return feats
}
