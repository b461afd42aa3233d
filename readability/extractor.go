// Package readability adapts go-readability as an alternative content
// extractor. It tends to do better than trafilatura on pages that read
// like articles but confuse its heuristics, and worse on dense reference
// pages, so both stay available and the source config picks one.
package readability

import (
	"strings"

	"github.com/docyard/docyard"
	readability "github.com/go-shiori/go-readability"
)

// Ensure Extractor implements docyard.Extractor at compile time.
var _ docyard.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*docyard.ExtractResult, error) {
	if rawHTML == "" {
		return nil, docyard.Errorf(docyard.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, err
	}

	return &docyard.ExtractResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
