// Package trafilatura adapts go-trafilatura as a boilerplate-stripping
// content extractor for article-style pages.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/docyard/docyard"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements docyard.Extractor at compile time.
var _ docyard.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to pull the main content out of HTML,
// discarding navigation, sidebars and footers automatically. Use it for
// sites where no content selector is known.
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

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	var contentHTML string
	if result.ContentNode != nil {
		contentHTML, err = renderNode(result.ContentNode)
		if err != nil {
			return nil, err
		}
	}

	return &docyard.ExtractResult{
		Title:       result.Metadata.Title,
		ContentHTML: contentHTML,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
