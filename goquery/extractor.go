// Package goquery provides CSS-selector based content and link extraction
// from documentation pages.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/docyard/docyard"
)

// Ensure Extractor implements docyard.Extractor at compile time.
var _ docyard.Extractor = (*Extractor)(nil)

// defaultContentSelectors cover the containers common documentation
// generators render their content into, tried in order.
var defaultContentSelectors = []string{
	"main",
	"article",
	"[role=main]",
	".content",
	".documentation",
	".markdown-body",
	"#content",
}

// defaultTitleSelectors locate the page title, tried in order.
var defaultTitleSelectors = []string{
	"h1",
	"title",
}

// Extractor pulls primary content out of HTML using CSS selectors.
// Selectors are fixed at construction; the first selector that matches a
// non-empty element wins. A page where no selector matches yields an
// empty result, which callers treat as a dead end rather than an error.
type Extractor struct {
	contentSelectors []string
	titleSelectors   []string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithContentSelector prepends a site-specific content selector to the
// default list so it is tried first.
func WithContentSelector(selector string) Option {
	return func(e *Extractor) {
		if selector != "" {
			e.contentSelectors = append([]string{selector}, e.contentSelectors...)
		}
	}
}

// WithTitleSelector prepends a site-specific title selector to the
// default list so it is tried first.
func WithTitleSelector(selector string) Option {
	return func(e *Extractor) {
		if selector != "" {
			e.titleSelectors = append([]string{selector}, e.titleSelectors...)
		}
	}
}

// NewExtractor creates a selector-based Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{
		contentSelectors: defaultContentSelectors,
		titleSelectors:   defaultTitleSelectors,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the first matching content container's inner HTML and a
// best-effort title.
func (e *Extractor) Extract(html string) (*docyard.ExtractResult, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, docyard.Errorf(docyard.EINVALID, "parsing HTML: %v", err)
	}

	result := &docyard.ExtractResult{}

	for _, selector := range e.titleSelectors {
		if title := strings.TrimSpace(doc.Find(selector).First().Text()); title != "" {
			result.Title = title
			break
		}
	}

	for _, selector := range e.contentSelectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}
		inner, err := sel.Html()
		if err != nil {
			continue
		}
		if strings.TrimSpace(inner) == "" {
			continue
		}
		result.ContentHTML = inner
		break
	}

	return result, nil
}
