package mock

import "github.com/docyard/docyard"

var _ docyard.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of docyard.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*docyard.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*docyard.ExtractResult, error) {
	return e.ExtractFn(html)
}

var _ docyard.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of docyard.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html, baseURL string) ([]string, error)
}

func (e *LinkExtractor) ExtractLinks(html, baseURL string) ([]string, error) {
	return e.ExtractLinksFn(html, baseURL)
}
