package docyard

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title, best-effort.
	Title string

	// ContentHTML is the primary content as clean HTML. Empty means no
	// content matched: the page is a dead end, not an error.
	ContentHTML string
}

// Extractor pulls primary content out of HTML pages, removing boilerplate.
type Extractor interface {
	// Extract processes raw HTML and returns the primary content.
	Extract(html string) (*ExtractResult, error)
}

// LinkExtractor discovers outbound hyperlinks in HTML pages.
type LinkExtractor interface {
	// ExtractLinks resolves every hyperlink target against baseURL and
	// returns absolute, fragment-free, de-duplicated candidates. Scope
	// filtering (origin, depth, patterns) is the caller's concern.
	ExtractLinks(html, baseURL string) ([]string, error)
}
