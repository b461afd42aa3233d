package docyard

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be clean HTML (e.g., from an Extractor).
	// Code blocks survive conversion as fenced blocks.
	Convert(html string) (string, error)
}
