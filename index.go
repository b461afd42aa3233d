package docyard

import "strings"

// Keyword derivation bounds.
const (
	// MaxKeywords caps the keyword list per index entry.
	MaxKeywords = 20
	// MinKeywordLen is the exclusive lower bound on keyword length.
	MinKeywordLen = 3
)

// IndexEntry is the denormalized projection of one content item used for
// lightweight secondary lookup. It is independent of the query engine's own
// fuzzy-match structure.
type IndexEntry struct {
	Content  string   `json:"content"`
	Title    string   `json:"title"`
	Keywords []string `json:"keywords"`
}

// Keywords derives the bounded keyword list for an item: title and content
// are concatenated, lower-cased, split on whitespace, stripped of
// punctuation, filtered to tokens longer than MinKeywordLen, and
// de-duplicated preserving first-occurrence order, capped at MaxKeywords.
func Keywords(title, content string) []string {
	fields := strings.Fields(strings.ToLower(title + " " + content))

	keywords := make([]string, 0, MaxKeywords)
	seen := make(map[string]bool)

	for _, field := range fields {
		word := stripPunctuation(field)
		if len(word) <= MinKeywordLen || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) >= MaxKeywords {
			break
		}
	}

	return keywords
}

// stripPunctuation removes every non-alphanumeric byte from a token.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// BuildIndex maps every item's ID to its derived index entry. When two items
// share an ID the later entry wins; callers detect and report collisions.
func BuildIndex(items []ContentItem) map[string]IndexEntry {
	index := make(map[string]IndexEntry, len(items))
	for i := range items {
		index[items[i].ID] = IndexEntry{
			Content:  items[i].Content,
			Title:    items[i].Title,
			Keywords: Keywords(items[i].Title, items[i].Content),
		}
	}
	return index
}
