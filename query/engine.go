// Package query answers search, lookup, and listing queries against one
// processed content snapshot.
package query

import (
	"cmp"
	"context"
	"math"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/docyard/docyard"
)

// Search scoring parameters. A document's score is the weighted sum of its
// per-field scores; documents under the threshold never appear in results.
const (
	titleWeight       = 0.4
	contentWeight     = 0.3
	descriptionWeight = 0.2
	tagsWeight        = 0.1
	scoreThreshold    = 0.3
)

// maxRelated caps the related-item list on a Get.
const maxRelated = 5

// snippetLen is the snippet length in runes before truncation.
const snippetLen = 200

// Ensure Engine implements docyard.QueryService at compile time.
var _ docyard.QueryService = (*Engine)(nil)

// Engine serves queries over one snapshot. It precomputes lowercase field
// text and token sets per document at construction and is immutable
// afterwards; a new snapshot requires a new engine.
type Engine struct {
	items  []docyard.ContentItem
	docs   []document
	byID   map[string]int
	byPath map[string]int
}

// document is the precomputed match structure for one item: each scored
// field as lowercase text plus its token set.
type document struct {
	title       string
	content     string
	description string
	tags        string

	titleTokens       []string
	contentTokens     []string
	descriptionTokens []string
	tagTokens         []string
}

// NewEngine builds an engine over the snapshot. The snapshot is treated as
// read-only for the engine's lifetime.
func NewEngine(content *docyard.ProcessedContent) (*Engine, error) {
	if content == nil {
		return nil, docyard.Errorf(docyard.EINVALID, "snapshot required")
	}

	e := &Engine{
		items:  content.Items,
		docs:   make([]document, len(content.Items)),
		byID:   make(map[string]int, len(content.Items)),
		byPath: make(map[string]int, len(content.Items)),
	}
	for i := range content.Items {
		item := &content.Items[i]
		e.docs[i] = newDocument(item)
		if _, ok := e.byID[item.ID]; !ok {
			e.byID[item.ID] = i
		}
		if _, ok := e.byPath[item.Path]; item.Path != "" && !ok {
			e.byPath[item.Path] = i
		}
	}
	return e, nil
}

func newDocument(item *docyard.ContentItem) document {
	tags := strings.Join(item.Metadata.Tags, " ")
	return document{
		title:             strings.ToLower(item.Title),
		content:           strings.ToLower(item.Content),
		description:       strings.ToLower(item.Metadata.Description),
		tags:              strings.ToLower(tags),
		titleTokens:       tokenize(item.Title),
		contentTokens:     tokenize(item.Content),
		descriptionTokens: tokenize(item.Metadata.Description),
		tagTokens:         tokenize(tags),
	}
}

// Search ranks the (optionally source- and type-filtered) document set by
// weighted fuzzy similarity to the query. Results are best-match-first with
// document order breaking ties, capped at the limit.
func (e *Engine) Search(ctx context.Context, query string, opts docyard.SearchOptions) ([]docyard.SearchResult, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, docyard.Errorf(docyard.EINVALID, "search query required")
	}
	queryLower := strings.ToLower(q)
	queryWords := tokenize(q)

	limit := opts.Limit
	if limit <= 0 {
		limit = docyard.DefaultSearchLimit
	}

	type hit struct {
		idx   int
		score float64
	}
	var hits []hit
	for i := range e.items {
		item := &e.items[i]
		if opts.Source != "" && item.Source != opts.Source {
			continue
		}
		if opts.Type != "" && item.Type != opts.Type {
			continue
		}

		d := &e.docs[i]
		score := titleWeight*fieldScore(d.title, d.titleTokens, queryLower, queryWords) +
			contentWeight*fieldScore(d.content, d.contentTokens, queryLower, queryWords) +
			descriptionWeight*fieldScore(d.description, d.descriptionTokens, queryLower, queryWords) +
			tagsWeight*fieldScore(d.tags, d.tagTokens, queryLower, queryWords)
		if score < scoreThreshold {
			continue
		}
		hits = append(hits, hit{idx: i, score: score})
	}

	sort.SliceStable(hits, func(a, b int) bool {
		return hits[a].score > hits[b].score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}

	results := make([]docyard.SearchResult, len(hits))
	for i, h := range hits {
		item := &e.items[h.idx]
		results[i] = docyard.SearchResult{
			ID:      item.ID,
			Title:   item.Title,
			Path:    item.Path,
			URL:     item.URL,
			Source:  item.Source,
			Type:    item.Type,
			Score:   math.Round(h.score*100) / 100,
			Snippet: snippet(item.Content),
		}
	}
	return results, nil
}

// Get returns the item matching the request's ID, or failing that its path.
func (e *Engine) Get(ctx context.Context, req docyard.GetRequest) (*docyard.GetResult, error) {
	if req.ID == "" && req.Path == "" {
		return nil, docyard.Errorf(docyard.EINVALID, "id or path required")
	}

	var idx int
	var ok bool
	if req.ID != "" {
		idx, ok = e.byID[req.ID]
	}
	if !ok && req.Path != "" {
		idx, ok = e.byPath[req.Path]
	}
	if !ok {
		return nil, docyard.Errorf(docyard.ENOTFOUND, "content item %q not found", cmp.Or(req.ID, req.Path))
	}

	res := &docyard.GetResult{Item: e.items[idx]}
	if req.IncludeRelated {
		res.Related = e.related(idx)
	}
	return res, nil
}

// related collects up to maxRelated other items sharing the item's source
// or section, in document order. This is an equality join, not a
// similarity ranking.
func (e *Engine) related(idx int) []docyard.ContentItem {
	self := &e.items[idx]
	var related []docyard.ContentItem
	for i := range e.items {
		if i == idx {
			continue
		}
		item := &e.items[i]
		sameSection := self.Metadata.Section != "" && item.Metadata.Section == self.Metadata.Section
		if item.Source != self.Source && !sameSection {
			continue
		}
		related = append(related, *item)
		if len(related) == maxRelated {
			break
		}
	}
	return related
}

// List filters items by source, type, and proper path prefix, then groups
// them by section.
func (e *Engine) List(ctx context.Context, opts docyard.ListOptions) (*docyard.ListResult, error) {
	groups := make(map[string][]docyard.ListEntry)
	total := 0
	for i := range e.items {
		item := &e.items[i]
		if opts.Source != "" && item.Source != opts.Source {
			continue
		}
		if opts.Type != "" && item.Type != opts.Type {
			continue
		}
		if opts.Path != "" && (item.Path == opts.Path || !strings.HasPrefix(item.Path, opts.Path)) {
			continue
		}

		section := item.Metadata.Section
		if section == "" {
			section = "root"
		}
		groups[section] = append(groups[section], docyard.ListEntry{
			ID:     item.ID,
			Title:  item.Title,
			Path:   item.Path,
			Type:   item.Type,
			Source: item.Source,
		})
		total++
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	sections := make([]docyard.ListSection, 0, len(names))
	for _, name := range names {
		entries := groups[name]
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].Title < entries[b].Title
		})
		sections = append(sections, docyard.ListSection{Name: name, Items: entries})
	}

	return &docyard.ListResult{
		Sections:      sections,
		TotalItems:    total,
		TotalSections: len(sections),
	}, nil
}

// fieldScore scores one field against the query in [0,1]: a substring
// containment is a full match, otherwise each query word contributes its
// best normalized Levenshtein similarity against the field's tokens and the
// contributions are averaged.
func fieldScore(full string, tokens []string, queryLower string, queryWords []string) float64 {
	if full == "" {
		return 0
	}
	if strings.Contains(full, queryLower) {
		return 1
	}
	if len(tokens) == 0 || len(queryWords) == 0 {
		return 0
	}

	sum := 0.0
	for _, word := range queryWords {
		best := 0.0
		for _, token := range tokens {
			if s := similarity(word, token); s > best {
				best = s
				if best == 1 {
					break
				}
			}
		}
		sum += best
	}
	return sum / float64(len(queryWords))
}

// similarity is the normalized Levenshtein similarity of two tokens.
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	s := 1 - float64(fuzzy.LevenshteinDistance(a, b))/float64(longest)
	if s < 0 {
		return 0
	}
	return s
}

// tokenize lowercases s, splits it on whitespace, trims edge punctuation,
// and de-duplicates preserving order.
func tokenize(s string) []string {
	fields := strings.Fields(strings.ToLower(s))
	tokens := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, field := range fields {
		token := strings.TrimFunc(field, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsNumber(r)
		})
		if token == "" || seen[token] {
			continue
		}
		seen[token] = true
		tokens = append(tokens, token)
	}
	return tokens
}

// snippet returns the leading snippetLen runes of content, with an ellipsis
// when truncated.
func snippet(content string) string {
	if utf8.RuneCountInString(content) <= snippetLen {
		return content
	}
	return string([]rune(content)[:snippetLen]) + "…"
}
