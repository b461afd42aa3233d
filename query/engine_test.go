package query_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docyard/docyard"
	"github.com/docyard/docyard/query"
)

// testSnapshot covers two sources, three sections, and one non-markdown
// item so filters have something to bite on.
func testSnapshot() *docyard.ProcessedContent {
	items := []docyard.ContentItem{
		{
			ID:      "id-install",
			Title:   "Installation Guide",
			Content: "How to install the widget toolkit on Linux and macOS.",
			Path:    "docs/install.md",
			URL:     "https://example.com/docs/install",
			Type:    docyard.TypeMarkdown,
			Source:  "site",
			Metadata: docyard.Metadata{
				Description: "Setup instructions for the widget toolkit.",
				Tags:        []string{"setup", "install"},
				Section:     "docs",
			},
		},
		{
			ID:       "id-config",
			Title:    "Configuration",
			Content:  "Configuring the widget toolkit after setup.",
			Path:     "docs/config.md",
			URL:      "https://example.com/docs/config",
			Type:     docyard.TypeMarkdown,
			Source:   "site",
			Metadata: docyard.Metadata{Section: "docs"},
		},
		{
			ID:       "id-api",
			Title:    "API Reference",
			Content:  "Endpoints, payloads, and error codes.",
			Path:     "api/reference.md",
			URL:      "https://example.com/api/reference",
			Type:     docyard.TypeMarkdown,
			Source:   "site",
			Metadata: docyard.Metadata{Section: "api"},
		},
		{
			ID:      "id-readme",
			Title:   "Widget",
			Content: "Widget overview readme.",
			Path:    "README.md",
			Type:    docyard.TypeMarkdown,
			Source:  "repo",
		},
		{
			ID:       "id-notes",
			Title:    "Widget Notes",
			Content:  "Working notes about the widget.",
			Path:     "notes/todo.txt",
			Type:     docyard.TypeText,
			Source:   "files",
			Metadata: docyard.Metadata{Section: "notes"},
		},
	}
	return &docyard.ProcessedContent{
		Items:    items,
		Index:    docyard.BuildIndex(items),
		Metadata: docyard.ProcessMetadata{TotalItems: len(items), Sources: []string{"site", "repo", "files"}},
	}
}

func newEngine(t *testing.T) *query.Engine {
	t.Helper()
	e, err := query.NewEngine(testSnapshot())
	require.NoError(t, err)
	return e
}

func resultIDs(results []docyard.SearchResult) []string {
	ids := make([]string, len(results))
	for i, r := range results {
		ids[i] = r.ID
	}
	return ids
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	t.Run("rejects a nil snapshot", func(t *testing.T) {
		t.Parallel()

		_, err := query.NewEngine(nil)

		require.Error(t, err)
		assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
	})
}

func TestEngine_Search(t *testing.T) {
	t.Parallel()

	t.Run("empty query is EINVALID", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		for _, q := range []string{"", "   "} {
			_, err := e.Search(context.Background(), q, docyard.SearchOptions{})
			require.Error(t, err)
			assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
		}
	})

	t.Run("ranks matches best first with document order breaking ties", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		results, err := e.Search(context.Background(), "widget", docyard.SearchOptions{})

		require.NoError(t, err)
		assert.Equal(t, []string{"id-readme", "id-notes", "id-install", "id-config"}, resultIDs(results))
	})

	t.Run("field weights order results and the threshold drops weak matches", func(t *testing.T) {
		t.Parallel()

		items := []docyard.ContentItem{
			{ID: "in-title", Title: "Kumquat", Content: "Alpha beta.", Source: "s"},
			{ID: "in-content", Title: "Alpha", Content: "Kumquat beta.", Source: "s"},
			{ID: "in-description", Title: "Xy", Content: "Zw.", Source: "s",
				Metadata: docyard.Metadata{Description: "kumquat"}},
			{ID: "in-tags", Title: "Xy", Content: "Zw.", Source: "s",
				Metadata: docyard.Metadata{Tags: []string{"kumquat"}}},
		}
		e, err := query.NewEngine(&docyard.ProcessedContent{Items: items})
		require.NoError(t, err)

		results, err := e.Search(context.Background(), "kumquat", docyard.SearchOptions{})

		require.NoError(t, err)
		assert.Equal(t, []string{"in-title", "in-content"}, resultIDs(results),
			"description- and tag-only matches score under the threshold")
	})

	t.Run("fuzzy matching tolerates a typo", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		results, err := e.Search(context.Background(), "instllation", docyard.SearchOptions{})

		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "id-install", results[0].ID)
	})

	t.Run("populates result fields and rounds the score", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		results, err := e.Search(context.Background(), "widget", docyard.SearchOptions{})

		require.NoError(t, err)
		require.NotEmpty(t, results)

		top := results[0]
		assert.Equal(t, "id-readme", top.ID)
		assert.Equal(t, "Widget", top.Title)
		assert.Equal(t, "README.md", top.Path)
		assert.Empty(t, top.URL)
		assert.Equal(t, "repo", top.Source)
		assert.Equal(t, docyard.TypeMarkdown, top.Type)
		assert.InDelta(t, 0.7, top.Score, 0.001, "title and content hits sum to 0.4+0.3")
		assert.Equal(t, "Widget overview readme.", top.Snippet)
	})

	t.Run("limit caps the result count", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		results, err := e.Search(context.Background(), "widget", docyard.SearchOptions{Limit: 1})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "id-readme", results[0].ID)
	})

	t.Run("filters by source before ranking", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		results, err := e.Search(context.Background(), "widget", docyard.SearchOptions{Source: "repo"})

		require.NoError(t, err)
		assert.Equal(t, []string{"id-readme"}, resultIDs(results))
	})

	t.Run("filters by type before ranking", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		results, err := e.Search(context.Background(), "widget", docyard.SearchOptions{Type: docyard.TypeText})

		require.NoError(t, err)
		assert.Equal(t, []string{"id-notes"}, resultIDs(results))
	})

	t.Run("snippet truncates long content with an ellipsis", func(t *testing.T) {
		t.Parallel()

		long := strings.Repeat("x", 250)
		items := []docyard.ContentItem{
			{ID: "long", Title: "Snippet Sample", Content: long, Source: "s"},
		}
		e, err := query.NewEngine(&docyard.ProcessedContent{Items: items})
		require.NoError(t, err)

		results, err := e.Search(context.Background(), "snippet", docyard.SearchOptions{})

		require.NoError(t, err)
		require.Len(t, results, 1)
		snippet := results[0].Snippet
		assert.True(t, strings.HasSuffix(snippet, "…"))
		assert.Equal(t, 201, utf8.RuneCountInString(snippet))
		assert.Equal(t, long[:200], strings.TrimSuffix(snippet, "…"))
	})
}

func TestEngine_Get(t *testing.T) {
	t.Parallel()

	t.Run("looks up by ID", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		res, err := e.Get(context.Background(), docyard.GetRequest{ID: "id-config"})

		require.NoError(t, err)
		assert.Equal(t, "Configuration", res.Item.Title)
		assert.Nil(t, res.Related)
	})

	t.Run("falls back to path lookup when the ID misses", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		res, err := e.Get(context.Background(), docyard.GetRequest{ID: "nope", Path: "docs/config.md"})

		require.NoError(t, err)
		assert.Equal(t, "id-config", res.Item.ID)
	})

	t.Run("looks up by path alone", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		res, err := e.Get(context.Background(), docyard.GetRequest{Path: "README.md"})

		require.NoError(t, err)
		assert.Equal(t, "id-readme", res.Item.ID)
	})

	t.Run("requires an ID or a path", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		_, err := e.Get(context.Background(), docyard.GetRequest{})

		require.Error(t, err)
		assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
	})

	t.Run("no match is ENOTFOUND", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		_, err := e.Get(context.Background(), docyard.GetRequest{ID: "missing"})

		require.Error(t, err)
		assert.Equal(t, docyard.ENOTFOUND, docyard.ErrorCode(err))
	})

	t.Run("related joins on source or section in document order", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		res, err := e.Get(context.Background(), docyard.GetRequest{ID: "id-install", IncludeRelated: true})

		require.NoError(t, err)
		var ids []string
		for _, item := range res.Related {
			ids = append(ids, item.ID)
		}
		assert.Equal(t, []string{"id-config", "id-api"}, ids)
	})

	t.Run("related caps at five items", func(t *testing.T) {
		t.Parallel()

		items := make([]docyard.ContentItem, 8)
		for i := range items {
			items[i] = docyard.ContentItem{
				ID:     fmt.Sprintf("id-%d", i),
				Title:  fmt.Sprintf("Doc %d", i),
				Source: "same",
			}
		}
		e, err := query.NewEngine(&docyard.ProcessedContent{Items: items})
		require.NoError(t, err)

		res, err := e.Get(context.Background(), docyard.GetRequest{ID: "id-0", IncludeRelated: true})

		require.NoError(t, err)
		require.Len(t, res.Related, 5)
		assert.Equal(t, "id-1", res.Related[0].ID)
		assert.Equal(t, "id-5", res.Related[4].ID)
	})
}

func TestEngine_List(t *testing.T) {
	t.Parallel()

	t.Run("groups by section with sorted sections and titles", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		res, err := e.List(context.Background(), docyard.ListOptions{})

		require.NoError(t, err)
		assert.Equal(t, 5, res.TotalItems)
		assert.Equal(t, 4, res.TotalSections)

		names := make([]string, len(res.Sections))
		for i, s := range res.Sections {
			names[i] = s.Name
		}
		require.Equal(t, []string{"api", "docs", "notes", "root"}, names)

		docs := res.Sections[1]
		require.Len(t, docs.Items, 2)
		assert.Equal(t, "Configuration", docs.Items[0].Title)
		assert.Equal(t, "Installation Guide", docs.Items[1].Title)
	})

	t.Run("items without a section land in root", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		res, err := e.List(context.Background(), docyard.ListOptions{Source: "repo"})

		require.NoError(t, err)
		require.Len(t, res.Sections, 1)
		assert.Equal(t, "root", res.Sections[0].Name)
		assert.Equal(t, "id-readme", res.Sections[0].Items[0].ID)
	})

	t.Run("path filter keeps proper prefix extensions only", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		res, err := e.List(context.Background(), docyard.ListOptions{Path: "docs/"})
		require.NoError(t, err)
		assert.Equal(t, 2, res.TotalItems)

		exact, err := e.List(context.Background(), docyard.ListOptions{Path: "docs/install.md"})
		require.NoError(t, err)
		assert.Zero(t, exact.TotalItems, "a path equal to the prefix is excluded")
	})

	t.Run("filters by type", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		res, err := e.List(context.Background(), docyard.ListOptions{Type: docyard.TypeText})

		require.NoError(t, err)
		require.Equal(t, 1, res.TotalItems)
		assert.Equal(t, "notes", res.Sections[0].Name)
	})

	t.Run("no matches yields empty sections and zero counts", func(t *testing.T) {
		t.Parallel()
		e := newEngine(t)

		res, err := e.List(context.Background(), docyard.ListOptions{Source: "nonexistent"})

		require.NoError(t, err)
		assert.Empty(t, res.Sections)
		assert.Zero(t, res.TotalItems)
		assert.Zero(t, res.TotalSections)
	})
}
