package mcp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docyard/docyard"
	"github.com/docyard/docyard/mock"
)

// testSnapshot builds a small snapshot backing the resource handlers.
func testSnapshot() *docyard.ProcessedContent {
	items := []docyard.ContentItem{
		{
			ID:      "item-1",
			Title:   "Install Guide",
			Content: "# Install\n\nRun the installer.",
			Path:    "docs/install.md",
			Type:    docyard.TypeMarkdown,
			Source:  "site",
		},
		{
			ID:      "item-2",
			Title:   "API Reference",
			Content: "All endpoints.",
			Path:    "docs/api.md",
			Type:    docyard.TypeMarkdown,
			Source:  "site",
		},
		{
			ID:      "item-3",
			Title:   "README",
			Content: "Project overview.",
			Path:    "README.md",
			Type:    docyard.TypeMarkdown,
			Source:  "repo",
		},
	}
	return &docyard.ProcessedContent{
		Items: items,
		Index: docyard.BuildIndex(items),
		Metadata: docyard.ProcessMetadata{
			TotalItems: len(items),
			Sources:    []string{"site", "repo"},
		},
	}
}

func TestNewServer(t *testing.T) {
	t.Run("nil query service returns error", func(t *testing.T) {
		server, err := NewServer(nil, testSnapshot())
		require.Error(t, err)
		assert.Nil(t, server)
		assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
	})

	t.Run("nil snapshot returns error", func(t *testing.T) {
		server, err := NewServer(&mock.QueryService{}, nil)
		require.Error(t, err)
		assert.Nil(t, server)
		assert.Equal(t, docyard.EINVALID, docyard.ErrorCode(err))
	})

	t.Run("valid arguments create server", func(t *testing.T) {
		server, err := NewServer(&mock.QueryService{}, testSnapshot())
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}
