package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docyard/docyard"
	"github.com/docyard/docyard/mock"
)

func TestExtractItemID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid item URI",
			uri:      "docyard://items/abc123",
			expected: "abc123",
		},
		{
			name:     "wrong scheme",
			uri:      "file://items/abc123",
			expected: "",
		},
		{
			name:     "missing item segment",
			uri:      "docyard://sources",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractItemID(tt.uri))
		})
	}
}

// makeReadResourceRequest creates a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleSourcesResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns sources with item counts", func(t *testing.T) {
		server, err := NewServer(&mock.QueryService{}, testSnapshot())
		require.NoError(t, err)

		req := makeReadResourceRequest("docyard://sources")
		result, err := server.handleSourcesResource(ctx, req)
		require.NoError(t, err)

		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"name": "site"`)
		assert.Contains(t, result.Contents[0].Text, `"items": 2`)
		assert.Contains(t, result.Contents[0].Text, `"name": "repo"`)
		assert.Contains(t, result.Contents[0].Text, `"items": 1`)
	})

	t.Run("empty snapshot returns empty list", func(t *testing.T) {
		server, err := NewServer(&mock.QueryService{}, &docyard.ProcessedContent{})
		require.NoError(t, err)

		req := makeReadResourceRequest("docyard://sources")
		result, err := server.handleSourcesResource(ctx, req)
		require.NoError(t, err)

		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})
}

func TestServer_handleItemResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns raw item content", func(t *testing.T) {
		server, err := NewServer(&mock.QueryService{}, testSnapshot())
		require.NoError(t, err)

		req := makeReadResourceRequest("docyard://items/item-1")
		result, err := server.handleItemResource(ctx, req)
		require.NoError(t, err)

		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "# Install\n\nRun the installer.", result.Contents[0].Text)
	})

	t.Run("unknown item returns not found", func(t *testing.T) {
		server, err := NewServer(&mock.QueryService{}, testSnapshot())
		require.NoError(t, err)

		req := makeReadResourceRequest("docyard://items/missing")
		_, err = server.handleItemResource(ctx, req)
		require.Error(t, err)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&mock.QueryService{}, testSnapshot())
		require.NoError(t, err)

		req := makeReadResourceRequest("docyard://other/item-1")
		_, err = server.handleItemResource(ctx, req)
		require.Error(t, err)
	})
}
