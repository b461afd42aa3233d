package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// uriScheme is the custom URI scheme for snapshot resources.
const uriScheme = "docyard://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for listing sources.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Configured sources with their item counts",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	// Template for raw item content.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "items/{id}",
		Name:        "item-content",
		Description: "Raw content of a single documentation item",
		MIMEType:    "text/plain",
	}, s.handleItemResource)
}

// handleSourcesResource returns the snapshot's sources with item counts.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	counts := make(map[string]int, len(s.snapshot.Metadata.Sources))
	for i := range s.snapshot.Items {
		counts[s.snapshot.Items[i].Source]++
	}

	type sourceInfo struct {
		Name  string `json:"name"`
		Items int    `json:"items"`
	}

	infos := make([]sourceInfo, len(s.snapshot.Metadata.Sources))
	for i, name := range s.snapshot.Metadata.Sources {
		infos[i] = sourceInfo{Name: name, Items: counts[name]}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleItemResource returns the raw content of a single item.
func (s *Server) handleItemResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractItemID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	item, ok := s.byID[id]
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     item.Content,
		}},
	}, nil
}

// extractItemID extracts the item ID from a URI like docyard://items/{id}.
func extractItemID(uri string) string {
	const prefix = uriScheme + "items/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
