package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docyard/docyard"
)

// SearchInput is the input schema for the search_content tool.
type SearchInput struct {
	Query  string `json:"query" jsonschema:"the text to match against titles, content, descriptions and tags"`
	Limit  int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
	Source string `json:"source,omitempty" jsonschema:"restrict results to the named source"`
	Type   string `json:"type,omitempty" jsonschema:"restrict results to a content type such as markdown or webpage"`
}

// SearchOutput is the output schema for the search_content tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput is a single ranked hit.
type SearchResultOutput struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Path    string  `json:"path,omitempty"`
	URL     string  `json:"url,omitempty"`
	Source  string  `json:"source"`
	Type    string  `json:"type"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet,omitempty"`
}

// GetInput is the input schema for the get_content tool.
type GetInput struct {
	ID             string `json:"id,omitempty" jsonschema:"item identifier as reported by search_content"`
	Path           string `json:"path,omitempty" jsonschema:"item path, tried when the identifier does not match"`
	IncludeRelated bool   `json:"includeRelated,omitempty" jsonschema:"include up to five items from the same source or section"`
}

// GetOutput is the output schema for the get_content tool.
type GetOutput struct {
	Item    ItemOutput   `json:"item"`
	Related []ItemOutput `json:"related,omitempty"`
}

// ItemOutput is a full content item.
type ItemOutput struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Path         string   `json:"path,omitempty"`
	URL          string   `json:"url,omitempty"`
	Source       string   `json:"source"`
	Type         string   `json:"type"`
	Section      string   `json:"section,omitempty"`
	Description  string   `json:"description,omitempty"`
	Tags         []string `json:"tags,omitempty"`
	LastModified string   `json:"lastModified,omitempty"`
	Content      string   `json:"content"`
}

// ListInput is the input schema for the list_resources tool.
type ListInput struct {
	Path   string `json:"path,omitempty" jsonschema:"keep only items under this path prefix"`
	Source string `json:"source,omitempty" jsonschema:"restrict the listing to the named source"`
	Type   string `json:"type,omitempty" jsonschema:"restrict the listing to a content type"`
}

// ListOutput is the output schema for the list_resources tool.
type ListOutput struct {
	Sections      []SectionOutput `json:"sections"`
	TotalItems    int             `json:"totalItems"`
	TotalSections int             `json:"totalSections"`
}

// SectionOutput is one section group in a listing.
type SectionOutput struct {
	Name  string            `json:"name"`
	Items []ListEntryOutput `json:"items"`
}

// ListEntryOutput identifies one listed item.
type ListEntryOutput struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Path   string `json:"path,omitempty"`
	Type   string `json:"type"`
	Source string `json:"source"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_content",
		Description: "Search the documentation snapshot by fuzzy relevance",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_content",
		Description: "Fetch a single documentation item by ID or path",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_resources",
		Description: "List documentation items grouped by section",
	}, s.handleList)
}

// toolError flattens an application error into the message reported to the
// client. Tool handler errors surface in-band as tool results, so a bad
// argument or a missed lookup does not end the session.
func toolError(err error) error {
	return fmt.Errorf("%s: %s", docyard.ErrorCode(err), docyard.ErrorMessage(err))
}

// handleSearch handles the search_content tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := docyard.SearchOptions{
		Limit:  input.Limit,
		Source: input.Source,
		Type:   docyard.ContentType(input.Type),
	}

	results, err := s.engine.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, toolError(err)
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = SearchResultOutput{
			ID:      r.ID,
			Title:   r.Title,
			Path:    r.Path,
			URL:     r.URL,
			Source:  r.Source,
			Type:    string(r.Type),
			Score:   r.Score,
			Snippet: r.Snippet,
		}
	}

	return nil, output, nil
}

// handleGet handles the get_content tool invocation.
func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, GetOutput, error) {
	req := docyard.GetRequest{
		ID:             input.ID,
		Path:           input.Path,
		IncludeRelated: input.IncludeRelated,
	}

	res, err := s.engine.Get(ctx, req)
	if err != nil {
		return nil, GetOutput{}, toolError(err)
	}

	output := GetOutput{Item: itemOutput(res.Item)}
	if len(res.Related) > 0 {
		output.Related = make([]ItemOutput, len(res.Related))
		for i, item := range res.Related {
			output.Related[i] = itemOutput(item)
		}
	}

	return nil, output, nil
}

// handleList handles the list_resources tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	opts := docyard.ListOptions{
		Path:   input.Path,
		Source: input.Source,
		Type:   docyard.ContentType(input.Type),
	}

	res, err := s.engine.List(ctx, opts)
	if err != nil {
		return nil, ListOutput{}, toolError(err)
	}

	output := ListOutput{
		Sections:      make([]SectionOutput, len(res.Sections)),
		TotalItems:    res.TotalItems,
		TotalSections: res.TotalSections,
	}
	for i, section := range res.Sections {
		entries := make([]ListEntryOutput, len(section.Items))
		for j, entry := range section.Items {
			entries[j] = ListEntryOutput{
				ID:     entry.ID,
				Title:  entry.Title,
				Path:   entry.Path,
				Type:   string(entry.Type),
				Source: entry.Source,
			}
		}
		output.Sections[i] = SectionOutput{Name: section.Name, Items: entries}
	}

	return nil, output, nil
}

// itemOutput flattens a content item for tool output.
func itemOutput(item docyard.ContentItem) ItemOutput {
	out := ItemOutput{
		ID:          item.ID,
		Title:       item.Title,
		Path:        item.Path,
		URL:         item.URL,
		Source:      item.Source,
		Type:        string(item.Type),
		Section:     item.Metadata.Section,
		Description: item.Metadata.Description,
		Tags:        item.Metadata.Tags,
		Content:     item.Content,
	}
	if !item.Metadata.LastModified.IsZero() {
		out.LastModified = item.Metadata.LastModified.Format(time.RFC3339)
	}
	return out
}
