package docyard

import "context"

// DefaultSearchLimit is the result cap applied when a search request does
// not specify one.
const DefaultSearchLimit = 10

// SearchOptions narrow a search to a source and/or content type before
// ranking. Zero values mean no filtering.
type SearchOptions struct {
	Limit  int
	Source string
	Type   ContentType
}

// SearchResult is one ranked search hit.
type SearchResult struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Path   string      `json:"path"`
	URL    string      `json:"url,omitempty"`
	Source string      `json:"source"`
	Type   ContentType `json:"type"`

	// Score is the normalized match score in [0,1].
	Score float64 `json:"score"`

	// Snippet is the leading content excerpt, truncated with an ellipsis.
	Snippet string `json:"snippet"`
}

// GetRequest identifies an item by ID or, failing that, by path. At least
// one must be set.
type GetRequest struct {
	ID             string
	Path           string
	IncludeRelated bool
}

// GetResult is a direct lookup result with optional related items.
type GetResult struct {
	Item ContentItem `json:"item"`

	// Related holds up to five other items sharing the same source or
	// section, in document order. Populated only when requested.
	Related []ContentItem `json:"related,omitempty"`
}

// ListOptions narrow a listing. Path keeps items whose path is a proper
// prefix extension of it (starts with, but does not equal, the value).
type ListOptions struct {
	Path   string
	Type   ContentType
	Source string
}

// ListSection is one section group in a listing.
type ListSection struct {
	Name  string      `json:"name"`
	Items []ListEntry `json:"items"`
}

// ListEntry identifies one item within a listed section.
type ListEntry struct {
	ID     string      `json:"id"`
	Title  string      `json:"title"`
	Path   string      `json:"path"`
	Type   ContentType `json:"type"`
	Source string      `json:"source"`
}

// ListResult is a grouped listing with aggregate counts.
type ListResult struct {
	Sections      []ListSection `json:"sections"`
	TotalItems    int           `json:"totalItems"`
	TotalSections int           `json:"totalSections"`
}

// QueryService answers retrieval queries against one immutable snapshot.
type QueryService interface {
	// Search ranks items against the query by weighted fuzzy matching.
	// Returns EINVALID if the query is empty.
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)

	// Get looks an item up by exact ID, then exact path.
	// Returns ENOTFOUND if neither matches.
	Get(ctx context.Context, req GetRequest) (*GetResult, error)

	// List filters items and groups them by section.
	List(ctx context.Context, opts ListOptions) (*ListResult, error)
}
