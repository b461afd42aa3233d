package mock

import (
	"context"

	"github.com/docyard/docyard"
)

var _ docyard.QueryService = (*QueryService)(nil)

// QueryService is a mock implementation of docyard.QueryService.
type QueryService struct {
	SearchFn func(ctx context.Context, query string, opts docyard.SearchOptions) ([]docyard.SearchResult, error)
	GetFn    func(ctx context.Context, req docyard.GetRequest) (*docyard.GetResult, error)
	ListFn   func(ctx context.Context, opts docyard.ListOptions) (*docyard.ListResult, error)
}

func (s *QueryService) Search(ctx context.Context, query string, opts docyard.SearchOptions) ([]docyard.SearchResult, error) {
	return s.SearchFn(ctx, query, opts)
}

func (s *QueryService) Get(ctx context.Context, req docyard.GetRequest) (*docyard.GetResult, error) {
	return s.GetFn(ctx, req)
}

func (s *QueryService) List(ctx context.Context, opts docyard.ListOptions) (*docyard.ListResult, error) {
	return s.ListFn(ctx, opts)
}
