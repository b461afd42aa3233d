package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docyard/docyard"
)

// Ensure LoggingQueryService implements docyard.QueryService at compile time.
var _ docyard.QueryService = (*LoggingQueryService)(nil)

// LoggingQueryService wraps a QueryService with per-operation logging.
type LoggingQueryService struct {
	next   docyard.QueryService
	logger *slog.Logger
}

// NewLoggingQueryService creates a new LoggingQueryService.
func NewLoggingQueryService(next docyard.QueryService, logger *slog.Logger) *LoggingQueryService {
	return &LoggingQueryService{next: next, logger: logger}
}

// Search delegates to the wrapped service and logs the query.
func (s *LoggingQueryService) Search(ctx context.Context, query string, opts docyard.SearchOptions) (results []docyard.SearchResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"query", query,
			"source", opts.Source,
			"type", opts.Type,
			"results", len(results),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, query, opts)
}

// Get delegates to the wrapped service and logs the lookup.
func (s *LoggingQueryService) Get(ctx context.Context, req docyard.GetRequest) (res *docyard.GetResult, err error) {
	defer func(begin time.Time) {
		s.logger.Info("get",
			"id", req.ID,
			"path", req.Path,
			"found", res != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Get(ctx, req)
}

// List delegates to the wrapped service and logs the listing.
func (s *LoggingQueryService) List(ctx context.Context, opts docyard.ListOptions) (res *docyard.ListResult, err error) {
	defer func(begin time.Time) {
		var total int
		if res != nil {
			total = res.TotalItems
		}
		s.logger.Info("list",
			"path", opts.Path,
			"source", opts.Source,
			"type", opts.Type,
			"items", total,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.List(ctx, opts)
}
