package mock

import (
	"context"

	"github.com/docyard/docyard"
)

var _ docyard.SitemapService = (*SitemapService)(nil)

// SitemapService is a mock implementation of docyard.SitemapService.
type SitemapService struct {
	DiscoverURLsFn func(ctx context.Context, baseURL string, filter *docyard.URLFilter) ([]string, error)
}

func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *docyard.URLFilter) ([]string, error) {
	return s.DiscoverURLsFn(ctx, baseURL, filter)
}
