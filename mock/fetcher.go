package mock

import (
	"context"

	"github.com/docyard/docyard"
)

var _ docyard.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of docyard.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	if f.CloseFn != nil {
		return f.CloseFn()
	}
	return nil
}
