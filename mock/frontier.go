package mock

import (
	"context"

	"github.com/docyard/docyard"
)

var _ docyard.URLFrontier = (*URLFrontier)(nil)

// URLFrontier is a mock implementation of docyard.URLFrontier.
type URLFrontier struct {
	PushFn func(link docyard.Link) bool
	PopFn  func() (docyard.Link, bool)
	LenFn  func() int
	SeenFn func(url string) bool
}

func (f *URLFrontier) Push(link docyard.Link) bool {
	return f.PushFn(link)
}

func (f *URLFrontier) Pop() (docyard.Link, bool) {
	return f.PopFn()
}

func (f *URLFrontier) Len() int {
	return f.LenFn()
}

func (f *URLFrontier) Seen(url string) bool {
	return f.SeenFn(url)
}

var _ docyard.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of docyard.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
