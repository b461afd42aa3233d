package crawl

import (
	"strings"
	"sync"

	"github.com/docyard/docyard"
	"github.com/docyard/docyard/bloom"
)

// Compile-time interface verification.
var _ docyard.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory LIFO crawl frontier with Bloom filter
// deduplication. Popping the most recently pushed link gives the walk
// depth-first shape. It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Filter
	stack []docyard.Link
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewFilter(n, fpRate),
	}
}

// Push adds a link to the frontier. Returns false if the URL has already
// been seen. The check and the mark happen under one lock, so concurrent
// pushers cannot both enqueue the same URL. Fragments are stripped before
// deduplication: URLs differing only by fragment are duplicates.
func (f *Frontier) Push(link docyard.Link) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	link.URL = stripFragment(link.URL)
	if f.seen.TestAndAdd(link.URL) {
		return false
	}

	f.stack = append(f.stack, link)
	return true
}

// Pop returns the most recently pushed link.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (docyard.Link, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := len(f.stack)
	if n == 0 {
		return docyard.Link{}, false
	}
	link := f.stack[n-1]
	f.stack = f.stack[:n-1]
	return link, true
}

// Len returns the number of links queued.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.stack)
}

// Seen returns true if the URL has been queued or visited.
// Fragments are stripped before checking.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Test(stripFragment(rawURL))
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
