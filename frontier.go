package docyard

import "context"

// Link is one crawl target: an absolute URL and its distance in hops from
// the seed URL.
type Link struct {
	URL   string
	Depth int
}

// URLFrontier manages a crawl queue with visited-set deduplication.
// Push is an atomic check-and-mark: under concurrent link discovery a URL
// still enters the frontier at most once.
type URLFrontier interface {
	// Push adds a link to the frontier.
	// Returns false if the URL has already been seen.
	Push(link Link) bool

	// Pop returns the next link to visit.
	// Returns false if the frontier is empty.
	Pop() (Link, bool)

	// Len returns the number of links queued.
	Len() int

	// Seen returns true if the URL has been queued or visited.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
