package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/docyard/docyard"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds a single render. Rendering is slower than a
// plain GET, so this is looser than the http fetcher's default.
const DefaultFetchTimeout = 30 * time.Second

// Ensure Fetcher implements docyard.Fetcher at compile time.
var _ docyard.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Pages are opened on a managed browser that is recycled periodically.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager     *BrowserManager
	ownsManager bool
	timeout     time.Duration
	closed      atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout bounds each fetch, including navigation and rendering.
// Defaults to DefaultFetchTimeout.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithManager shares an existing BrowserManager instead of launching one.
// The caller remains responsible for closing a shared manager.
func WithManager(m *BrowserManager) Option {
	return func(f *Fetcher) {
		f.manager = m
	}
}

// NewFetcher creates a new Fetcher, launching a headless Chrome browser
// unless a manager is supplied. Close must be called when the Fetcher is
// no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	if f.manager == nil {
		m, err := NewBrowserManager()
		if err != nil {
			return nil, err
		}
		f.manager = m
		f.ownsManager = true
	}

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", docyard.Errorf(docyard.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}

	html, err := page.HTML()
	if err != nil {
		return "", err
	}

	f.manager.PageDone()
	return html, nil
}

// Close releases browser resources when the Fetcher launched its own
// manager. Shared managers are left running. Safe to call multiple times;
// Fetch returns EINVALID afterwards.
func (f *Fetcher) Close() error {
	f.closed.Store(true)
	if f.ownsManager {
		return f.manager.Close()
	}
	return nil
}

// LauncherPID returns the browser launcher's process ID for cleanup checks.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
