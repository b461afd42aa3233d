// Package crawl turns a documentation site into content items by walking
// its link graph depth-first from a seed URL. Fetching, content extraction,
// markdown conversion and link discovery are pluggable; the package owns
// traversal order, depth bounds, scoping and the visited set.
package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/docyard/docyard"
)

// Frontier sizing and crawl safety limits.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate for deduplication.
	frontierFalsePositiveRate = 0.01
	// DefaultMaxURLs caps how many URLs a single crawl fetches, preventing
	// runaway walks on heavily cross-linked sites.
	DefaultMaxURLs = 1000
)

// drainTimeout bounds how long the coordinator waits for in-flight workers
// after the walk ends.
const drainTimeout = 5 * time.Second

// Crawler walks documentation sites and emits one content item per page.
//
// Fetcher, Extractor, Converter and Links are required. Limiter and
// Sitemaps are optional; a nil Limiter means no rate limiting and a nil
// Sitemaps disables sitemap seeding. Concurrency ≤ 1 walks strictly
// sequentially, depth-first.
type Crawler struct {
	Fetcher     docyard.Fetcher
	Extractor   docyard.Extractor
	Converter   docyard.Converter
	Links       docyard.LinkExtractor
	Limiter     docyard.DomainLimiter
	Sitemaps    docyard.SitemapService
	Concurrency int
	RetryDelays []time.Duration
	MaxURLs     int
	Logger      *slog.Logger
}

// Ensure Producer implements docyard.Producer at compile time.
var _ docyard.Producer = (*Producer)(nil)

// Producer binds a Crawler to one website source.
type Producer struct {
	Crawler *Crawler
	Name    string
	Source  docyard.WebsiteSource
}

// Produce crawls the source and returns its content items.
func (p *Producer) Produce(ctx context.Context) ([]docyard.ContentItem, error) {
	return p.Crawler.Crawl(ctx, p.Name, p.Source)
}

// pageResult is the outcome of processing one URL.
type pageResult struct {
	position int
	url      string
	depth    int
	title    string
	markdown string
	links    []string
	deadEnd  bool
	err      error
}

// Crawl walks the site rooted at src.URL and returns one item per page
// that yielded content, ordered by dispatch position so a given traversal
// produces deterministic output.
//
// The seed is always fetched, even at MaxDepth 0. A page at depth d is
// expanded only while d < MaxDepth-1, so no fetch happens beyond MaxDepth
// hops from the seed. Per-page failures after retries are logged and
// skipped; a seed fetch failure fails the whole source with EUNAVAILABLE.
func (c *Crawler) Crawl(ctx context.Context, name string, src docyard.WebsiteSource) ([]docyard.ContentItem, error) {
	filter, err := docyard.CompileExcludeFilter(src.ExcludePatterns)
	if err != nil {
		return nil, err
	}

	seed, err := url.Parse(src.URL)
	if err != nil || seed.Host == "" {
		return nil, docyard.Errorf(docyard.EINVALID, "invalid website URL %q", src.URL)
	}

	w := &walker{
		c:          c,
		seed:       seed,
		pathPrefix: strings.TrimSuffix(seed.Path, "/"),
		maxDepth:   src.MaxDepth,
		filter:     filter,
		frontier:   NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate),
		logger:     c.logger(),
	}

	// The seed enters the seen set first and is dispatched first; sitemap
	// URLs stack behind it at depth 1.
	w.frontier.Push(docyard.Link{URL: src.URL, Depth: 0})
	first, _ := w.frontier.Pop()

	if src.Sitemap && c.Sitemaps != nil && src.MaxDepth >= 2 {
		w.seedFromSitemap(ctx, src.URL)
	}

	results, err := w.run(ctx, first)
	if err != nil {
		return nil, err
	}

	items := make([]docyard.ContentItem, 0, len(results))
	for _, res := range results {
		if item, ok := c.item(name, res); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.New(slog.DiscardHandler)
}

// item converts a successful page result into a content item.
func (c *Crawler) item(name string, res pageResult) (docyard.ContentItem, bool) {
	u, err := url.Parse(res.url)
	if err != nil {
		return docyard.ContentItem{}, false
	}

	title := res.title
	if title == "" {
		title = docyard.ExtractTitle(res.markdown, titleFromURL(u))
	}

	return docyard.ContentItem{
		ID:      docyard.ItemID(docyard.SourceWebsite, res.url),
		Title:   title,
		Content: res.markdown,
		URL:     res.url,
		Path:    u.Path,
		Type:    docyard.TypeWebpage,
		Source:  name,
		Metadata: docyard.Metadata{
			Section: docyard.DeriveSection(u.Path),
		},
	}, true
}

// titleFromURL derives a last-resort title from the URL path.
func titleFromURL(u *url.URL) string {
	base := path.Base(strings.TrimSuffix(u.Path, "/"))
	if base == "" || base == "." || base == "/" {
		return u.Host
	}
	return base
}

// walker carries the per-crawl state so the coordinator, the workers and
// the scope checks share one view of the walk.
type walker struct {
	c          *Crawler
	seed       *url.URL
	pathPrefix string
	maxDepth   int
	filter     *docyard.URLFilter
	frontier   *Frontier
	logger     *slog.Logger
}

// seedFromSitemap pushes sitemap-discovered URLs at depth 1. Discovery
// failures degrade to a plain walk rather than failing the source.
func (w *walker) seedFromSitemap(ctx context.Context, baseURL string) {
	urls, err := w.c.Sitemaps.DiscoverURLs(ctx, baseURL, w.filter)
	if err != nil {
		w.logger.Warn("sitemap discovery failed, walking links only", "url", baseURL, "err", err)
		return
	}
	seeded := 0
	for _, u := range urls {
		if !w.inScope(u) {
			continue
		}
		if w.frontier.Push(docyard.Link{URL: u, Depth: 1}) {
			seeded++
		}
	}
	if seeded > 0 {
		w.logger.Debug("frontier seeded from sitemap", "urls", seeded)
	}
}

// inScope reports whether a discovered URL belongs to this crawl: same
// origin as the seed, inside the seed's path prefix, and not excluded.
func (w *walker) inScope(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if u.Scheme != w.seed.Scheme || u.Host != w.seed.Host {
		return false
	}
	if u.Path != w.pathPrefix && !strings.HasPrefix(u.Path, w.pathPrefix+"/") {
		return false
	}
	return w.filter.Match(raw)
}

// run drives the walk: a coordinator dispatches frontier links to a worker
// pool and folds results back in, pushing newly discovered links until the
// frontier drains. Results come back ordered by dispatch position.
func (w *walker) run(ctx context.Context, first docyard.Link) ([]pageResult, error) {
	workers := w.c.Concurrency
	if workers < 1 {
		workers = 1
	}
	maxURLs := w.c.MaxURLs
	if maxURLs <= 0 {
		maxURLs = DefaultMaxURLs
	}

	type job struct {
		position int
		link     docyard.Link
	}
	workCh := make(chan job, workers)
	resultCh := make(chan pageResult)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range workCh {
				result := w.process(ctx, j.position, j.link)
				select {
				case resultCh <- result:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	// Close result channel once all workers have exited.
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	var (
		results    []pageResult
		seedErr    error
		dispatched int
		pending    int
	)
	next := &first

	handle := func(res pageResult) {
		pending--
		switch {
		case res.err != nil:
			if res.depth == 0 {
				seedErr = res.err
				return
			}
			w.logger.Warn("page skipped", "url", res.url, "err", res.err)
		case res.deadEnd:
			w.logger.Debug("dead end, no content matched", "url", res.url)
		default:
			for _, raw := range res.links {
				if !w.inScope(raw) {
					continue
				}
				w.frontier.Push(docyard.Link{URL: raw, Depth: res.depth + 1})
			}
			results = append(results, res)
		}
	}

coordinatorLoop:
	for {
		if dispatched >= maxURLs {
			// Cap reached; drop queued work and let in-flight pages finish.
			next = nil
		}
		if next == nil && pending == 0 {
			break coordinatorLoop
		}
		if seedErr != nil || ctx.Err() != nil {
			break coordinatorLoop
		}

		// Dispatch only while a worker is free; with one worker this
		// degenerates to a strict sequential depth-first walk.
		if next != nil && pending < workers {
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case workCh <- job{position: dispatched, link: *next}:
				dispatched++
				pending++
				next = nil
			case res := <-resultCh:
				handle(res)
			}
		} else {
			// Nothing left to dispatch; wait on in-flight results.
			select {
			case <-ctx.Done():
				break coordinatorLoop
			case res, ok := <-resultCh:
				if !ok {
					break coordinatorLoop
				}
				handle(res)
			}
		}

		if next == nil && dispatched < maxURLs {
			if link, ok := w.frontier.Pop(); ok {
				next = &link
			}
		}
	}

	// Signal workers to stop and drain whatever is still in flight.
	close(workCh)
	drain := time.After(drainTimeout)
drainLoop:
	for {
		select {
		case res, ok := <-resultCh:
			if !ok {
				break drainLoop
			}
			handle(res)
		case <-drain:
			break drainLoop
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seedErr != nil {
		return nil, docyard.Errorf(docyard.EUNAVAILABLE, "fetching seed %s: %v", w.seed, seedErr)
	}

	sort.Slice(results, func(i, j int) bool { return results[i].position < results[j].position })
	return results, nil
}

// process runs the per-URL pipeline: rate limit, fetch with retry, extract
// content, discover links (only when this page will be expanded), convert
// to markdown.
func (w *walker) process(ctx context.Context, position int, link docyard.Link) pageResult {
	res := pageResult{position: position, url: link.URL, depth: link.Depth}

	u, err := url.Parse(link.URL)
	if err != nil {
		res.err = err
		return res
	}

	if w.c.Limiter != nil {
		if err := w.c.Limiter.Wait(ctx, u.Host); err != nil {
			res.err = err
			return res
		}
	}

	delays := w.c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	html, err := FetchWithRetryDelays(ctx, link.URL, w.c.Fetcher.Fetch, w.retryLog, delays)
	if err != nil {
		res.err = err
		return res
	}

	extracted, err := w.c.Extractor.Extract(html)
	if err != nil {
		res.err = err
		return res
	}
	if extracted.ContentHTML == "" {
		// Dead end: no item and no expansion, but not a failure.
		res.deadEnd = true
		return res
	}

	if link.Depth < w.maxDepth-1 {
		links, err := w.c.Links.ExtractLinks(html, link.URL)
		if err == nil {
			res.links = links
		}
	}

	markdown, err := w.c.Converter.Convert(extracted.ContentHTML)
	if err != nil {
		res.err = err
		return res
	}

	res.title = extracted.Title
	res.markdown = markdown
	return res
}

func (w *walker) retryLog(format string, args ...any) {
	w.logger.Debug(fmt.Sprintf(format, args...))
}
