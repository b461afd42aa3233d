package main

import (
	"fmt"
	"log/slog"

	"github.com/docyard/docyard"
	"github.com/docyard/docyard/aggregate"
	"github.com/docyard/docyard/crawl"
	"github.com/docyard/docyard/gitrepo"
	"github.com/docyard/docyard/goquery"
	"github.com/docyard/docyard/htmltomarkdown"
	dochttp "github.com/docyard/docyard/http"
	"github.com/docyard/docyard/localfs"
	"github.com/docyard/docyard/readability"
	"github.com/docyard/docyard/rod"
	docslog "github.com/docyard/docyard/slog"
	"github.com/docyard/docyard/trafilatura"
	"github.com/docyard/docyard/yaml"
)

// crawlRequestsPerSecond rate-limits page fetches per domain.
const crawlRequestsPerSecond = 2.0

// Run executes the process command.
func (c *ProcessCmd) Run(deps *Dependencies) error {
	cfg, err := yaml.Load(c.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return err
	}

	concurrency := cfg.Options.MaxConcurrency
	if c.Concurrency > 0 {
		concurrency = c.Concurrency
	}

	sources, cleanup, err := buildSources(cfg, concurrency, deps.Logger)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return err
	}
	defer cleanup()

	aggregator := aggregate.NewAggregator(sources,
		aggregate.WithMaxConcurrency(concurrency),
		aggregate.WithLogger(deps.Logger),
	)

	snapshot, err := aggregator.Aggregate(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return err
	}

	if err := deps.Snapshots.Write(c.Output, snapshot); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", docyard.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Processed %d items from %d sources into %s\n",
		snapshot.Metadata.TotalItems, len(snapshot.Metadata.Sources), c.Output)
	return nil
}

// buildSources constructs one producer per configured source. The returned
// cleanup closes any fetchers the website producers hold.
func buildSources(cfg *docyard.Config, concurrency int, logger *slog.Logger) ([]aggregate.Source, func(), error) {
	var fetchers []docyard.Fetcher
	cleanup := func() {
		for _, f := range fetchers {
			if err := f.Close(); err != nil {
				logger.Warn("fetcher close failed", "err", err)
			}
		}
	}

	sources := make([]aggregate.Source, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		var producer docyard.Producer
		switch {
		case src.Website != nil:
			p, fetcher, err := websiteProducer(src, cfg.Options, concurrency, logger)
			if err != nil {
				cleanup()
				return nil, nil, err
			}
			fetchers = append(fetchers, fetcher)
			producer = p
		case src.GitHub != nil:
			producer = gitrepo.NewProducer(src.Name, *src.GitHub, gitrepo.WithLogger(logger))
		case src.Local != nil:
			producer = localfs.NewProducer(src.Name, *src.Local, localfs.WithLogger(logger))
		default:
			cleanup()
			return nil, nil, docyard.Errorf(docyard.EINVALID, "source %q has no configured variant", src.Name)
		}

		sources = append(sources, aggregate.Source{
			Name:     src.Name,
			Producer: docslog.NewLoggingProducer(src.Name, producer, logger),
		})
	}

	return sources, cleanup, nil
}

// websiteProducer wires the crawl pipeline for one website source.
func websiteProducer(src docyard.Source, opts docyard.Options, concurrency int, logger *slog.Logger) (docyard.Producer, docyard.Fetcher, error) {
	web := *src.Website

	var fetcher docyard.Fetcher
	if web.Render {
		var rodOpts []rod.Option
		if opts.Timeout > 0 {
			rodOpts = append(rodOpts, rod.WithFetchTimeout(opts.Timeout))
		}
		f, err := rod.NewFetcher(rodOpts...)
		if err != nil {
			return nil, nil, fmt.Errorf("starting browser for source %s: %w", src.Name, err)
		}
		fetcher = f
	} else {
		var httpOpts []dochttp.Option
		if opts.Timeout > 0 {
			httpOpts = append(httpOpts, dochttp.WithTimeout(opts.Timeout))
		}
		fetcher = dochttp.NewFetcher(httpOpts...)
	}

	var extractor docyard.Extractor
	switch web.Extractor {
	case docyard.ExtractArticle:
		extractor = trafilatura.NewExtractor()
	case docyard.ExtractReadability:
		extractor = readability.NewExtractor()
	default:
		extractor = goquery.NewExtractor(
			goquery.WithContentSelector(web.ContentSelector),
			goquery.WithTitleSelector(web.TitleSelector),
		)
	}

	var sitemaps docyard.SitemapService
	if web.Sitemap {
		sitemaps = docslog.NewLoggingSitemapService(dochttp.NewSitemapService(nil), logger)
	}

	crawler := &crawl.Crawler{
		Fetcher:     docslog.NewLoggingFetcher(fetcher, logger),
		Extractor:   extractor,
		Converter:   htmltomarkdown.NewConverter(),
		Links:       goquery.NewLinkExtractor(),
		Limiter:     crawl.NewDomainLimiter(crawlRequestsPerSecond),
		Sitemaps:    sitemaps,
		Concurrency: concurrency,
		Logger:      logger,
	}

	return &crawl.Producer{Crawler: crawler, Name: src.Name, Source: web}, fetcher, nil
}
