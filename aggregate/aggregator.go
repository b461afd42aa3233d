// Package aggregate runs the configured producers and assembles their items
// into one processed content snapshot.
package aggregate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docyard/docyard"
)

// Source pairs a configured source name with its producer. Order is
// significant: items land in the snapshot in source order.
type Source struct {
	Name     string
	Producer docyard.Producer
}

// Aggregator produces one snapshot from an ordered list of sources. Any
// producer failure aborts the whole run; there is no partial-success mode.
type Aggregator struct {
	sources        []Source
	maxConcurrency int
	logger         *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithMaxConcurrency allows up to n producers to run at once. Values below
// two keep the run strictly sequential in source order.
func WithMaxConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.maxConcurrency = n
	}
}

// WithLogger sets the logger for collision warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator returns an aggregator over the given sources.
func NewAggregator(sources []Source, opts ...Option) *Aggregator {
	a := &Aggregator{
		sources: sources,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Aggregate runs every producer and returns the combined snapshot. Results
// keep configuration order even when producers run concurrently. The first
// producer error cancels any producers still running and aborts the run,
// wrapped with the failing source's name.
func (a *Aggregator) Aggregate(ctx context.Context) (*docyard.ProcessedContent, error) {
	results := make([][]docyard.ContentItem, len(a.sources))

	if a.maxConcurrency > 1 {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(a.maxConcurrency)
		for i, src := range a.sources {
			g.Go(func() error {
				items, err := src.Producer.Produce(gctx)
				if err != nil {
					return fmt.Errorf("source %s: %w", src.Name, err)
				}
				results[i] = items
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, src := range a.sources {
			items, err := src.Producer.Produce(ctx)
			if err != nil {
				return nil, fmt.Errorf("source %s: %w", src.Name, err)
			}
			results[i] = items
		}
	}

	total := 0
	for _, batch := range results {
		total += len(batch)
	}

	// No cross-source dedup: colliding items are all kept and the index
	// entry is last-write-wins, so collisions are surfaced in the log.
	items := make([]docyard.ContentItem, 0, total)
	firstPath := make(map[string]string, total)
	for _, batch := range results {
		for _, item := range batch {
			if prev, ok := firstPath[item.ID]; ok {
				a.logger.Warn("item ID collision",
					"id", item.ID, "path", item.Path, "previous", prev)
			} else {
				firstPath[item.ID] = item.Path
			}
			items = append(items, item)
		}
	}

	names := make([]string, len(a.sources))
	for i, src := range a.sources {
		names[i] = src.Name
	}

	return &docyard.ProcessedContent{
		Items: items,
		Index: docyard.BuildIndex(items),
		Metadata: docyard.ProcessMetadata{
			TotalItems:    total,
			Sources:       names,
			LastProcessed: time.Now(),
		},
	}, nil
}
