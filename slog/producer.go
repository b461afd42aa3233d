package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/docyard/docyard"
)

// Ensure LoggingProducer implements docyard.Producer at compile time.
var _ docyard.Producer = (*LoggingProducer)(nil)

// LoggingProducer wraps a Producer with per-run logging.
type LoggingProducer struct {
	name   string
	next   docyard.Producer
	logger *slog.Logger
}

// NewLoggingProducer creates a new LoggingProducer for the named source.
func NewLoggingProducer(name string, next docyard.Producer, logger *slog.Logger) *LoggingProducer {
	return &LoggingProducer{name: name, next: next, logger: logger}
}

// Produce delegates to the wrapped producer and logs the run.
func (p *LoggingProducer) Produce(ctx context.Context) (items []docyard.ContentItem, err error) {
	defer func(begin time.Time) {
		p.logger.Info("produce",
			"source", p.name,
			"items", len(items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Produce(ctx)
}
