package mock

import (
	"context"

	"github.com/docyard/docyard"
)

var _ docyard.Producer = (*Producer)(nil)

// Producer is a mock implementation of docyard.Producer.
type Producer struct {
	ProduceFn func(ctx context.Context) ([]docyard.ContentItem, error)
}

func (p *Producer) Produce(ctx context.Context) ([]docyard.ContentItem, error) {
	return p.ProduceFn(ctx)
}
