package aggregate_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docyard/docyard"
	"github.com/docyard/docyard/aggregate"
	"github.com/docyard/docyard/mock"
)

func item(id, title, path string) docyard.ContentItem {
	return docyard.ContentItem{
		ID:      id,
		Title:   title,
		Content: title + " content.",
		Path:    path,
		Type:    docyard.TypeMarkdown,
		Source:  "src",
	}
}

func produceItems(items ...docyard.ContentItem) *mock.Producer {
	return &mock.Producer{
		ProduceFn: func(ctx context.Context) ([]docyard.ContentItem, error) {
			return items, nil
		},
	}
}

func itemIDs(items []docyard.ContentItem) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

func TestAggregator_Aggregate(t *testing.T) {
	t.Parallel()

	t.Run("combines items preserving source order", func(t *testing.T) {
		t.Parallel()

		a := aggregate.NewAggregator([]aggregate.Source{
			{Name: "alpha", Producer: produceItems(
				item("a1", "Alpha One", "a/one.md"),
				item("a2", "Alpha Two", "a/two.md"),
			)},
			{Name: "beta", Producer: produceItems(
				item("b1", "Beta One", "b/one.md"),
			)},
		})

		snap, err := a.Aggregate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"a1", "a2", "b1"}, itemIDs(snap.Items))
		assert.Equal(t, []string{"alpha", "beta"}, snap.Metadata.Sources)
		assert.Equal(t, 3, snap.Metadata.TotalItems)
		assert.WithinDuration(t, time.Now(), snap.Metadata.LastProcessed, time.Minute)

		require.Len(t, snap.Index, 3)
		assert.Equal(t, "Alpha One", snap.Index["a1"].Title)
		assert.Contains(t, snap.Index["a1"].Keywords, "alpha")
	})

	t.Run("runs producers sequentially in source order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mock.Producer {
			return &mock.Producer{
				ProduceFn: func(ctx context.Context) ([]docyard.ContentItem, error) {
					order = append(order, name)
					return nil, nil
				},
			}
		}
		a := aggregate.NewAggregator([]aggregate.Source{
			{Name: "one", Producer: record("one")},
			{Name: "two", Producer: record("two")},
			{Name: "three", Producer: record("three")},
		})

		_, err := a.Aggregate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"one", "two", "three"}, order)
	})

	t.Run("producer failure aborts the whole run", func(t *testing.T) {
		t.Parallel()

		a := aggregate.NewAggregator([]aggregate.Source{
			{Name: "alpha", Producer: produceItems(item("a1", "Alpha", "a.md"))},
			{Name: "beta", Producer: &mock.Producer{
				ProduceFn: func(ctx context.Context) ([]docyard.ContentItem, error) {
					return nil, docyard.Errorf(docyard.EUNAVAILABLE, "site is down")
				},
			}},
		})

		snap, err := a.Aggregate(context.Background())

		assert.Nil(t, snap)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source beta")
		assert.Equal(t, docyard.EUNAVAILABLE, docyard.ErrorCode(err))
	})

	t.Run("concurrent mode overlaps producers and keeps source order", func(t *testing.T) {
		t.Parallel()

		var inflight, maxInflight atomic.Int64
		slow := func(items ...docyard.ContentItem) *mock.Producer {
			return &mock.Producer{
				ProduceFn: func(ctx context.Context) ([]docyard.ContentItem, error) {
					cur := inflight.Add(1)
					for {
						max := maxInflight.Load()
						if cur <= max || maxInflight.CompareAndSwap(max, cur) {
							break
						}
					}
					time.Sleep(25 * time.Millisecond)
					inflight.Add(-1)
					return items, nil
				},
			}
		}
		a := aggregate.NewAggregator([]aggregate.Source{
			{Name: "one", Producer: slow(item("i1", "One", "1.md"))},
			{Name: "two", Producer: slow(item("i2", "Two", "2.md"))},
			{Name: "three", Producer: slow(item("i3", "Three", "3.md"))},
		}, aggregate.WithMaxConcurrency(2))

		snap, err := a.Aggregate(context.Background())

		require.NoError(t, err)
		assert.Equal(t, []string{"i1", "i2", "i3"}, itemIDs(snap.Items))
		assert.Equal(t, int64(2), maxInflight.Load(), "exactly the limit runs at once")
	})

	t.Run("concurrent failure cancels producers still running", func(t *testing.T) {
		t.Parallel()

		a := aggregate.NewAggregator([]aggregate.Source{
			{Name: "slow", Producer: &mock.Producer{
				ProduceFn: func(ctx context.Context) ([]docyard.ContentItem, error) {
					<-ctx.Done()
					return nil, ctx.Err()
				},
			}},
			{Name: "bad", Producer: &mock.Producer{
				ProduceFn: func(ctx context.Context) ([]docyard.ContentItem, error) {
					time.Sleep(5 * time.Millisecond)
					return nil, docyard.Errorf(docyard.EUNAVAILABLE, "clone failed")
				},
			}},
		}, aggregate.WithMaxConcurrency(2))

		snap, err := a.Aggregate(context.Background())

		assert.Nil(t, snap)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "source bad")
	})

	t.Run("logs and keeps cross-source ID collisions", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		a := aggregate.NewAggregator([]aggregate.Source{
			{Name: "alpha", Producer: produceItems(item("dup", "First", "a.md"))},
			{Name: "beta", Producer: produceItems(item("dup", "Second", "b.md"))},
		}, aggregate.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))

		snap, err := a.Aggregate(context.Background())

		require.NoError(t, err)
		assert.Len(t, snap.Items, 2, "colliding items are both kept")
		require.Len(t, snap.Index, 1)
		assert.Equal(t, "Second", snap.Index["dup"].Title, "index entry is last-write-wins")
		assert.Contains(t, buf.String(), "item ID collision")
	})

	t.Run("empty source list yields an empty snapshot", func(t *testing.T) {
		t.Parallel()

		snap, err := aggregate.NewAggregator(nil).Aggregate(context.Background())

		require.NoError(t, err)
		assert.Empty(t, snap.Items)
		assert.Empty(t, snap.Index)
		assert.Zero(t, snap.Metadata.TotalItems)
	})
}
