package cache

import (
	"context"
	"time"

	"github.com/kbukum/collectkit/pipeline"
)

// DeleteBatchSize is the number of keys DeleteMany sends per adapter call.
const DeleteBatchSize = 100

type lookup[T any] struct {
	key   string
	value T
	found bool
}

// GetMany returns the values found for keys. Missing keys are absent from
// the result. Keys are read in order and the first failure stops the scan.
func (c *Cache[T]) GetMany(ctx context.Context, keys ...string) (values map[string]T, err error) {
	ctx, op := c.start(ctx, "get_many", len(keys))
	defer func() { op.End(ctx, err) }()

	hits, err := pipeline.Map(pipeline.FromSlice(keys), func(ctx context.Context, key string, _ int) (lookup[T], error) {
		v, found, err := c.get(ctx, key)
		return lookup[T]{key: key, value: v, found: found}, err
	}).Filter(pipeline.Pred(func(l lookup[T], _ int) bool { return l.found })).Collect(ctx)
	if err != nil {
		return nil, err
	}

	values = make(map[string]T, len(hits))
	for _, h := range hits {
		values[h.key] = h.value
	}
	return values, nil
}

// SetMany stores every entry of items, in ascending key order.
func (c *Cache[T]) SetMany(ctx context.Context, items map[string]T, ttl time.Duration) (err error) {
	ctx, op := c.start(ctx, "set_many", len(items))
	defer func() { op.End(ctx, err) }()

	return pipeline.FromMap(items).ForEach(ctx, func(ctx context.Context, item pipeline.Pair[string, T], _ int) error {
		return c.set(ctx, item.Key, item.Value, ttl)
	})
}

// DeleteMany removes keys in batches of DeleteBatchSize and returns how
// many held a value.
func (c *Cache[T]) DeleteMany(ctx context.Context, keys []string) (removed int, err error) {
	ctx, op := c.start(ctx, "delete_many", len(keys))
	defer func() { op.End(ctx, err) }()

	return pipeline.ReduceInto(ctx, pipeline.Chunk(pipeline.FromSlice(keys), DeleteBatchSize), 0,
		func(ctx context.Context, total int, batch []string, _ int) (int, error) {
			n, err := c.delete(ctx, batch)
			return total + n, err
		})
}
