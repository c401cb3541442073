package pipeline

import (
	"context"

	"github.com/kbukum/collectkit/errors"
)

// Chunk collects size values, then emits them as a slice. The last chunk
// may be shorter. A non-positive size fails the enumeration with a type error.
func Chunk[T any](p *Pipeline[T], size int) *Pipeline[[]T] {
	if size <= 0 {
		return failed[[]T](errors.InvalidArgument("chunk", "size", size, "must be positive"))
	}
	return newPipeline(func(ctx context.Context) Iterator[[]T] {
		return &chunkIter[T]{source: p.open(ctx), size: size}
	})
}

type chunkIter[T any] struct {
	source Iterator[T]
	size   int
	done   bool
}

func (it *chunkIter[T]) Next(ctx context.Context) (result []T, ok bool, err error) {
	if it.done {
		return nil, false, nil
	}
	chunk := make([]T, 0, it.size)
	for len(chunk) < it.size {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			if len(chunk) > 0 {
				return chunk, true, nil
			}
			return nil, false, nil
		}
		chunk = append(chunk, val)
	}
	return chunk, true, nil
}

func (it *chunkIter[T]) Close() error { return it.source.Close() }

// ChunkWhile extends the current chunk while pred holds for the next value
// and starts a new chunk when it does not. pred sees the chunk being built.
func ChunkWhile[T any](p *Pipeline[T], pred func(ctx context.Context, item T, index int, chunk []T) (bool, error)) *Pipeline[[]T] {
	return newPipeline(func(ctx context.Context) Iterator[[]T] {
		return &chunkWhileIter[T]{source: p.open(ctx), pred: pred}
	})
}

type chunkWhileIter[T any] struct {
	source Iterator[T]
	pred   func(context.Context, T, int, []T) (bool, error)
	chunk  []T
	index  int
	done   bool
}

func (it *chunkWhileIter[T]) Next(ctx context.Context) (result []T, ok bool, err error) {
	for !it.done {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			break
		}
		i := it.index
		it.index++
		if i == 0 {
			it.chunk = []T{val}
			continue
		}
		extend, err := it.pred(ctx, val, i, it.chunk)
		if err != nil {
			return nil, false, err
		}
		if extend {
			it.chunk = append(it.chunk, val)
			continue
		}
		out := it.chunk
		it.chunk = []T{val}
		return out, true, nil
	}
	if len(it.chunk) > 0 {
		out := it.chunk
		it.chunk = nil
		return out, true, nil
	}
	return nil, false, nil
}

func (it *chunkWhileIter[T]) Close() error { return it.source.Close() }

// Split divides the values into exactly n groups whose sizes differ by at
// most one. Earlier groups receive the extra values; when there are fewer
// values than groups the trailing groups are empty.
func Split[T any](p *Pipeline[T], n int) *Pipeline[[]T] {
	if n <= 0 {
		return failed[[]T](errors.InvalidArgument("split", "n", n, "must be positive"))
	}
	return buffered(p, func(_ context.Context, items []T) ([][]T, error) {
		base, extra := len(items)/n, len(items)%n
		groups := make([][]T, 0, n)
		start := 0
		for g := range n {
			size := base
			if g < extra {
				size++
			}
			group := []T{}
			if size > 0 {
				group = items[start : start+size : start+size]
			}
			groups = append(groups, group)
			start += size
		}
		return groups, nil
	})
}

// Partition emits exactly two groups: the values matching pred, then the rest.
func Partition[T any](p *Pipeline[T], pred Predicate[T]) *Pipeline[[]T] {
	return buffered(p, func(ctx context.Context, items []T) ([][]T, error) {
		matched, rest := []T{}, []T{}
		for i, v := range items {
			ok, err := pred(ctx, v, i)
			if err != nil {
				return nil, err
			}
			if ok {
				matched = append(matched, v)
			} else {
				rest = append(rest, v)
			}
		}
		return [][]T{matched, rest}, nil
	})
}
