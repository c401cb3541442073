package pipeline

import (
	"cmp"
	"context"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/kbukum/collectkit/errors"
)

// buffered drains the upstream on the first pull, hands every value to fn
// and emits fn's result.
func buffered[T, R any](p *Pipeline[T], fn func(ctx context.Context, items []T) ([]R, error)) *Pipeline[R] {
	return newPipeline(func(ctx context.Context) Iterator[R] {
		source := p.open(ctx)
		return &bufferedIter[T, R]{
			load: func(ctx context.Context) ([]R, error) {
				items, err := drain(ctx, source)
				if err != nil {
					return nil, err
				}
				return fn(ctx, items)
			},
			closer: source.Close,
		}
	})
}

type bufferedIter[T, R any] struct {
	load   func(ctx context.Context) ([]R, error)
	closer func() error
	items  []R
	loaded bool
	index  int
}

func (it *bufferedIter[T, R]) Next(ctx context.Context) (result R, ok bool, err error) {
	var zero R
	if !it.loaded {
		items, err := it.load(ctx)
		if err != nil {
			return zero, false, err
		}
		it.items, it.loaded = items, true
	}
	if it.index >= len(it.items) {
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *bufferedIter[T, R]) Close() error {
	if it.closer != nil {
		return it.closer()
	}
	return nil
}

// drain pulls every remaining value from it without closing it.
func drain[T any](ctx context.Context, it Iterator[T]) ([]T, error) {
	var items []T
	for {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return items, nil
		}
		items = append(items, val)
	}
}

// collect opens p, drains it and closes it.
func collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	it := p.open(ctx)
	defer it.Close()
	return drain(ctx, it)
}

type snapshot[T any] struct {
	mu     sync.Mutex
	loaded bool
	items  []T
}

func (s *snapshot[T]) load(ctx context.Context, p *Pipeline[T]) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.items, nil
	}
	items, err := collect(ctx, p)
	if err != nil {
		return nil, err
	}
	s.items, s.loaded = items, true
	return s.items, nil
}

// Sort emits the values in ascending natural order.
func Sort[T cmp.Ordered](p *Pipeline[T]) *Pipeline[T] {
	return p.SortFunc(cmp.Compare[T])
}

// SortFunc emits the values ordered by compare. Equal values keep their order.
func (p *Pipeline[T]) SortFunc(compare func(a, b T) int) *Pipeline[T] {
	return buffered(p, func(_ context.Context, items []T) ([]T, error) {
		slices.SortStableFunc(items, compare)
		return items, nil
	})
}

// Shuffle emits the values in random order drawn from rng. A nil rng uses
// the package-level source.
func (p *Pipeline[T]) Shuffle(rng *rand.Rand) *Pipeline[T] {
	return buffered(p, func(_ context.Context, items []T) ([]T, error) {
		swap := func(i, j int) { items[i], items[j] = items[j], items[i] }
		if rng == nil {
			rand.Shuffle(len(items), swap)
		} else {
			rng.Shuffle(len(items), swap)
		}
		return items, nil
	})
}

// Slice emits the values in [start, end). Negative bounds count from the end.
// Non-negative bounds stream; negative ones buffer the upstream.
func (p *Pipeline[T]) Slice(start, end int) *Pipeline[T] {
	if start >= 0 && end >= 0 {
		if end <= start {
			return Empty[T]()
		}
		return p.Skip(start).Take(end - start)
	}
	return buffered(p, func(_ context.Context, items []T) ([]T, error) {
		from, to := clampIndex(start, len(items)), clampIndex(end, len(items))
		if to <= from {
			return nil, nil
		}
		return items[from:to], nil
	})
}

// SliceFrom emits the values from start to the end.
func (p *Pipeline[T]) SliceFrom(start int) *Pipeline[T] {
	if start >= 0 {
		return p.Skip(start)
	}
	return buffered(p, func(_ context.Context, items []T) ([]T, error) {
		return items[clampIndex(start, len(items)):], nil
	})
}

func clampIndex(i, length int) int {
	if i < 0 {
		return max(length+i, 0)
	}
	return min(i, length)
}

// Page emits the pageSize values of the 1-based page.
func (p *Pipeline[T]) Page(page, pageSize int) *Pipeline[T] {
	if page <= 0 {
		return failed[T](errors.InvalidArgument("page", "page", page, "must be positive"))
	}
	if pageSize <= 0 {
		return failed[T](errors.InvalidArgument("page", "pageSize", pageSize, "must be positive"))
	}
	return p.Slice((page-1)*pageSize, page*pageSize)
}
