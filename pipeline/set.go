package pipeline

import "context"

// GroupBy buckets values by selector. Buckets are emitted in first-seen key
// order and keep their values in source order.
func GroupBy[T any, K comparable](p *Pipeline[T], selector Mapper[T, K]) *Pipeline[Pair[K, []T]] {
	return buffered(p, func(ctx context.Context, items []T) ([]Pair[K, []T], error) {
		var groups []Pair[K, []T]
		position := make(map[K]int)
		for i, v := range items {
			k, err := selector(ctx, v, i)
			if err != nil {
				return nil, err
			}
			at, ok := position[k]
			if !ok {
				at = len(groups)
				position[k] = at
				groups = append(groups, Pair[K, []T]{Key: k})
			}
			groups[at].Value = append(groups[at].Value, v)
		}
		return groups, nil
	})
}

// CountBy counts values per selector value, in first-seen key order.
func CountBy[T any, K comparable](p *Pipeline[T], selector Mapper[T, K]) *Pipeline[Pair[K, int]] {
	return Map(GroupBy(p, selector), Fn(func(g Pair[K, []T], _ int) Pair[K, int] {
		return Pair[K, int]{Key: g.Key, Value: len(g.Value)}
	}))
}

// Unique emits the first occurrence of every distinct value.
func Unique[T comparable](p *Pipeline[T]) *Pipeline[T] {
	return UniqueBy(p, Fn(func(v T, _ int) T { return v }))
}

// UniqueBy emits the first value seen for every distinct selector value.
func UniqueBy[T any, K comparable](p *Pipeline[T], selector Mapper[T, K]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		seen := make(map[K]struct{})
		return &filterIter[T]{source: p.open(ctx), keep: true, pred: func(ctx context.Context, v T, i int) (bool, error) {
			k, err := selector(ctx, v, i)
			if err != nil {
				return false, err
			}
			if _, dup := seen[k]; dup {
				return false, nil
			}
			seen[k] = struct{}{}
			return true, nil
		}}
	})
}

// Difference keeps the values that do not occur in other.
func Difference[T comparable](p, other *Pipeline[T]) *Pipeline[T] {
	return DifferenceBy(p, other, func(v T) T { return v })
}

// DifferenceBy keeps the values whose selector value matches no value of
// other. other is read on the first pull of every enumeration.
func DifferenceBy[T any, K comparable](p, other *Pipeline[T], selector func(T) K) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		var exclude map[K]struct{}
		return &filterIter[T]{source: p.open(ctx), keep: false, pred: func(ctx context.Context, v T, _ int) (bool, error) {
			if exclude == nil {
				items, err := collect(ctx, other)
				if err != nil {
					return false, err
				}
				exclude = make(map[K]struct{}, len(items))
				for _, o := range items {
					exclude[selector(o)] = struct{}{}
				}
			}
			_, found := exclude[selector(v)]
			return found, nil
		}}
	})
}

// CrossJoin emits the cartesian product of p and others as flat tuples.
// The leftmost input varies slowest.
func CrossJoin[T any](p *Pipeline[T], others ...*Pipeline[T]) *Pipeline[[]T] {
	return buffered(p, func(ctx context.Context, first []T) ([][]T, error) {
		combos := [][]T{{}}
		for i := -1; i < len(others); i++ {
			items := first
			if i >= 0 {
				var err error
				if items, err = collect(ctx, others[i]); err != nil {
					return nil, err
				}
			}
			next := make([][]T, 0, len(combos)*len(items))
			for _, partial := range combos {
				for _, v := range items {
					combo := make([]T, len(partial)+1)
					copy(combo, partial)
					combo[len(partial)] = v
					next = append(next, combo)
				}
			}
			combos = next
		}
		return combos, nil
	})
}

// Zip pairs values positionally. The result is as long as the shorter input.
func Zip[T, U any](p *Pipeline[T], other *Pipeline[U]) *Pipeline[Pair[T, U]] {
	return newPipeline(func(ctx context.Context) Iterator[Pair[T, U]] {
		return &zipIter[T, U]{left: p.open(ctx), right: other.open(ctx)}
	})
}

type zipIter[T, U any] struct {
	left  Iterator[T]
	right Iterator[U]
}

func (it *zipIter[T, U]) Next(ctx context.Context) (result Pair[T, U], ok bool, err error) {
	l, ok, err := it.left.Next(ctx)
	if err != nil || !ok {
		return result, false, err
	}
	r, ok, err := it.right.Next(ctx)
	if err != nil || !ok {
		return result, false, err
	}
	return Pair[T, U]{Key: l, Value: r}, true, nil
}

func (it *zipIter[T, U]) Close() error {
	lerr := it.left.Close()
	if rerr := it.right.Close(); lerr == nil {
		return rerr
	}
	return lerr
}

// PadStart prepends copies of fill until there are target values. Whole
// repetitions of fill come first, then a prefix of fill.
func (p *Pipeline[T]) PadStart(target int, fill *Pipeline[T]) *Pipeline[T] {
	return p.pad(target, fill, true)
}

// PadEnd appends copies of fill until there are target values.
func (p *Pipeline[T]) PadEnd(target int, fill *Pipeline[T]) *Pipeline[T] {
	return p.pad(target, fill, false)
}

func (p *Pipeline[T]) pad(target int, fill *Pipeline[T], start bool) *Pipeline[T] {
	return buffered(p, func(ctx context.Context, items []T) ([]T, error) {
		missing := target - len(items)
		if missing <= 0 {
			return items, nil
		}
		pattern, err := collect(ctx, fill)
		if err != nil || len(pattern) == 0 {
			return items, err
		}
		padding := make([]T, 0, missing)
		for range missing / len(pattern) {
			padding = append(padding, pattern...)
		}
		padding = append(padding, pattern[:missing%len(pattern)]...)
		if start {
			return append(padding, items...), nil
		}
		return append(items, padding...), nil
	})
}
