package collection

import "iter"

// GroupBy buckets items by selector in a single pass. Buckets are yielded
// in first-seen key order and keep their items in source order.
func GroupBy[T any, K comparable](c Collection[T], selector Mapper[T, K]) Collection[Pair[K, []T]] {
	return newCollection(func(yield func(Pair[K, []T]) bool) error {
		var keys []K
		buckets := make(map[K][]T)
		index := 0
		err := c.run(func(v T) bool {
			k := selector(v, index)
			index++
			if _, ok := buckets[k]; !ok {
				keys = append(keys, k)
			}
			buckets[k] = append(buckets[k], v)
			return true
		})
		if err != nil {
			return err
		}
		for _, k := range keys {
			if !yield(Pair[K, []T]{Key: k, Value: buckets[k]}) {
				return nil
			}
		}
		return nil
	})
}

// CountBy counts items per selector value, in first-seen key order.
func CountBy[T any, K comparable](c Collection[T], selector Mapper[T, K]) Collection[Pair[K, int]] {
	return Map(GroupBy(c, selector), func(p Pair[K, []T], _ int) Pair[K, int] {
		return Pair[K, int]{Key: p.Key, Value: len(p.Value)}
	})
}

// Unique yields the first occurrence of every distinct item.
func Unique[T comparable](c Collection[T]) Collection[T] {
	return UniqueBy(c, func(v T, _ int) T { return v })
}

// UniqueBy yields the first item seen for every distinct selector value.
func UniqueBy[T any, K comparable](c Collection[T], selector Mapper[T, K]) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		seen := make(map[K]struct{})
		index := 0
		return c.run(func(v T) bool {
			k := selector(v, index)
			index++
			if _, ok := seen[k]; ok {
				return true
			}
			seen[k] = struct{}{}
			return yield(v)
		})
	})
}

// Difference keeps the items that do not occur in other.
func Difference[T comparable](c, other Collection[T]) Collection[T] {
	return DifferenceBy(c, other, func(v T) T { return v })
}

// DifferenceBy keeps the items whose selector value matches no item of other.
// other is read once per enumeration.
func DifferenceBy[T any, K comparable](c, other Collection[T], selector func(T) K) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		exclude := make(map[K]struct{})
		err := other.run(func(v T) bool {
			exclude[selector(v)] = struct{}{}
			return true
		})
		if err != nil {
			return err
		}
		return c.run(func(v T) bool {
			if _, ok := exclude[selector(v)]; ok {
				return true
			}
			return yield(v)
		})
	})
}

// CrossJoin yields the cartesian product of c and others as flat tuples.
// The leftmost input varies slowest.
func CrossJoin[T any](c Collection[T], others ...Collection[T]) Collection[[]T] {
	return newCollection(func(yield func([]T) bool) error {
		combos := [][]T{{}}
		for _, input := range append([]Collection[T]{c}, others...) {
			items, err := input.collect()
			if err != nil {
				return err
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
		for _, combo := range combos {
			if !yield(combo) {
				return nil
			}
		}
		return nil
	})
}

// Zip pairs items positionally. The result is as long as the shorter input.
func Zip[T, U any](c Collection[T], other Collection[U]) Collection[Pair[T, U]] {
	return newCollection(func(yield func(Pair[T, U]) bool) error {
		next, stop := iter.Pull2(other.Iter())
		defer stop()
		var otherErr error
		err := c.run(func(v T) bool {
			u, uerr, ok := next()
			if !ok {
				return false
			}
			if uerr != nil {
				otherErr = uerr
				return false
			}
			return yield(Pair[T, U]{Key: v, Value: u})
		})
		if otherErr != nil {
			return otherErr
		}
		return err
	})
}

// PadStart prepends copies of fill until the sequence has target items.
// Whole repetitions of fill come first, then a prefix of fill. Sequences
// already at least target long are unchanged.
func (c Collection[T]) PadStart(target int, fill Collection[T]) Collection[T] {
	return c.pad(target, fill, true)
}

// PadEnd appends copies of fill until the sequence has target items.
func (c Collection[T]) PadEnd(target int, fill Collection[T]) Collection[T] {
	return c.pad(target, fill, false)
}

func (c Collection[T]) pad(target int, fill Collection[T], start bool) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		items, err := c.collect()
		if err != nil {
			return err
		}
		padding, err := paddingFor(len(items), target, fill)
		if err != nil {
			return err
		}
		var out []T
		if start {
			out = append(padding, items...)
		} else {
			out = append(items, padding...)
		}
		for _, v := range out {
			if !yield(v) {
				return nil
			}
		}
		return nil
	})
}

func paddingFor[T any](length, target int, fill Collection[T]) ([]T, error) {
	missing := target - length
	if missing <= 0 {
		return nil, nil
	}
	pattern, err := fill.collect()
	if err != nil || len(pattern) == 0 {
		return nil, err
	}
	out := make([]T, 0, missing)
	for range missing / len(pattern) {
		out = append(out, pattern...)
	}
	return append(out, pattern[:missing%len(pattern)]...), nil
}
