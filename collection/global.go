package collection

import (
	"cmp"
	"math/rand/v2"
	"slices"

	"github.com/kbukum/collectkit/errors"
)

// Sort yields the items in ascending natural order.
func Sort[T cmp.Ordered](c Collection[T]) Collection[T] {
	return c.SortFunc(cmp.Compare[T])
}

// SortFunc yields the items ordered by compare. Equal items keep their
// source order.
func (c Collection[T]) SortFunc(compare func(a, b T) int) Collection[T] {
	return c.reorder(func(items []T) { slices.SortStableFunc(items, compare) })
}

// Shuffle yields the items in random order drawn from rng. A nil rng uses
// the package-level source.
func (c Collection[T]) Shuffle(rng *rand.Rand) Collection[T] {
	return c.reorder(func(items []T) {
		swap := func(i, j int) { items[i], items[j] = items[j], items[i] }
		if rng == nil {
			rand.Shuffle(len(items), swap)
			return
		}
		rng.Shuffle(len(items), swap)
	})
}

func (c Collection[T]) reorder(fn func([]T)) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		items, err := c.collect()
		if err != nil {
			return err
		}
		fn(items)
		for _, v := range items {
			if !yield(v) {
				return nil
			}
		}
		return nil
	})
}

// Slice yields the items in [start, end). Negative bounds count from the
// end of the sequence. Non-negative bounds stream; negative ones buffer.
func (c Collection[T]) Slice(start, end int) Collection[T] {
	if start >= 0 && end >= 0 {
		if end <= start {
			return Empty[T]()
		}
		return c.Skip(start).Take(end - start)
	}
	return c.bufferedSlice(start, &end)
}

// SliceFrom yields the items from start to the end of the sequence.
func (c Collection[T]) SliceFrom(start int) Collection[T] {
	if start >= 0 {
		return c.Skip(start)
	}
	return c.bufferedSlice(start, nil)
}

func (c Collection[T]) bufferedSlice(start int, end *int) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		items, err := c.collect()
		if err != nil {
			return err
		}
		from := clampIndex(start, len(items))
		to := len(items)
		if end != nil {
			to = clampIndex(*end, len(items))
		}
		for i := from; i < to; i++ {
			if !yield(items[i]) {
				return nil
			}
		}
		return nil
	})
}

func clampIndex(i, length int) int {
	if i < 0 {
		return max(length+i, 0)
	}
	return min(i, length)
}

// Page yields the pageSize items of the 1-based page.
func (c Collection[T]) Page(page, pageSize int) Collection[T] {
	if page <= 0 {
		return failed[T](errors.InvalidArgument("page", "page", page, "must be positive"))
	}
	if pageSize <= 0 {
		return failed[T](errors.InvalidArgument("page", "pageSize", pageSize, "must be positive"))
	}
	return c.Slice((page-1)*pageSize, page*pageSize)
}
