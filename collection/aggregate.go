package collection

import (
	"cmp"
	"slices"

	"github.com/kbukum/collectkit/errors"
)

// Number is the set of types the numeric aggregates accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr |
		~float32 | ~float64
}

// Sum adds up the items. An empty collection fails with EMPTY_COLLECTION.
func Sum[T Number](c Collection[T]) (T, error) {
	var total T
	n, err := drainCounting(c, func(v T) { total += v })
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.EmptyCollection("sum")
	}
	return total, nil
}

// Average returns the arithmetic mean of the items.
func Average[T Number](c Collection[T]) (float64, error) {
	var total float64
	n, err := drainCounting(c, func(v T) { total += float64(v) })
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.EmptyCollection("average")
	}
	return total / float64(n), nil
}

// Median returns the middle item in sorted order, or the mean of the two
// middle items when the count is even.
func Median[T Number](c Collection[T]) (float64, error) {
	items, err := c.collect()
	if err != nil {
		return 0, errors.Wrap(err)
	}
	if len(items) == 0 {
		return 0, errors.EmptyCollection("median")
	}
	slices.Sort(items)
	mid := len(items) / 2
	if len(items)%2 == 1 {
		return float64(items[mid]), nil
	}
	return (float64(items[mid-1]) + float64(items[mid])) / 2, nil
}

// Min returns the smallest item.
func Min[T cmp.Ordered](c Collection[T]) (T, error) {
	return extreme(c, "min", func(a, b T) bool { return b < a })
}

// Max returns the largest item.
func Max[T cmp.Ordered](c Collection[T]) (T, error) {
	return extreme(c, "max", func(a, b T) bool { return b > a })
}

func extreme[T any](c Collection[T], operation string, better func(current, candidate T) bool) (T, error) {
	var best T
	first := true
	n, err := drainCounting(c, func(v T) {
		if first || better(best, v) {
			best, first = v, false
		}
	})
	if err != nil {
		var zero T
		return zero, err
	}
	if n == 0 {
		var zero T
		return zero, errors.EmptyCollection(operation)
	}
	return best, nil
}

// Percentage returns the share of items matching pred, from 0 to 100.
func (c Collection[T]) Percentage(pred Predicate[T]) (float64, error) {
	matched, total := 0, 0
	err := c.run(func(v T) bool {
		if pred(v, total) {
			matched++
		}
		total++
		return true
	})
	if err != nil {
		return 0, errors.Wrap(err)
	}
	if total == 0 {
		return 0, errors.EmptyCollection("percentage")
	}
	return float64(matched) * 100 / float64(total), nil
}

func drainCounting[T any](c Collection[T], fn func(T)) (int, error) {
	n := 0
	err := c.run(func(v T) bool {
		fn(v)
		n++
		return true
	})
	return n, errors.Wrap(err)
}
