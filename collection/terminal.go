package collection

import (
	"strings"

	"github.com/kbukum/collectkit/errors"
)

// ToSlice drains the collection into a new slice.
func (c Collection[T]) ToSlice() ([]T, error) {
	items, err := c.collect()
	if err != nil {
		return nil, errors.Wrap(err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// ForEach calls fn for every item in order.
func (c Collection[T]) ForEach(fn func(item T, index int)) error {
	index := 0
	return errors.Wrap(c.run(func(v T) bool {
		fn(v, index)
		index++
		return true
	}))
}

// Reduce folds the items with fn. The first item seeds the accumulator and
// folding starts at the second. An empty collection fails with
// EMPTY_COLLECTION.
func (c Collection[T]) Reduce(fn func(acc, item T, index int) T) (T, error) {
	var acc T
	index := 0
	err := c.run(func(v T) bool {
		if index == 0 {
			acc = v
		} else {
			acc = fn(acc, v, index)
		}
		index++
		return true
	})
	if err != nil {
		var zero T
		return zero, errors.Wrap(err)
	}
	if index == 0 {
		var zero T
		return zero, errors.EmptyCollection("reduce")
	}
	return acc, nil
}

// ReduceInto folds the items into initial with fn. An empty collection
// returns initial unchanged.
func ReduceInto[T, R any](c Collection[T], initial R, fn func(acc R, item T, index int) R) (R, error) {
	acc := initial
	index := 0
	err := c.run(func(v T) bool {
		acc = fn(acc, v, index)
		index++
		return true
	})
	if err != nil {
		var zero R
		return zero, errors.Wrap(err)
	}
	return acc, nil
}

// Count returns the number of items.
func (c Collection[T]) Count() (int, error) {
	return c.CountWhere(nil)
}

// CountWhere returns the number of items matching pred. A nil pred counts every item.
func (c Collection[T]) CountWhere(pred Predicate[T]) (int, error) {
	match := firstPredicate([]Predicate[T]{pred})
	count, index := 0, 0
	err := c.run(func(v T) bool {
		if match(v, index) {
			count++
		}
		index++
		return true
	})
	if err != nil {
		return 0, errors.Wrap(err)
	}
	return count, nil
}

func (c Collection[T]) isEmpty() (bool, error) {
	empty := true
	err := c.run(func(T) bool {
		empty = false
		return false
	})
	return empty, err
}

// IsEmpty reports whether the collection has no items. It reads at most one item.
func (c Collection[T]) IsEmpty() (bool, error) {
	empty, err := c.isEmpty()
	return empty, errors.Wrap(err)
}

// IsNotEmpty reports whether the collection has at least one item.
func (c Collection[T]) IsNotEmpty() (bool, error) {
	empty, err := c.IsEmpty()
	return !empty && err == nil, err
}

// Some reports whether any item matches the optional predicate. Without a
// predicate it reports whether the collection is non-empty.
func (c Collection[T]) Some(preds ...Predicate[T]) (bool, error) {
	_, found, err := c.First(preds...)
	return found, err
}

// Every reports whether all items match pred. It is true for an empty collection.
func (c Collection[T]) Every(pred Predicate[T]) (bool, error) {
	found, err := c.Some(func(v T, i int) bool { return !pred(v, i) })
	return !found && err == nil, err
}

// Contains reports whether target occurs in the collection.
func Contains[T comparable](c Collection[T], target T) (bool, error) {
	return c.Some(func(v T, _ int) bool { return v == target })
}

// SearchFirst returns the index of the first item matching pred, or -1.
func (c Collection[T]) SearchFirst(pred Predicate[T]) (int, error) {
	found := -1
	index := 0
	err := c.run(func(v T) bool {
		if pred(v, index) {
			found = index
			return false
		}
		index++
		return true
	})
	if err != nil {
		return -1, errors.Wrap(err)
	}
	return found, nil
}

// SearchLast returns the index of the last item matching pred, or -1.
func (c Collection[T]) SearchLast(pred Predicate[T]) (int, error) {
	found := -1
	index := 0
	err := c.run(func(v T) bool {
		if pred(v, index) {
			found = index
		}
		index++
		return true
	})
	if err != nil {
		return -1, errors.Wrap(err)
	}
	return found, nil
}

// First returns the first item matching the optional predicate. found is
// false when nothing matches; that is not an error.
func (c Collection[T]) First(preds ...Predicate[T]) (item T, found bool, err error) {
	match := firstPredicate(preds)
	index := 0
	err = c.run(func(v T) bool {
		if match(v, index) {
			item, found = v, true
			return false
		}
		index++
		return true
	})
	return resolve(item, found, err)
}

// FirstOr returns the first matching item or def.
func (c Collection[T]) FirstOr(def T, preds ...Predicate[T]) (T, error) {
	return orDefault(def)(c.First(preds...))
}

// FirstOrFail returns the first matching item or ITEM_NOT_FOUND.
func (c Collection[T]) FirstOrFail(preds ...Predicate[T]) (T, error) {
	return orFail[T]("firstOrFail")(c.First(preds...))
}

// Last returns the last item matching the optional predicate.
func (c Collection[T]) Last(preds ...Predicate[T]) (item T, found bool, err error) {
	match := firstPredicate(preds)
	index := 0
	err = c.run(func(v T) bool {
		if match(v, index) {
			item, found = v, true
		}
		index++
		return true
	})
	return resolve(item, found, err)
}

// LastOr returns the last matching item or def.
func (c Collection[T]) LastOr(def T, preds ...Predicate[T]) (T, error) {
	return orDefault(def)(c.Last(preds...))
}

// LastOrFail returns the last matching item or ITEM_NOT_FOUND.
func (c Collection[T]) LastOrFail(preds ...Predicate[T]) (T, error) {
	return orFail[T]("lastOrFail")(c.Last(preds...))
}

// Before returns the item immediately preceding the first item matching pred.
func (c Collection[T]) Before(pred Predicate[T]) (item T, found bool, err error) {
	var prev T
	index := 0
	err = c.run(func(v T) bool {
		if pred(v, index) {
			item, found = prev, index > 0
			return false
		}
		prev = v
		index++
		return true
	})
	return resolve(item, found, err)
}

// BeforeOr returns the item before the first match or def.
func (c Collection[T]) BeforeOr(def T, pred Predicate[T]) (T, error) {
	return orDefault(def)(c.Before(pred))
}

// BeforeOrFail returns the item before the first match or ITEM_NOT_FOUND.
func (c Collection[T]) BeforeOrFail(pred Predicate[T]) (T, error) {
	return orFail[T]("beforeOrFail")(c.Before(pred))
}

// After returns the item immediately following the first item matching pred.
func (c Collection[T]) After(pred Predicate[T]) (item T, found bool, err error) {
	matched := false
	index := 0
	err = c.run(func(v T) bool {
		if matched {
			item, found = v, true
			return false
		}
		matched = pred(v, index)
		index++
		return true
	})
	return resolve(item, found, err)
}

// AfterOr returns the item after the first match or def.
func (c Collection[T]) AfterOr(def T, pred Predicate[T]) (T, error) {
	return orDefault(def)(c.After(pred))
}

// AfterOrFail returns the item after the first match or ITEM_NOT_FOUND.
func (c Collection[T]) AfterOrFail(pred Predicate[T]) (T, error) {
	return orFail[T]("afterOrFail")(c.After(pred))
}

// Nth returns the item at index. Negative indices count from the end.
func (c Collection[T]) Nth(index int) (T, bool, error) {
	if index < 0 {
		return c.SliceFrom(index).First()
	}
	return c.Skip(index).First()
}

// NthOrFail returns the item at index or ITEM_NOT_FOUND.
func (c Collection[T]) NthOrFail(index int) (T, error) {
	item, found, err := c.Nth(index)
	if err == nil && !found {
		err = errors.ItemNotFound("nthOrFail").WithDetail("index", index)
	}
	return item, err
}

// Sole returns the only item matching the optional predicate. It fails with
// ITEM_NOT_FOUND when nothing matches and MULTIPLE_ITEMS_FOUND when more
// than one item does; enumeration stops at the second match.
func (c Collection[T]) Sole(preds ...Predicate[T]) (T, error) {
	match := firstPredicate(preds)
	var item T
	matches, index := 0, 0
	err := c.run(func(v T) bool {
		if match(v, index) {
			matches++
			item = v
		}
		index++
		return matches < 2
	})
	var zero T
	switch {
	case err != nil:
		return zero, errors.Wrap(err)
	case matches == 0:
		return zero, errors.ItemNotFound("sole")
	case matches > 1:
		return zero, errors.MultipleItemsFound("sole")
	}
	return item, nil
}

// Join concatenates string items with sep.
func Join(c Collection[string], sep string) (string, error) {
	var b strings.Builder
	index := 0
	err := c.run(func(s string) bool {
		if index > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s)
		index++
		return true
	})
	if err != nil {
		return "", errors.Wrap(err)
	}
	return b.String(), nil
}

// ToMap drains key/value pairs into a map. Later keys overwrite earlier ones.
func ToMap[K comparable, V any](c Collection[Pair[K, V]]) (map[K]V, error) {
	out := make(map[K]V)
	err := c.run(func(p Pair[K, V]) bool {
		out[p.Key] = p.Value
		return true
	})
	if err != nil {
		return nil, errors.Wrap(err)
	}
	return out, nil
}

func resolve[T any](item T, found bool, err error) (T, bool, error) {
	if err != nil {
		var zero T
		return zero, false, errors.Wrap(err)
	}
	if !found {
		var zero T
		return zero, false, nil
	}
	return item, true, nil
}

func orDefault[T any](def T) func(T, bool, error) (T, error) {
	return func(item T, found bool, err error) (T, error) {
		if err != nil {
			return def, err
		}
		if !found {
			return def, nil
		}
		return item, nil
	}
}

func orFail[T any](operation string) func(T, bool, error) (T, error) {
	return func(item T, found bool, err error) (T, error) {
		if err == nil && !found {
			err = errors.ItemNotFound(operation)
		}
		return item, err
	}
}
