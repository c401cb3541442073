package collection

import "github.com/kbukum/collectkit/errors"

// Filter keeps items for which pred returns true.
func (c Collection[T]) Filter(pred Predicate[T]) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		index := 0
		return c.run(func(v T) bool {
			keep := pred(v, index)
			index++
			if keep {
				return yield(v)
			}
			return true
		})
	})
}

// Reject drops items for which pred returns true. It is the exact
// complement of Filter.
func (c Collection[T]) Reject(pred Predicate[T]) Collection[T] {
	return c.Filter(func(v T, i int) bool { return !pred(v, i) })
}

// Tap calls fn for every item as it passes through, leaving the sequence unchanged.
func (c Collection[T]) Tap(fn func(item T, index int)) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		index := 0
		return c.run(func(v T) bool {
			fn(v, index)
			index++
			return yield(v)
		})
	})
}

// Change replaces every item matching pred with fn(item, index).
func (c Collection[T]) Change(pred Predicate[T], fn Mapper[T, T]) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		index := 0
		return c.run(func(v T) bool {
			i := index
			index++
			if pred(v, i) {
				v = fn(v, i)
			}
			return yield(v)
		})
	})
}

// Take yields the first n items. A negative n yields all but the last |n|.
func (c Collection[T]) Take(n int) Collection[T] {
	if n < 0 {
		return c.Slice(0, n)
	}
	return newCollection(func(yield func(T) bool) error {
		if n == 0 {
			return nil
		}
		count := 0
		return c.run(func(v T) bool {
			if !yield(v) {
				return false
			}
			count++
			return count < n
		})
	})
}

// TakeWhile yields items while pred holds and stops at the first miss.
func (c Collection[T]) TakeWhile(pred Predicate[T]) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		index := 0
		return c.run(func(v T) bool {
			ok := pred(v, index)
			index++
			if !ok {
				return false
			}
			return yield(v)
		})
	})
}

// TakeUntil yields items until pred first holds. The matching item is not yielded.
func (c Collection[T]) TakeUntil(pred Predicate[T]) Collection[T] {
	return c.TakeWhile(func(v T, i int) bool { return !pred(v, i) })
}

// Skip drops the first n items. A negative n keeps only the last |n|.
func (c Collection[T]) Skip(n int) Collection[T] {
	if n < 0 {
		return c.SliceFrom(n)
	}
	return newCollection(func(yield func(T) bool) error {
		skipped := 0
		return c.run(func(v T) bool {
			if skipped < n {
				skipped++
				return true
			}
			return yield(v)
		})
	})
}

// SkipWhile drops items while pred holds, then yields the rest.
func (c Collection[T]) SkipWhile(pred Predicate[T]) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		index := 0
		dropping := true
		return c.run(func(v T) bool {
			i := index
			index++
			if dropping {
				if pred(v, i) {
					return true
				}
				dropping = false
			}
			return yield(v)
		})
	})
}

// SkipUntil drops items until pred first holds. The matching item is the
// first one yielded.
func (c Collection[T]) SkipUntil(pred Predicate[T]) Collection[T] {
	return c.SkipWhile(func(v T, i int) bool { return !pred(v, i) })
}

// Prepend yields items before the receiver's own items.
func (c Collection[T]) Prepend(items Collection[T]) Collection[T] {
	return Concat(items, c)
}

// Append yields items after the receiver's own items.
func (c Collection[T]) Append(items Collection[T]) Collection[T] {
	return Concat(c, items)
}

// InsertBefore yields items right before the first item matching pred.
// Nothing is inserted when no item matches.
func (c Collection[T]) InsertBefore(pred Predicate[T], items Collection[T]) Collection[T] {
	return c.insert(pred, items, true)
}

// InsertAfter yields items right after the first item matching pred.
func (c Collection[T]) InsertAfter(pred Predicate[T], items Collection[T]) Collection[T] {
	return c.insert(pred, items, false)
}

func (c Collection[T]) insert(pred Predicate[T], items Collection[T], before bool) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		index := 0
		inserted := false
		stopped := false
		var innerErr error
		emitItems := func() bool {
			innerErr = items.run(func(x T) bool {
				if !yield(x) {
					stopped = true
					return false
				}
				return true
			})
			return innerErr == nil && !stopped
		}
		err := c.run(func(v T) bool {
			i := index
			index++
			match := !inserted && pred(v, i)
			if match {
				inserted = true
			}
			if match && before && !emitItems() {
				return false
			}
			if !yield(v) {
				return false
			}
			if match && !before && !emitItems() {
				return false
			}
			return true
		})
		if innerErr != nil {
			return innerErr
		}
		return err
	})
}

// Repeat yields the whole sequence times times, re-reading the upstream on
// every round.
func (c Collection[T]) Repeat(times int) Collection[T] {
	if times < 0 {
		return failed[T](errors.InvalidArgument("repeat", "times", times, "must not be negative"))
	}
	return newCollection(func(yield func(T) bool) error {
		for range times {
			stopped := false
			err := c.run(func(v T) bool {
				if !yield(v) {
					stopped = true
					return false
				}
				return true
			})
			if err != nil || stopped {
				return err
			}
		}
		return nil
	})
}

// When returns fn(c) if cond is true and c otherwise.
func (c Collection[T]) When(cond bool, fn func(Collection[T]) Collection[T]) Collection[T] {
	if cond {
		return fn(c)
	}
	return c
}

// WhenNot returns fn(c) if cond is false and c otherwise.
func (c Collection[T]) WhenNot(cond bool, fn func(Collection[T]) Collection[T]) Collection[T] {
	return c.When(!cond, fn)
}

// WhenEmpty enumerates fn(c) instead of c when c turns out to be empty.
// The check happens at enumeration time and reads at most one item.
func (c Collection[T]) WhenEmpty(fn func(Collection[T]) Collection[T]) Collection[T] {
	return c.whenEmptiness(true, fn)
}

// WhenNotEmpty enumerates fn(c) instead of c when c has at least one item.
func (c Collection[T]) WhenNotEmpty(fn func(Collection[T]) Collection[T]) Collection[T] {
	return c.whenEmptiness(false, fn)
}

func (c Collection[T]) whenEmptiness(empty bool, fn func(Collection[T]) Collection[T]) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		isEmpty, err := c.isEmpty()
		if err != nil {
			return err
		}
		if isEmpty == empty {
			return fn(c).run(yield)
		}
		return c.run(yield)
	})
}

// Concat yields every collection in order.
func Concat[T any](collections ...Collection[T]) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		for _, col := range collections {
			stopped := false
			err := col.run(func(v T) bool {
				if !yield(v) {
					stopped = true
					return false
				}
				return true
			})
			if err != nil || stopped {
				return err
			}
		}
		return nil
	})
}

// Map transforms every item with fn.
func Map[T, R any](c Collection[T], fn Mapper[T, R]) Collection[R] {
	return newCollection(func(yield func(R) bool) error {
		index := 0
		return c.run(func(v T) bool {
			out := fn(v, index)
			index++
			return yield(out)
		})
	})
}

// FlatMap maps every item to a collection and yields the items of each in turn.
func FlatMap[T, R any](c Collection[T], fn Mapper[T, Collection[R]]) Collection[R] {
	return newCollection(func(yield func(R) bool) error {
		index := 0
		var innerErr error
		err := c.run(func(v T) bool {
			inner := fn(v, index)
			index++
			stopped := false
			innerErr = inner.run(func(r R) bool {
				if !yield(r) {
					stopped = true
					return false
				}
				return true
			})
			return innerErr == nil && !stopped
		})
		if innerErr != nil {
			return innerErr
		}
		return err
	})
}

// Flatten yields the elements of every slice item in order.
func Flatten[T any](c Collection[[]T]) Collection[T] {
	return FlatMap(c, func(items []T, _ int) Collection[T] { return FromSlice(items) })
}

// Entries pairs every item with its index. Indices restart at zero on every
// enumeration and count this stage's output, not any upstream numbering.
func Entries[T any](c Collection[T]) Collection[Entry[T]] {
	return Map(c, func(v T, i int) Entry[T] { return Entry[T]{Index: i, Value: v} })
}
