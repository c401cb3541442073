package collection

import (
	"cmp"
	"iter"
	"maps"
	"slices"

	"github.com/kbukum/collectkit/errors"
)

// Empty returns a collection with no items.
func Empty[T any]() Collection[T] {
	return Collection[T]{}
}

// New creates a collection over the given items.
func New[T any](items ...T) Collection[T] {
	return FromSlice(items)
}

// FromSlice creates a collection that reads items on every enumeration.
// Later writes to the slice are visible to later enumerations.
func FromSlice[T any](items []T) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		for _, v := range items {
			if !yield(v) {
				return nil
			}
		}
		return nil
	})
}

// FromString creates a collection with one string item per rune of s.
func FromString(s string) Collection[string] {
	return newCollection(func(yield func(string) bool) error {
		for _, r := range s {
			if !yield(string(r)) {
				return nil
			}
		}
		return nil
	})
}

// FromSet creates a collection over the keys of a set-like map, in
// ascending key order.
func FromSet[T cmp.Ordered, V any](set map[T]V) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		for _, k := range slices.Sorted(maps.Keys(set)) {
			if !yield(k) {
				return nil
			}
		}
		return nil
	})
}

// FromMap creates a collection of key/value pairs in ascending key order.
func FromMap[K cmp.Ordered, V any](m map[K]V) Collection[Pair[K, V]] {
	return newCollection(func(yield func(Pair[K, V]) bool) error {
		for _, k := range slices.Sorted(maps.Keys(m)) {
			if !yield(Pair[K, V]{Key: k, Value: m[k]}) {
				return nil
			}
		}
		return nil
	})
}

// FromSeq creates a collection over seq. seq is invoked once per enumeration.
func FromSeq[T any](seq iter.Seq[T]) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		for v := range seq {
			if !yield(v) {
				return nil
			}
		}
		return nil
	})
}

// FromSeq2 creates a collection of pairs over seq.
func FromSeq2[K, V any](seq iter.Seq2[K, V]) Collection[Pair[K, V]] {
	return newCollection(func(yield func(Pair[K, V]) bool) error {
		for k, v := range seq {
			if !yield(Pair[K, V]{Key: k, Value: v}) {
				return nil
			}
		}
		return nil
	})
}

// FromIterable creates a collection over a custom container.
func FromIterable[T any](src Iterable[T]) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		for v := range src.All() {
			if !yield(v) {
				return nil
			}
		}
		return nil
	})
}

// FromFunc creates a collection from a factory. The factory is called at
// the start of every enumeration, which makes one-shot generators restartable.
func FromFunc[T any](factory func() iter.Seq[T]) Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		for v := range factory() {
			if !yield(v) {
				return nil
			}
		}
		return nil
	})
}

// FromIterator creates a collection from an iteration function that may
// fail. fn must stop and return nil as soon as yield returns false.
func FromIterator[T any](fn func(yield func(T) bool) error) Collection[T] {
	return newCollection(fn)
}

// Range yields start, start+step, ... up to but excluding end.
func Range(start, end, step int) Collection[int] {
	if step == 0 {
		return failed[int](errors.InvalidArgument("range", "step", step, "must not be zero"))
	}
	return newCollection(func(yield func(int) bool) error {
		for i := start; (step > 0 && i < end) || (step < 0 && i > end); i += step {
			if !yield(i) {
				return nil
			}
		}
		return nil
	})
}
