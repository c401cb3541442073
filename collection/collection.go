package collection

import (
	"iter"
	"sync"

	"github.com/kbukum/collectkit/errors"
)

// Predicate reports whether an item matches. index is the item's position
// in the input of the stage that calls it.
type Predicate[T any] func(item T, index int) bool

// Mapper transforms an item. index is local to the calling stage.
type Mapper[T, R any] func(item T, index int) R

// Pair is a key/value tuple produced by key/value sources, Zip, GroupBy and CountBy.
type Pair[K, V any] struct {
	Key   K
	Value V
}

func (p Pair[K, V]) tuple() (any, any) { return p.Key, p.Value }

// Entry is an item together with its position in the enumerating stage.
type Entry[T any] struct {
	Index int
	Value T
}

// Iterable is satisfied by any container exposing a range-over-func view.
type Iterable[T any] interface {
	All() iter.Seq[T]
}

// iterateFunc drives yield over every item and reports why enumeration
// stopped. Returning nil after yield returned false is a normal stop.
type iterateFunc[T any] func(yield func(T) bool) error

// Collection is an immutable, lazily evaluated handle over an ordered source.
// The zero value is an empty collection.
type Collection[T any] struct {
	iterate iterateFunc[T]
}

func newCollection[T any](fn iterateFunc[T]) Collection[T] {
	return Collection[T]{iterate: fn}
}

// failed returns a collection whose every enumeration fails with err.
func failed[T any](err error) Collection[T] {
	return Collection[T]{iterate: func(func(T) bool) error { return err }}
}

func (c Collection[T]) run(yield func(T) bool) error {
	if c.iterate == nil {
		return nil
	}
	return c.iterate(yield)
}

func (c Collection[T]) collect() ([]T, error) {
	var items []T
	err := c.run(func(v T) bool {
		items = append(items, v)
		return true
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Iter returns a range-over-func view of the collection. Items are yielded
// with a nil error; if enumeration fails, a final zero item is yielded with
// the error and iteration ends.
func (c Collection[T]) Iter() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		stopped := false
		err := c.run(func(v T) bool {
			if !yield(v, nil) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil && !stopped {
			var zero T
			yield(zero, errors.Wrap(err))
		}
	}
}

// All returns a range-over-func view that drops enumeration errors. It makes
// a Collection usable wherever an Iterable is expected; prefer Iter or a
// terminal when the source can fail.
func (c Collection[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		_ = c.run(yield)
	}
}

// Materialize returns a collection that reads the receiver once, on its
// first enumeration, and replays the buffered items on every later one.
// A failed first read is not cached.
func (c Collection[T]) Materialize() Collection[T] {
	snap := &snapshot[T]{}
	return newCollection(func(yield func(T) bool) error {
		items, err := snap.load(c)
		if err != nil {
			return err
		}
		for _, v := range items {
			if !yield(v) {
				return nil
			}
		}
		return nil
	})
}

type snapshot[T any] struct {
	mu     sync.Mutex
	loaded bool
	items  []T
}

func (s *snapshot[T]) load(c Collection[T]) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.items, nil
	}
	items, err := c.collect()
	if err != nil {
		return nil, err
	}
	s.items = items
	s.loaded = true
	return s.items, nil
}

// Pipe passes the collection to fn and returns its result.
func Pipe[T, R any](c Collection[T], fn func(Collection[T]) R) R {
	return fn(c)
}

func firstPredicate[T any](preds []Predicate[T]) Predicate[T] {
	if len(preds) == 0 || preds[0] == nil {
		return func(T, int) bool { return true }
	}
	return preds[0]
}
