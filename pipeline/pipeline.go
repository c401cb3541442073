package pipeline

import (
	"cmp"
	"context"
	"iter"

	"github.com/kbukum/collectkit/collection"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Pipeline represents a lazy, pull-based data pipeline.
// No work happens until a terminal pulls values. A nil *Pipeline is empty.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// Pair and Entry are shared with the synchronous collection package.
type (
	Pair[K, V any] = collection.Pair[K, V]
	Entry[T any]   = collection.Entry[T]
)

// Predicate reports whether an item matches. index is local to the stage.
type Predicate[T any] func(ctx context.Context, item T, index int) (bool, error)

// Mapper transforms an item. index is local to the stage.
type Mapper[T, R any] func(ctx context.Context, item T, index int) (R, error)

// Pred lifts a plain predicate that cannot fail.
func Pred[T any](fn func(item T, index int) bool) Predicate[T] {
	return func(_ context.Context, item T, index int) (bool, error) {
		return fn(item, index), nil
	}
}

// Fn lifts a plain mapper that cannot fail.
func Fn[T, R any](fn func(item T, index int) R) Mapper[T, R] {
	return func(_ context.Context, item T, index int) (R, error) {
		return fn(item, index), nil
	}
}

func newPipeline[T any](create func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{create: create}
}

// open starts a fresh enumeration.
func (p *Pipeline[T]) open(ctx context.Context) Iterator[T] {
	if p == nil || p.create == nil {
		return &sliceIter[T]{}
	}
	return p.create(ctx)
}

// Iter returns the raw Iterator for this pipeline. The caller must Close() it.
func (p *Pipeline[T]) Iter(ctx context.Context) Iterator[T] {
	return p.open(ctx)
}

// Runnable is a fully-configured pipeline ready to execute.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run executes the pipeline until completion or context cancellation.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// --- Constructors ---

// Empty creates a pipeline with no values.
func Empty[T any]() *Pipeline[T] {
	return &Pipeline[T]{}
}

// New creates a pipeline over the given values.
func New[T any](items ...T) *Pipeline[T] {
	return FromSlice(items)
}

// From creates a pipeline from an existing Iterator. The iterator is
// consumed by the first enumeration; wrap the result in Materialize to
// enumerate it more than once.
func From[T any](iter Iterator[T]) *Pipeline[T] {
	return newPipeline(func(_ context.Context) Iterator[T] {
		return iter
	})
}

// FromSlice creates a pipeline from a slice of values.
func FromSlice[T any](items []T) *Pipeline[T] {
	return newPipeline(func(_ context.Context) Iterator[T] {
		return &sliceIter[T]{items: items}
	})
}

// FromFunc creates a pipeline from a factory that produces an Iterator.
// The factory runs once per enumeration.
func FromFunc[T any](fn func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return newPipeline(fn)
}

// FromSeq creates a pipeline over seq. seq is started once per enumeration.
func FromSeq[T any](seq iter.Seq[T]) *Pipeline[T] {
	return newPipeline(func(_ context.Context) Iterator[T] {
		next, stop := iter.Pull(seq)
		return &pullIter[T]{next: func() (T, error, bool) {
			v, ok := next()
			return v, nil, ok
		}, stop: stop}
	})
}

// FromCollection adapts a synchronous collection. Enumeration errors of the
// collection surface from Next.
func FromCollection[T any](c collection.Collection[T]) *Pipeline[T] {
	return newPipeline(func(_ context.Context) Iterator[T] {
		next, stop := iter.Pull2(c.Iter())
		return &pullIter[T]{next: next, stop: stop}
	})
}

// FromString creates a pipeline with one string per rune of s.
func FromString(s string) *Pipeline[string] {
	return FromCollection(collection.FromString(s))
}

// FromMap creates a pipeline of key/value pairs in ascending key order.
func FromMap[K cmp.Ordered, V any](m map[K]V) *Pipeline[collection.Pair[K, V]] {
	return FromCollection(collection.FromMap(m))
}

// FromSet creates a pipeline over the keys of a set-like map in ascending order.
func FromSet[T cmp.Ordered, V any](set map[T]V) *Pipeline[T] {
	return FromCollection(collection.FromSet(set))
}

// FromValue normalizes an arbitrary value the way collection.FromValue does.
func FromValue(v any) *Pipeline[any] {
	if p, ok := v.(*Pipeline[any]); ok {
		return p
	}
	return FromCollection(collection.FromValue(v))
}

// FromChannel creates a pipeline that receives from ch until it is closed.
func FromChannel[T any](ch <-chan T) *Pipeline[T] {
	return newPipeline(func(_ context.Context) Iterator[T] {
		return &channelIter[T]{ch: ch}
	})
}

// Range yields start, start+step, ... up to but excluding end.
func Range(start, end, step int) *Pipeline[int] {
	return FromCollection(collection.Range(start, end, step))
}

// failed returns a pipeline whose every enumeration fails with err.
func failed[T any](err error) *Pipeline[T] {
	return newPipeline(func(_ context.Context) Iterator[T] {
		return &errIter[T]{err: err}
	})
}

// Materialize reads the upstream once, on its first complete enumeration,
// and replays the buffered values afterwards. A failed read is not cached.
func (p *Pipeline[T]) Materialize() *Pipeline[T] {
	snap := &snapshot[T]{}
	return newPipeline(func(_ context.Context) Iterator[T] {
		return &bufferedIter[T, T]{
			load: func(ctx context.Context) ([]T, error) { return snap.load(ctx, p) },
		}
	})
}

// Pipe passes the pipeline to fn and returns its result.
func Pipe[T, R any](p *Pipeline[T], fn func(*Pipeline[T]) R) R {
	return fn(p)
}

// --- Internal iterators ---

type sliceIter[T any] struct {
	items []T
	index int
}

func (it *sliceIter[T]) Next(_ context.Context) (T, bool, error) {
	if it.index >= len(it.items) {
		var zero T
		return zero, false, nil
	}
	val := it.items[it.index]
	it.index++
	return val, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }

type errIter[T any] struct {
	err error
}

func (it *errIter[T]) Next(_ context.Context) (T, bool, error) {
	var zero T
	return zero, false, it.err
}

func (it *errIter[T]) Close() error { return nil }

// pullIter adapts a pulled range-over-func sequence.
type pullIter[T any] struct {
	next func() (T, error, bool)
	stop func()
	done bool
}

func (it *pullIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	v, err, ok := it.next()
	if !ok {
		it.done = true
		return zero, false, nil
	}
	if err != nil {
		it.done = true
		return zero, false, err
	}
	return v, true, nil
}

func (it *pullIter[T]) Close() error {
	it.stop()
	return nil
}

// channelIter reads values from a channel.
type channelIter[T any] struct {
	ch <-chan T
}

func (it *channelIter[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case v, open := <-it.ch:
		if !open {
			var zero T
			return zero, false, nil
		}
		return v, true, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

func (it *channelIter[T]) Close() error { return nil }
