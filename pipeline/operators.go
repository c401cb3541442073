package pipeline

import (
	"context"

	"github.com/kbukum/collectkit/errors"
)

// Map transforms each value using fn.
func Map[I, O any](p *Pipeline[I], fn Mapper[I, O]) *Pipeline[O] {
	return newPipeline(func(ctx context.Context) Iterator[O] {
		return &mapIter[I, O]{source: p.open(ctx), fn: fn}
	})
}

// FlatMap transforms each value into a pipeline and flattens the results.
func FlatMap[I, O any](p *Pipeline[I], fn Mapper[I, *Pipeline[O]]) *Pipeline[O] {
	return newPipeline(func(ctx context.Context) Iterator[O] {
		return &flatMapIter[I, O]{source: p.open(ctx), fn: fn}
	})
}

// Flatten yields the elements of every slice value in order.
func Flatten[T any](p *Pipeline[[]T]) *Pipeline[T] {
	return FlatMap(p, Fn(func(items []T, _ int) *Pipeline[T] { return FromSlice(items) }))
}

// Entries pairs every value with its stage-local index.
func Entries[T any](p *Pipeline[T]) *Pipeline[Entry[T]] {
	return Map(p, Fn(func(v T, i int) Entry[T] { return Entry[T]{Index: i, Value: v} }))
}

// Filter keeps only values that satisfy the predicate.
func (p *Pipeline[T]) Filter(pred Predicate[T]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &filterIter[T]{source: p.open(ctx), pred: pred, keep: true}
	})
}

// Reject drops values that satisfy the predicate.
func (p *Pipeline[T]) Reject(pred Predicate[T]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &filterIter[T]{source: p.open(ctx), pred: pred, keep: false}
	})
}

// Tap calls fn as a side-effect for each value, then passes the value through unchanged.
// Use for logging, metrics, or mid-pipeline publishing.
func (p *Pipeline[T]) Tap(fn func(ctx context.Context, item T, index int) error) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &tapIter[T]{source: p.open(ctx), fn: fn}
	})
}

// Change replaces every value matching pred with fn(value).
func (p *Pipeline[T]) Change(pred Predicate[T], fn Mapper[T, T]) *Pipeline[T] {
	return Map(p, func(ctx context.Context, v T, i int) (T, error) {
		ok, err := pred(ctx, v, i)
		if err != nil || !ok {
			return v, err
		}
		return fn(ctx, v, i)
	})
}

// Take yields the first n values. A negative n yields all but the last |n|.
func (p *Pipeline[T]) Take(n int) *Pipeline[T] {
	if n < 0 {
		return p.Slice(0, n)
	}
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &takeIter[T]{source: p.open(ctx), limit: n}
	})
}

// TakeWhile yields values while pred holds.
func (p *Pipeline[T]) TakeWhile(pred Predicate[T]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &takeWhileIter[T]{source: p.open(ctx), pred: pred, want: true}
	})
}

// TakeUntil yields values until pred first holds, excluding that value.
func (p *Pipeline[T]) TakeUntil(pred Predicate[T]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &takeWhileIter[T]{source: p.open(ctx), pred: pred, want: false}
	})
}

// Skip drops the first n values. A negative n keeps only the last |n|.
func (p *Pipeline[T]) Skip(n int) *Pipeline[T] {
	if n < 0 {
		return p.SliceFrom(n)
	}
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &skipIter[T]{source: p.open(ctx), remaining: n}
	})
}

// SkipWhile drops values while pred holds.
func (p *Pipeline[T]) SkipWhile(pred Predicate[T]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &skipWhileIter[T]{source: p.open(ctx), pred: pred, want: true}
	})
}

// SkipUntil drops values until pred first holds; that value is yielded first.
func (p *Pipeline[T]) SkipUntil(pred Predicate[T]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &skipWhileIter[T]{source: p.open(ctx), pred: pred, want: false}
	})
}

// Concat joins multiple pipelines sequentially.
// All values from the first pipeline are yielded before the second, etc.
// Each pipeline is opened only when the previous one is exhausted.
func Concat[T any](pipelines ...*Pipeline[T]) *Pipeline[T] {
	return newPipeline(func(_ context.Context) Iterator[T] {
		return &concatIter[T]{pipelines: pipelines}
	})
}

// Prepend yields items before the receiver's own values.
func (p *Pipeline[T]) Prepend(items *Pipeline[T]) *Pipeline[T] {
	return Concat(items, p)
}

// Append yields items after the receiver's own values.
func (p *Pipeline[T]) Append(items *Pipeline[T]) *Pipeline[T] {
	return Concat(p, items)
}

// InsertBefore yields items right before the first value matching pred.
func (p *Pipeline[T]) InsertBefore(pred Predicate[T], items *Pipeline[T]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &insertIter[T]{source: p.open(ctx), pred: pred, items: items, before: true}
	})
}

// InsertAfter yields items right after the first value matching pred.
func (p *Pipeline[T]) InsertAfter(pred Predicate[T], items *Pipeline[T]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &insertIter[T]{source: p.open(ctx), pred: pred, items: items}
	})
}

// Repeat yields the whole pipeline times times, reopening it every round.
func (p *Pipeline[T]) Repeat(times int) *Pipeline[T] {
	if times < 0 {
		return failed[T](errors.InvalidArgument("repeat", "times", times, "must not be negative"))
	}
	rounds := make([]*Pipeline[T], times)
	for i := range rounds {
		rounds[i] = p
	}
	return Concat(rounds...)
}

// When returns fn(p) if cond is true and p otherwise.
func (p *Pipeline[T]) When(cond bool, fn func(*Pipeline[T]) *Pipeline[T]) *Pipeline[T] {
	if cond {
		return fn(p)
	}
	return p
}

// WhenNot returns fn(p) if cond is false and p otherwise.
func (p *Pipeline[T]) WhenNot(cond bool, fn func(*Pipeline[T]) *Pipeline[T]) *Pipeline[T] {
	return p.When(!cond, fn)
}

// WhenEmpty enumerates fn(p) instead of p when p turns out to be empty.
func (p *Pipeline[T]) WhenEmpty(fn func(*Pipeline[T]) *Pipeline[T]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &whenEmptyIter[T]{p: p, source: p.open(ctx), fn: fn, onEmpty: true}
	})
}

// WhenNotEmpty enumerates fn(p) instead of p when p has at least one value.
func (p *Pipeline[T]) WhenNotEmpty(fn func(*Pipeline[T]) *Pipeline[T]) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &whenEmptyIter[T]{p: p, source: p.open(ctx), fn: fn}
	})
}

// --- Iterator implementations ---

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     Mapper[I, O]
	index  int
}

func (it *mapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, false, err
	}
	out, err := it.fn(ctx, val, it.index)
	it.index++
	if err != nil {
		var zero O
		return zero, false, err
	}
	return out, true, nil
}

func (it *mapIter[I, O]) Close() error { return it.source.Close() }

type flatMapIter[I, O any] struct {
	source  Iterator[I]
	fn      Mapper[I, *Pipeline[O]]
	current Iterator[O]
	index   int
}

func (it *flatMapIter[I, O]) Next(ctx context.Context) (result O, ok bool, err error) {
	for {
		if it.current != nil {
			val, ok, err := it.current.Next(ctx)
			if err != nil {
				var zero O
				return zero, false, err
			}
			if ok {
				return val, true, nil
			}
			_ = it.current.Close()
			it.current = nil
		}
		in, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero O
			return zero, false, err
		}
		inner, err := it.fn(ctx, in, it.index)
		it.index++
		if err != nil {
			var zero O
			return zero, false, err
		}
		it.current = inner.open(ctx)
	}
}

func (it *flatMapIter[I, O]) Close() error {
	if it.current != nil {
		_ = it.current.Close()
	}
	return it.source.Close()
}

type filterIter[T any] struct {
	source Iterator[T]
	pred   Predicate[T]
	keep   bool
	index  int
}

func (it *filterIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			return val, false, err
		}
		match, err := it.pred(ctx, val, it.index)
		it.index++
		if err != nil {
			var zero T
			return zero, false, err
		}
		if match == it.keep {
			return val, true, nil
		}
	}
}

func (it *filterIter[T]) Close() error { return it.source.Close() }

type tapIter[T any] struct {
	source Iterator[T]
	fn     func(context.Context, T, int) error
	index  int
}

func (it *tapIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	err = it.fn(ctx, val, it.index)
	it.index++
	if err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (it *tapIter[T]) Close() error { return it.source.Close() }

type takeIter[T any] struct {
	source Iterator[T]
	limit  int
	taken  int
}

func (it *takeIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	if it.taken >= it.limit {
		var zero T
		return zero, false, nil
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return val, false, err
	}
	it.taken++
	return val, true, nil
}

func (it *takeIter[T]) Close() error { return it.source.Close() }

// takeWhileIter stops at the first value whose predicate result differs from want.
type takeWhileIter[T any] struct {
	source Iterator[T]
	pred   Predicate[T]
	want   bool
	index  int
	done   bool
}

func (it *takeWhileIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	var zero T
	if it.done {
		return zero, false, nil
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	match, err := it.pred(ctx, val, it.index)
	it.index++
	if err != nil {
		return zero, false, err
	}
	if match != it.want {
		it.done = true
		return zero, false, nil
	}
	return val, true, nil
}

func (it *takeWhileIter[T]) Close() error { return it.source.Close() }

type skipIter[T any] struct {
	source    Iterator[T]
	remaining int
}

func (it *skipIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for it.remaining > 0 {
		_, ok, err := it.source.Next(ctx)
		if err != nil || !ok {
			var zero T
			return zero, false, err
		}
		it.remaining--
	}
	return it.source.Next(ctx)
}

func (it *skipIter[T]) Close() error { return it.source.Close() }

type skipWhileIter[T any] struct {
	source   Iterator[T]
	pred     Predicate[T]
	want     bool
	index    int
	yielding bool
}

func (it *skipWhileIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for {
		val, ok, err := it.source.Next(ctx)
		if err != nil || !ok || it.yielding {
			return val, ok, err
		}
		match, err := it.pred(ctx, val, it.index)
		it.index++
		if err != nil {
			var zero T
			return zero, false, err
		}
		if match != it.want {
			it.yielding = true
			return val, true, nil
		}
	}
}

func (it *skipWhileIter[T]) Close() error { return it.source.Close() }

type concatIter[T any] struct {
	pipelines []*Pipeline[T]
	current   Iterator[T]
	index     int
}

func (it *concatIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	for it.index < len(it.pipelines) {
		if it.current == nil {
			it.current = it.pipelines[it.index].open(ctx)
		}
		val, ok, err := it.current.Next(ctx)
		if err != nil {
			return val, false, err
		}
		if ok {
			return val, true, nil
		}
		if err := it.current.Close(); err != nil {
			var zero T
			return zero, false, err
		}
		it.current = nil
		it.index++
	}
	var zero T
	return zero, false, nil
}

func (it *concatIter[T]) Close() error {
	if it.current == nil {
		return nil
	}
	err := it.current.Close()
	it.current = nil
	return err
}

type insertIter[T any] struct {
	source   Iterator[T]
	pred     Predicate[T]
	items    *Pipeline[T]
	before   bool
	index    int
	matched  bool
	held     *T
	inserted Iterator[T]
}

func (it *insertIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	var zero T
	if it.inserted != nil {
		val, ok, err := it.inserted.Next(ctx)
		if err != nil || ok {
			return val, ok, err
		}
		_ = it.inserted.Close()
		it.inserted = nil
		if it.held != nil {
			val := *it.held
			it.held = nil
			return val, true, nil
		}
	}
	val, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return zero, false, err
	}
	if it.matched {
		return val, true, nil
	}
	match, err := it.pred(ctx, val, it.index)
	it.index++
	if err != nil {
		return zero, false, err
	}
	if !match {
		return val, true, nil
	}
	it.matched = true
	it.inserted = it.items.open(ctx)
	if !it.before {
		return val, true, nil
	}
	it.held = &val
	return it.Next(ctx)
}

func (it *insertIter[T]) Close() error {
	if it.inserted != nil {
		_ = it.inserted.Close()
	}
	return it.source.Close()
}

// whenEmptyIter peeks one value to decide between the receiver and fn(receiver).
type whenEmptyIter[T any] struct {
	p       *Pipeline[T]
	source  Iterator[T]
	fn      func(*Pipeline[T]) *Pipeline[T]
	onEmpty bool
	decided bool
	peeked  *T
}

func (it *whenEmptyIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	if !it.decided {
		it.decided = true
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			return val, false, err
		}
		if empty := !ok; empty == it.onEmpty {
			_ = it.source.Close()
			it.source = it.fn(it.p).open(ctx)
		} else if ok {
			it.peeked = &val
		}
	}
	if it.peeked != nil {
		val := *it.peeked
		it.peeked = nil
		return val, true, nil
	}
	return it.source.Next(ctx)
}

func (it *whenEmptyIter[T]) Close() error { return it.source.Close() }
