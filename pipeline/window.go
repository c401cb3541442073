package pipeline

import (
	"context"
	"slices"

	"github.com/kbukum/collectkit/errors"
)

// reverseChunkSize bounds the slices Reverse buffers before replaying them.
const reverseChunkSize = 1024

// Sliding emits windows of size values whose starts advance by step
// (default size-1, at least 1). Nothing is emitted when the source is
// shorter than one window. The final window may be partial when the
// previous full window did not reach the end of the source.
func Sliding[T any](p *Pipeline[T], size int, step ...int) *Pipeline[[]T] {
	s := max(size-1, 1)
	if len(step) > 0 {
		s = step[0]
	}
	if size <= 0 {
		return failed[[]T](errors.InvalidArgument("sliding", "size", size, "must be positive"))
	}
	if s <= 0 {
		return failed[[]T](errors.InvalidArgument("sliding", "step", s, "must be positive"))
	}
	return newPipeline(func(ctx context.Context) Iterator[[]T] {
		return &slidingIter[T]{source: p.open(ctx), size: size, step: s}
	})
}

type slidingIter[T any] struct {
	source  Iterator[T]
	size    int
	step    int
	buffer  []T
	skip    int
	emitted bool
	pending bool
	done    bool
}

func (it *slidingIter[T]) Next(ctx context.Context) (result []T, ok bool, err error) {
	for !it.done {
		val, ok, err := it.source.Next(ctx)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			it.done = true
			break
		}
		if it.skip > 0 {
			it.skip--
			continue
		}
		it.buffer = append(it.buffer, val)
		it.pending = true
		if len(it.buffer) < it.size {
			continue
		}
		window := slices.Clone(it.buffer)
		it.emitted, it.pending = true, false
		if it.step >= it.size {
			it.skip = it.step - it.size
			it.buffer = it.buffer[:0]
		} else {
			it.buffer = slices.Clone(it.buffer[it.step:])
		}
		return window, true, nil
	}
	if it.emitted && it.pending && len(it.buffer) > 0 {
		it.pending = false
		return slices.Clone(it.buffer), true, nil
	}
	return nil, false, nil
}

func (it *slidingIter[T]) Close() error { return it.source.Close() }

// Reverse emits the values in reverse order. The upstream is buffered in
// bounded chunks which are replayed back to front.
func (p *Pipeline[T]) Reverse() *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		// chunkIter is built directly: calling Chunk from a method of
		// Pipeline[T] instantiates Pipeline[[]T].Reverse and forms a cycle.
		return &reverseIter[T]{source: &chunkIter[T]{source: p.open(ctx), size: reverseChunkSize}}
	})
}

type reverseIter[T any] struct {
	source Iterator[[]T]
	chunks [][]T
	loaded bool
}

func (it *reverseIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	var zero T
	if !it.loaded {
		chunks, err := drain(ctx, it.source)
		if err != nil {
			return zero, false, err
		}
		it.chunks, it.loaded = chunks, true
	}
	for len(it.chunks) > 0 {
		last := it.chunks[len(it.chunks)-1]
		if len(last) == 0 {
			it.chunks = it.chunks[:len(it.chunks)-1]
			continue
		}
		val := last[len(last)-1]
		it.chunks[len(it.chunks)-1] = last[:len(last)-1]
		return val, true, nil
	}
	return zero, false, nil
}

func (it *reverseIter[T]) Close() error { return it.source.Close() }
