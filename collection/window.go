package collection

import (
	"slices"

	"github.com/kbukum/collectkit/errors"
)

// reverseChunkSize bounds the slices Reverse buffers before re-threading them.
const reverseChunkSize = 1024

// Chunk groups consecutive items into slices of exactly size items. The last
// chunk may be shorter. A non-positive size fails enumeration with a type error.
func Chunk[T any](c Collection[T], size int) Collection[[]T] {
	if size <= 0 {
		return failed[[]T](errors.InvalidArgument("chunk", "size", size, "must be positive"))
	}
	return newCollection(func(yield func([]T) bool) error {
		chunk := make([]T, 0, size)
		stopped := false
		err := c.run(func(v T) bool {
			chunk = append(chunk, v)
			if len(chunk) < size {
				return true
			}
			out := chunk
			chunk = make([]T, 0, size)
			if !yield(out) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil || stopped {
			return err
		}
		if len(chunk) > 0 {
			yield(chunk)
		}
		return nil
	})
}

// ChunkWhile extends the current chunk while pred holds for the next item and
// starts a new chunk when it does not. pred sees the chunk being built.
func ChunkWhile[T any](c Collection[T], pred func(item T, index int, chunk []T) bool) Collection[[]T] {
	return newCollection(func(yield func([]T) bool) error {
		var chunk []T
		index := 0
		stopped := false
		err := c.run(func(v T) bool {
			i := index
			index++
			if i == 0 || pred(v, i, chunk) {
				chunk = append(chunk, v)
				return true
			}
			out := chunk
			chunk = []T{v}
			if !yield(out) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil || stopped {
			return err
		}
		if len(chunk) > 0 {
			yield(chunk)
		}
		return nil
	})
}

// Split divides the sequence into exactly n groups whose sizes differ by at
// most one. Earlier groups receive the extra items; when there are fewer
// items than groups the trailing groups are empty.
func Split[T any](c Collection[T], n int) Collection[[]T] {
	if n <= 0 {
		return failed[[]T](errors.InvalidArgument("split", "n", n, "must be positive"))
	}
	return newCollection(func(yield func([]T) bool) error {
		items, err := c.collect()
		if err != nil {
			return err
		}
		base, extra := len(items)/n, len(items)%n
		start := 0
		for g := range n {
			size := base
			if g < extra {
				size++
			}
			group := []T{}
			if size > 0 {
				group = items[start : start+size : start+size]
			}
			if !yield(group) {
				return nil
			}
			start += size
		}
		return nil
	})
}

// Sliding yields windows of size items whose starts advance by step
// (default size-1, at least 1). Nothing is yielded when the source is
// shorter than one window. Emission stops after the first window that
// reaches the end of the source; that window may be partial when the
// previous full window did not cover the tail.
func Sliding[T any](c Collection[T], size int, step ...int) Collection[[]T] {
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
	return newCollection(func(yield func([]T) bool) error {
		w := window[T]{size: size, step: s}
		stopped := false
		err := c.run(func(v T) bool {
			out, ok := w.push(v)
			if ok && !yield(out) {
				stopped = true
				return false
			}
			return true
		})
		if err != nil || stopped {
			return err
		}
		if tail, ok := w.tail(); ok {
			yield(tail)
		}
		return nil
	})
}

// window is the rolling buffer behind Sliding.
type window[T any] struct {
	size, step int
	buf        []T
	skip       int
	emitted    bool
	pending    bool
}

func (w *window[T]) push(v T) ([]T, bool) {
	if w.skip > 0 {
		w.skip--
		return nil, false
	}
	w.buf = append(w.buf, v)
	w.pending = true
	if len(w.buf) < w.size {
		return nil, false
	}
	out := slices.Clone(w.buf)
	w.emitted = true
	w.pending = false
	if w.step >= w.size {
		w.skip = w.step - w.size
		w.buf = w.buf[:0]
	} else {
		w.buf = slices.Clone(w.buf[w.step:])
	}
	return out, true
}

func (w *window[T]) tail() ([]T, bool) {
	if !w.emitted || !w.pending || len(w.buf) == 0 {
		return nil, false
	}
	return slices.Clone(w.buf), true
}

// Partition yields exactly two groups: the items matching pred, then the rest.
func Partition[T any](c Collection[T], pred Predicate[T]) Collection[[]T] {
	return newCollection(func(yield func([]T) bool) error {
		matched, rest := []T{}, []T{}
		index := 0
		err := c.run(func(v T) bool {
			if pred(v, index) {
				matched = append(matched, v)
			} else {
				rest = append(rest, v)
			}
			index++
			return true
		})
		if err != nil {
			return err
		}
		if yield(matched) {
			yield(rest)
		}
		return nil
	})
}

// Reverse yields the items in reverse order. The upstream is buffered in
// bounded chunks which are then replayed back to front.
func (c Collection[T]) Reverse() Collection[T] {
	return newCollection(func(yield func(T) bool) error {
		// Chunking is inlined: calling Chunk from a method of Collection[T]
		// instantiates Collection[[]T].Reverse and forms an instantiation cycle.
		var chunks [][]T
		chunk := make([]T, 0, reverseChunkSize)
		err := c.run(func(v T) bool {
			chunk = append(chunk, v)
			if len(chunk) == reverseChunkSize {
				chunks = append(chunks, chunk)
				chunk = make([]T, 0, reverseChunkSize)
			}
			return true
		})
		if err != nil {
			return err
		}
		chunks = append(chunks, chunk)
		for i := len(chunks) - 1; i >= 0; i-- {
			chunk := chunks[i]
			for j := len(chunk) - 1; j >= 0; j-- {
				if !yield(chunk[j]) {
					return nil
				}
			}
		}
		return nil
	})
}
