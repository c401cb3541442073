package pipeline

import (
	"cmp"
	"context"
	"strings"

	"github.com/kbukum/collectkit/collection"
	"github.com/kbukum/collectkit/errors"
)

// --- Terminals ---

// visit opens the pipeline, calls fn for every value until fn returns false,
// and closes the iterator. Errors are left unnormalized.
func (p *Pipeline[T]) visit(ctx context.Context, fn func(val T, index int) (bool, error)) error {
	it := p.open(ctx)
	defer it.Close()
	for index := 0; ; index++ {
		val, ok, err := it.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		more, err := fn(val, index)
		if err != nil || !more {
			return err
		}
	}
}

// Drain creates a Runnable that pulls all values and sends each to sink.
func (p *Pipeline[T]) Drain(sink func(ctx context.Context, item T, index int) error) *Runnable {
	return &Runnable{
		run: func(ctx context.Context) error {
			return errors.Wrap(p.visit(ctx, func(val T, index int) (bool, error) {
				return true, sink(ctx, val, index)
			}))
		},
	}
}

// ForEach pulls all values and calls fn for each. Convenience wrapper around Drain.
func (p *Pipeline[T]) ForEach(ctx context.Context, fn func(ctx context.Context, item T, index int) error) error {
	return p.Drain(fn).Run(ctx)
}

// Collect runs the pipeline and returns all values as a slice. On failure
// the values pulled before the error are returned with it.
func (p *Pipeline[T]) Collect(ctx context.Context) ([]T, error) {
	out := []T{}
	err := p.visit(ctx, func(val T, _ int) (bool, error) {
		out = append(out, val)
		return true, nil
	})
	return out, errors.Wrap(err)
}

// Reduce folds the values with fn. The first value seeds the accumulator.
// An empty pipeline fails with EMPTY_COLLECTION.
func (p *Pipeline[T]) Reduce(ctx context.Context, fn func(ctx context.Context, acc, item T, index int) (T, error)) (T, error) {
	var acc T
	seeded := false
	err := p.visit(ctx, func(val T, index int) (bool, error) {
		if !seeded {
			acc, seeded = val, true
			return true, nil
		}
		var err error
		acc, err = fn(ctx, acc, val, index)
		return true, err
	})
	var zero T
	if err != nil {
		return zero, errors.Wrap(err)
	}
	if !seeded {
		return zero, errors.EmptyCollection("reduce")
	}
	return acc, nil
}

// ReduceInto folds the values into initial. An empty pipeline returns initial.
func ReduceInto[T, R any](ctx context.Context, p *Pipeline[T], initial R, fn func(ctx context.Context, acc R, item T, index int) (R, error)) (R, error) {
	acc := initial
	err := p.visit(ctx, func(val T, index int) (bool, error) {
		var err error
		acc, err = fn(ctx, acc, val, index)
		return true, err
	})
	if err != nil {
		var zero R
		return zero, errors.Wrap(err)
	}
	return acc, nil
}

// Count returns the number of values.
func (p *Pipeline[T]) Count(ctx context.Context) (int, error) {
	return p.CountWhere(ctx, nil)
}

// CountWhere returns the number of values matching pred. A nil pred counts all.
func (p *Pipeline[T]) CountWhere(ctx context.Context, pred Predicate[T]) (int, error) {
	count := 0
	err := p.visit(ctx, func(val T, index int) (bool, error) {
		if pred == nil {
			count++
			return true, nil
		}
		ok, err := pred(ctx, val, index)
		if ok {
			count++
		}
		return true, err
	})
	if err != nil {
		return 0, errors.Wrap(err)
	}
	return count, nil
}

// IsEmpty reports whether the pipeline yields no values. It pulls at most one.
func (p *Pipeline[T]) IsEmpty(ctx context.Context) (bool, error) {
	found, err := p.Some(ctx)
	return !found && err == nil, err
}

// IsNotEmpty reports whether the pipeline yields at least one value.
func (p *Pipeline[T]) IsNotEmpty(ctx context.Context) (bool, error) {
	return p.Some(ctx)
}

// Some reports whether any value matches the optional predicate.
func (p *Pipeline[T]) Some(ctx context.Context, preds ...Predicate[T]) (bool, error) {
	_, found, err := p.First(ctx, preds...)
	return found, err
}

// Every reports whether all values match pred. True for an empty pipeline.
func (p *Pipeline[T]) Every(ctx context.Context, pred Predicate[T]) (bool, error) {
	found, err := p.Some(ctx, func(ctx context.Context, v T, i int) (bool, error) {
		ok, err := pred(ctx, v, i)
		return !ok, err
	})
	return !found && err == nil, err
}

// Contains reports whether target occurs in the pipeline.
func Contains[T comparable](ctx context.Context, p *Pipeline[T], target T) (bool, error) {
	return p.Some(ctx, Pred(func(v T, _ int) bool { return v == target }))
}

// SearchFirst returns the index of the first value matching pred, or -1.
func (p *Pipeline[T]) SearchFirst(ctx context.Context, pred Predicate[T]) (int, error) {
	found := -1
	err := p.visit(ctx, func(val T, index int) (bool, error) {
		ok, err := pred(ctx, val, index)
		if ok {
			found = index
		}
		return !ok, err
	})
	if err != nil {
		return -1, errors.Wrap(err)
	}
	return found, nil
}

// SearchLast returns the index of the last value matching pred, or -1.
func (p *Pipeline[T]) SearchLast(ctx context.Context, pred Predicate[T]) (int, error) {
	found := -1
	err := p.visit(ctx, func(val T, index int) (bool, error) {
		ok, err := pred(ctx, val, index)
		if ok {
			found = index
		}
		return true, err
	})
	if err != nil {
		return -1, errors.Wrap(err)
	}
	return found, nil
}

func matchAll[T any](preds []Predicate[T]) Predicate[T] {
	if len(preds) == 0 || preds[0] == nil {
		return func(context.Context, T, int) (bool, error) { return true, nil }
	}
	return preds[0]
}

// First returns the first value matching the optional predicate. found is
// false when nothing matches; that is not an error.
func (p *Pipeline[T]) First(ctx context.Context, preds ...Predicate[T]) (item T, found bool, err error) {
	match := matchAll(preds)
	err = p.visit(ctx, func(val T, index int) (bool, error) {
		ok, err := match(ctx, val, index)
		if ok {
			item, found = val, true
		}
		return !ok, err
	})
	return resolve(item, found, err)
}

// FirstOr returns the first matching value or def.
func (p *Pipeline[T]) FirstOr(ctx context.Context, def T, preds ...Predicate[T]) (T, error) {
	return orDefault(def)(p.First(ctx, preds...))
}

// FirstOrFail returns the first matching value or ITEM_NOT_FOUND.
func (p *Pipeline[T]) FirstOrFail(ctx context.Context, preds ...Predicate[T]) (T, error) {
	return orFail[T]("firstOrFail")(p.First(ctx, preds...))
}

// Last returns the last value matching the optional predicate.
func (p *Pipeline[T]) Last(ctx context.Context, preds ...Predicate[T]) (item T, found bool, err error) {
	match := matchAll(preds)
	err = p.visit(ctx, func(val T, index int) (bool, error) {
		ok, err := match(ctx, val, index)
		if ok {
			item, found = val, true
		}
		return true, err
	})
	return resolve(item, found, err)
}

// LastOr returns the last matching value or def.
func (p *Pipeline[T]) LastOr(ctx context.Context, def T, preds ...Predicate[T]) (T, error) {
	return orDefault(def)(p.Last(ctx, preds...))
}

// LastOrFail returns the last matching value or ITEM_NOT_FOUND.
func (p *Pipeline[T]) LastOrFail(ctx context.Context, preds ...Predicate[T]) (T, error) {
	return orFail[T]("lastOrFail")(p.Last(ctx, preds...))
}

// Before returns the value immediately preceding the first value matching pred.
func (p *Pipeline[T]) Before(ctx context.Context, pred Predicate[T]) (item T, found bool, err error) {
	var prev T
	err = p.visit(ctx, func(val T, index int) (bool, error) {
		ok, err := pred(ctx, val, index)
		if ok {
			item, found = prev, index > 0
		}
		prev = val
		return !ok, err
	})
	return resolve(item, found, err)
}

// BeforeOr returns the value before the first match or def.
func (p *Pipeline[T]) BeforeOr(ctx context.Context, def T, pred Predicate[T]) (T, error) {
	return orDefault(def)(p.Before(ctx, pred))
}

// BeforeOrFail returns the value before the first match or ITEM_NOT_FOUND.
func (p *Pipeline[T]) BeforeOrFail(ctx context.Context, pred Predicate[T]) (T, error) {
	return orFail[T]("beforeOrFail")(p.Before(ctx, pred))
}

// After returns the value immediately following the first value matching pred.
func (p *Pipeline[T]) After(ctx context.Context, pred Predicate[T]) (item T, found bool, err error) {
	matched := false
	err = p.visit(ctx, func(val T, index int) (bool, error) {
		if matched {
			item, found = val, true
			return false, nil
		}
		var err error
		matched, err = pred(ctx, val, index)
		return true, err
	})
	return resolve(item, found, err)
}

// AfterOr returns the value after the first match or def.
func (p *Pipeline[T]) AfterOr(ctx context.Context, def T, pred Predicate[T]) (T, error) {
	return orDefault(def)(p.After(ctx, pred))
}

// AfterOrFail returns the value after the first match or ITEM_NOT_FOUND.
func (p *Pipeline[T]) AfterOrFail(ctx context.Context, pred Predicate[T]) (T, error) {
	return orFail[T]("afterOrFail")(p.After(ctx, pred))
}

// Nth returns the value at index. Negative indices count from the end.
func (p *Pipeline[T]) Nth(ctx context.Context, index int) (T, bool, error) {
	if index < 0 {
		return p.SliceFrom(index).First(ctx)
	}
	return p.Skip(index).First(ctx)
}

// NthOrFail returns the value at index or ITEM_NOT_FOUND.
func (p *Pipeline[T]) NthOrFail(ctx context.Context, index int) (T, error) {
	item, found, err := p.Nth(ctx, index)
	if err == nil && !found {
		err = errors.ItemNotFound("nthOrFail").WithDetail("index", index)
	}
	return item, err
}

// Sole returns the only value matching the optional predicate. Pulling stops
// at the second match.
func (p *Pipeline[T]) Sole(ctx context.Context, preds ...Predicate[T]) (T, error) {
	match := matchAll(preds)
	var item T
	matches := 0
	err := p.visit(ctx, func(val T, index int) (bool, error) {
		ok, err := match(ctx, val, index)
		if ok {
			matches++
			item = val
		}
		return matches < 2, err
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

// Percentage returns the share of values matching pred, from 0 to 100.
func (p *Pipeline[T]) Percentage(ctx context.Context, pred Predicate[T]) (float64, error) {
	matched, total := 0, 0
	err := p.visit(ctx, func(val T, index int) (bool, error) {
		ok, err := pred(ctx, val, index)
		if ok {
			matched++
		}
		total++
		return true, err
	})
	if err != nil {
		return 0, errors.Wrap(err)
	}
	if total == 0 {
		return 0, errors.EmptyCollection("percentage")
	}
	return float64(matched) * 100 / float64(total), nil
}

// Join concatenates string values with sep.
func Join(ctx context.Context, p *Pipeline[string], sep string) (string, error) {
	var b strings.Builder
	err := p.visit(ctx, func(s string, index int) (bool, error) {
		if index > 0 {
			b.WriteString(sep)
		}
		b.WriteString(s)
		return true, nil
	})
	if err != nil {
		return "", errors.Wrap(err)
	}
	return b.String(), nil
}

// ToMap drains key/value pairs into a map. Later keys overwrite earlier ones.
func ToMap[K comparable, V any](ctx context.Context, p *Pipeline[Pair[K, V]]) (map[K]V, error) {
	out := make(map[K]V)
	err := p.visit(ctx, func(pair Pair[K, V], _ int) (bool, error) {
		out[pair.Key] = pair.Value
		return true, nil
	})
	if err != nil {
		return nil, errors.Wrap(err)
	}
	return out, nil
}

// ToRecord drains dynamic 2-tuples into a string-keyed map.
// See collection.ToRecord for the accepted shapes.
func ToRecord(ctx context.Context, p *Pipeline[any]) (map[string]any, error) {
	items, err := collect(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err)
	}
	return collection.ToRecord(collection.FromSlice(items))
}

// ToMapAny drains dynamic 2-tuples into a map keyed by any comparable value.
func ToMapAny(ctx context.Context, p *Pipeline[any]) (map[any]any, error) {
	items, err := collect(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err)
	}
	return collection.ToMapAny(collection.FromSlice(items))
}

// Numbers converts dynamic values to float64, failing with a type error at
// the first value that is not a number.
func Numbers(p *Pipeline[any]) *Pipeline[float64] {
	return Map(p, func(_ context.Context, v any, _ int) (float64, error) { return collection.AsNumber(v) })
}

// Strings converts dynamic values to strings.
func Strings(p *Pipeline[any]) *Pipeline[string] {
	return Map(p, func(_ context.Context, v any, _ int) (string, error) { return collection.AsString(v) })
}

// --- Aggregates ---

// Sum adds up the values. An empty pipeline fails with EMPTY_COLLECTION.
func Sum[T collection.Number](ctx context.Context, p *Pipeline[T]) (T, error) {
	items, err := nonEmpty(ctx, p, "sum")
	var total T
	for _, v := range items {
		total += v
	}
	return total, err
}

// Average returns the arithmetic mean of the values.
func Average[T collection.Number](ctx context.Context, p *Pipeline[T]) (float64, error) {
	items, err := nonEmpty(ctx, p, "average")
	if err != nil {
		return 0, err
	}
	var total float64
	for _, v := range items {
		total += float64(v)
	}
	return total / float64(len(items)), nil
}

// Median returns the middle value in sorted order, or the mean of the two
// middle values when the count is even.
func Median[T collection.Number](ctx context.Context, p *Pipeline[T]) (float64, error) {
	items, err := nonEmpty(ctx, p, "median")
	if err != nil {
		return 0, err
	}
	return collection.Median(collection.FromSlice(items))
}

// Min returns the smallest value.
func Min[T cmp.Ordered](ctx context.Context, p *Pipeline[T]) (T, error) {
	items, err := nonEmpty(ctx, p, "min")
	if err != nil {
		var zero T
		return zero, err
	}
	return collection.Min(collection.FromSlice(items))
}

// Max returns the largest value.
func Max[T cmp.Ordered](ctx context.Context, p *Pipeline[T]) (T, error) {
	items, err := nonEmpty(ctx, p, "max")
	if err != nil {
		var zero T
		return zero, err
	}
	return collection.Max(collection.FromSlice(items))
}

func nonEmpty[T any](ctx context.Context, p *Pipeline[T], operation string) ([]T, error) {
	items, err := collect(ctx, p)
	if err != nil {
		return nil, errors.Wrap(err)
	}
	if len(items) == 0 {
		return nil, errors.EmptyCollection(operation)
	}
	return items, nil
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
		if err != nil || !found {
			return def, err
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
