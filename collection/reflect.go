package collection

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
	"strconv"

	"github.com/kbukum/collectkit/errors"
)

// FromValue normalizes an arbitrary value into a dynamic collection.
// Slices and arrays yield their elements, strings yield one item per rune,
// maps yield Pair[any, any] in ascending key order, and an existing
// Collection[any] is returned as is. nil is empty. Any other value fails
// enumeration with a type error.
func FromValue(v any) Collection[any] {
	switch src := v.(type) {
	case nil:
		return Empty[any]()
	case Collection[any]:
		return src
	case string:
		return Map(FromString(src), func(s string, _ int) any { return s })
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return newCollection(func(yield func(any) bool) error {
			for i := range rv.Len() {
				if !yield(rv.Index(i).Interface()) {
					return nil
				}
			}
			return nil
		})
	case reflect.Map:
		return newCollection(func(yield func(any) bool) error {
			keys := rv.MapKeys()
			slices.SortFunc(keys, compareValues)
			for _, k := range keys {
				p := Pair[any, any]{Key: k.Interface(), Value: rv.MapIndex(k).Interface()}
				if !yield(p) {
					return nil
				}
			}
			return nil
		})
	}
	return failed[any](errors.TypeMismatch("fromValue", "slice, array, map or string", v))
}

func compareValues(a, b reflect.Value) int {
	// Keys of a map[any]any arrive as interface values.
	if a.Kind() == reflect.Interface && !a.IsNil() {
		a = a.Elem()
	}
	if b.Kind() == reflect.Interface && !b.IsNil() {
		b = b.Elem()
	}
	switch {
	case a.CanInt() && b.CanInt():
		return cmp.Compare(a.Int(), b.Int())
	case a.CanUint() && b.CanUint():
		return cmp.Compare(a.Uint(), b.Uint())
	case a.CanFloat() && b.CanFloat():
		return cmp.Compare(a.Float(), b.Float())
	case a.Kind() == reflect.String && b.Kind() == reflect.String:
		return cmp.Compare(a.String(), b.String())
	}
	return cmp.Compare(fmt.Sprint(a.Interface()), fmt.Sprint(b.Interface()))
}

// Numbers converts dynamic items to float64. Enumeration fails with a type
// error at the first item that is not a number.
func Numbers(c Collection[any]) Collection[float64] {
	return convert(c, AsNumber)
}

// Strings converts dynamic items to strings. Enumeration fails with a type
// error at the first item that is not a string.
func Strings(c Collection[any]) Collection[string] {
	return convert(c, AsString)
}

func convert[R any](c Collection[any], fn func(any) (R, error)) Collection[R] {
	return newCollection(func(yield func(R) bool) error {
		var mismatch error
		err := c.run(func(v any) bool {
			out, err := fn(v)
			if err != nil {
				mismatch = err
				return false
			}
			return yield(out)
		})
		if mismatch != nil {
			return mismatch
		}
		return err
	})
}

// AsNumber converts any integer or floating point value to float64.
func AsNumber(v any) (float64, error) {
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
	case rv.CanInt():
		return float64(rv.Int()), nil
	case rv.CanUint():
		return float64(rv.Uint()), nil
	case rv.CanFloat():
		return rv.Float(), nil
	}
	return 0, errors.TypeMismatch("numbers", "number", v)
}

// AsString converts any value whose kind is string.
func AsString(v any) (string, error) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || rv.Kind() != reflect.String {
		return "", errors.TypeMismatch("strings", "string", v)
	}
	return rv.String(), nil
}

// ToRecord drains dynamic 2-tuples into a string-keyed map. A tuple is a
// Pair or a slice or array of length two; its key must be a string or an
// integer. Anything else fails with a type error.
func ToRecord(c Collection[any]) (map[string]any, error) {
	out := make(map[string]any)
	err := drainTuples(c, "toRecord", func(k, v any) error {
		key, ok := recordKey(k)
		if !ok {
			return errors.TypeMismatch("toRecord", "string or integer key", k)
		}
		out[key] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ToMapAny drains dynamic 2-tuples into a map keyed by any comparable value.
func ToMapAny(c Collection[any]) (map[any]any, error) {
	out := make(map[any]any)
	err := drainTuples(c, "toMap", func(k, v any) error {
		if k == nil || !reflect.TypeOf(k).Comparable() {
			return errors.TypeMismatch("toMap", "comparable key", k)
		}
		out[k] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type tupler interface {
	tuple() (any, any)
}

func drainTuples(c Collection[any], operation string, fn func(k, v any) error) error {
	var stageErr error
	err := c.run(func(item any) bool {
		k, v, ok := splitTuple(item)
		if !ok {
			stageErr = errors.TypeMismatch(operation, "2-tuple", item)
			return false
		}
		stageErr = fn(k, v)
		return stageErr == nil
	})
	if stageErr != nil {
		return stageErr
	}
	return errors.Wrap(err)
}

func splitTuple(item any) (any, any, bool) {
	if t, ok := item.(tupler); ok {
		k, v := t.tuple()
		return k, v, true
	}
	rv := reflect.ValueOf(item)
	if !rv.IsValid() {
		return nil, nil, false
	}
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) && rv.Len() == 2 {
		return rv.Index(0).Interface(), rv.Index(1).Interface(), true
	}
	return nil, nil, false
}

func recordKey(k any) (string, bool) {
	rv := reflect.ValueOf(k)
	switch {
	case !rv.IsValid():
		return "", false
	case rv.Kind() == reflect.String:
		return rv.String(), true
	case rv.CanInt():
		return strconv.FormatInt(rv.Int(), 10), true
	case rv.CanUint():
		return strconv.FormatUint(rv.Uint(), 10), true
	}
	return "", false
}
