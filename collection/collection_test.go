package collection

import (
	stderrors "errors"
	"iter"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/collectkit/errors"
)

func toSlice[T any](t *testing.T, c Collection[T]) []T {
	t.Helper()
	got, err := c.ToSlice()
	if err != nil {
		t.Fatalf("ToSlice: %v", err)
	}
	return got
}

func wantCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	if !errors.HasCode(err, code) {
		t.Fatalf("got error %v, want code %s", err, code)
	}
}

func TestZeroValue_IsEmpty(t *testing.T) {
	var c Collection[int]
	if got := toSlice(t, c); len(got) != 0 {
		t.Errorf("got %v, want empty", got)
	}
}

func TestSources(t *testing.T) {
	tests := []struct {
		name string
		c    Collection[string]
		want []string
	}{
		{"new", New("a", "b"), []string{"a", "b"}},
		{"slice", FromSlice([]string{"x"}), []string{"x"}},
		{"empty", Empty[string](), []string{}},
		{"string", FromString("héj"), []string{"h", "é", "j"}},
		{"set", FromSet(map[string]struct{}{"b": {}, "a": {}}), []string{"a", "b"}},
		{"seq", FromSeq(slices.Values([]string{"q", "r"})), []string{"q", "r"}},
		{"iterable", FromIterable[string](New("i")), []string{"i"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, toSlice(t, tt.c)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromMap_SortedPairs(t *testing.T) {
	got := toSlice(t, FromMap(map[string]int{"b": 2, "a": 1}))
	want := []Pair[string, int]{{"a", 1}, {"b", 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromSeq2(t *testing.T) {
	got := toSlice(t, FromSeq2(slices.All([]string{"a", "b"})))
	want := []Pair[int, string]{{0, "a"}, {1, "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromFunc_Restartable(t *testing.T) {
	calls := 0
	c := FromFunc(func() iter.Seq[int] {
		calls++
		return slices.Values([]int{1, 2})
	})
	toSlice(t, c)
	got := toSlice(t, c)
	if calls != 2 {
		t.Errorf("factory called %d times, want 2", calls)
	}
	if diff := cmp.Diff([]int{1, 2}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestFromIterator_Error(t *testing.T) {
	boom := stderrors.New("boom")
	c := FromIterator(func(yield func(int) bool) error {
		if !yield(1) {
			return nil
		}
		return boom
	})
	_, err := c.ToSlice()
	wantCode(t, err, errors.ErrCodeUnexpected)
	if !stderrors.Is(err, boom) {
		t.Errorf("cause lost: %v", err)
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name             string
		start, end, step int
		want             []int
	}{
		{"ascending", 0, 5, 2, []int{0, 2, 4}},
		{"descending", 3, 0, -1, []int{3, 2, 1}},
		{"empty", 3, 3, 1, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, toSlice(t, Range(tt.start, tt.end, tt.step))); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
	_, err := Range(0, 1, 0).ToSlice()
	wantCode(t, err, errors.ErrCodeTypeError)
}

func TestLazy_NoWorkUntilTerminal(t *testing.T) {
	pulled := 0
	c := FromIterator(func(yield func(int) bool) error {
		for i := range 5 {
			pulled++
			if !yield(i) {
				return nil
			}
		}
		return nil
	})
	chained := c.Filter(func(int, int) bool { return true }).Take(2)
	if pulled != 0 {
		t.Fatalf("chaining pulled %d items", pulled)
	}
	toSlice(t, chained)
	if pulled != 2 {
		t.Errorf("pulled %d items, want 2", pulled)
	}
}

func TestIter_YieldsErrorLast(t *testing.T) {
	boom := stderrors.New("boom")
	c := FromIterator(func(yield func(int) bool) error {
		yield(1)
		return boom
	})
	var items []int
	var last error
	for v, err := range c.Iter() {
		if err != nil {
			last = err
			break
		}
		items = append(items, v)
	}
	if diff := cmp.Diff([]int{1}, items); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if !stderrors.Is(last, boom) {
		t.Errorf("got %v, want wrapped boom", last)
	}
}

func TestMaterialize(t *testing.T) {
	calls := 0
	c := FromIterator(func(yield func(int) bool) error {
		calls++
		for _, v := range []int{1, 2, 3} {
			if !yield(v) {
				return nil
			}
		}
		return nil
	}).Materialize()
	first := toSlice(t, c)
	second := toSlice(t, c.Take(1))
	if calls != 1 {
		t.Errorf("source read %d times, want 1", calls)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, first); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, second); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMaterialize_FailureNotCached(t *testing.T) {
	attempt := 0
	c := FromIterator(func(yield func(int) bool) error {
		attempt++
		if attempt == 1 {
			return stderrors.New("transient")
		}
		yield(7)
		return nil
	}).Materialize()
	if _, err := c.ToSlice(); err == nil {
		t.Fatal("expected first enumeration to fail")
	}
	if diff := cmp.Diff([]int{7}, toSlice(t, c)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPipe(t *testing.T) {
	evens := Pipe(New(1, 2, 3, 4), func(c Collection[int]) Collection[int] {
		return c.Filter(func(n, _ int) bool { return n%2 == 0 })
	})
	if diff := cmp.Diff([]int{2, 4}, toSlice(t, evens)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
