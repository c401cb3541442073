package pipeline

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/kbukum/collectkit/errors"
)

func TestReduce(t *testing.T) {
	ctx := context.Background()
	add := func(_ context.Context, acc, n, _ int) (int, error) { return acc + n, nil }

	got, err := New(1, 2, 3, 4).Reduce(ctx, add)
	if err != nil || got != 10 {
		t.Errorf("got %d, %v, want 10", got, err)
	}
	if _, err := Empty[int]().Reduce(ctx, add); !apperrors.HasCode(err, apperrors.ErrCodeEmptyCollection) {
		t.Errorf("got %v, want EMPTY_COLLECTION", err)
	}

	length, err := ReduceInto(ctx, New("ab", "c"), 0, func(_ context.Context, acc int, s string, _ int) (int, error) {
		return acc + len(s), nil
	})
	if err != nil || length != 3 {
		t.Errorf("reduceInto got %d, %v", length, err)
	}
}

func TestCountAndExistence(t *testing.T) {
	ctx := context.Background()
	even := Pred(func(n, _ int) bool { return n%2 == 0 })
	src := New(1, 2, 3, 4, 5)

	if n, _ := src.Count(ctx); n != 5 {
		t.Errorf("count = %d, want 5", n)
	}
	if n, _ := src.CountWhere(ctx, even); n != 2 {
		t.Errorf("countWhere = %d, want 2", n)
	}
	if empty, _ := Empty[int]().IsEmpty(ctx); !empty {
		t.Error("expected empty pipeline to be empty")
	}
	if notEmpty, _ := src.IsNotEmpty(ctx); !notEmpty {
		t.Error("expected pipeline to be non-empty")
	}
	if all, _ := Empty[int]().Every(ctx, even); !all {
		t.Error("every on empty should be true")
	}
	if all, _ := src.Every(ctx, even); all {
		t.Error("every should be false")
	}
	if ok, _ := Contains(ctx, src, 3); !ok {
		t.Error("expected contains 3")
	}
	if i, _ := src.SearchFirst(ctx, even); i != 1 {
		t.Errorf("searchFirst = %d, want 1", i)
	}
	if i, _ := src.SearchLast(ctx, even); i != 3 {
		t.Errorf("searchLast = %d, want 3", i)
	}
	if i, _ := src.SearchFirst(ctx, Pred(func(n, _ int) bool { return n > 9 })); i != -1 {
		t.Errorf("searchFirst miss = %d, want -1", i)
	}
}

func TestIsEmpty_PullsOneValue(t *testing.T) {
	pulled := 0
	p := Range(0, 100, 1).Tap(func(context.Context, int, int) error {
		pulled++
		return nil
	})
	if empty, err := p.IsEmpty(context.Background()); err != nil || empty {
		t.Fatalf("empty=%v err=%v", empty, err)
	}
	if pulled != 1 {
		t.Errorf("pulled %d values, want 1", pulled)
	}
}

func TestFindFamily(t *testing.T) {
	ctx := context.Background()
	src := New(10, 20, 30)
	is := func(want int) Predicate[int] { return Pred(func(n, _ int) bool { return n == want }) }

	tests := []struct {
		name  string
		call  func() (int, bool, error)
		want  int
		found bool
	}{
		{"first", func() (int, bool, error) { return src.First(ctx) }, 10, true},
		{"first match", func() (int, bool, error) { return src.First(ctx, is(20)) }, 20, true},
		{"first miss", func() (int, bool, error) { return src.First(ctx, is(99)) }, 0, false},
		{"last", func() (int, bool, error) { return src.Last(ctx) }, 30, true},
		{"before", func() (int, bool, error) { return src.Before(ctx, is(20)) }, 10, true},
		{"before first", func() (int, bool, error) { return src.Before(ctx, is(10)) }, 0, false},
		{"after", func() (int, bool, error) { return src.After(ctx, is(20)) }, 30, true},
		{"after last", func() (int, bool, error) { return src.After(ctx, is(30)) }, 0, false},
		{"nth", func() (int, bool, error) { return src.Nth(ctx, 1) }, 20, true},
		{"nth negative", func() (int, bool, error) { return src.Nth(ctx, -1) }, 30, true},
		{"nth overflow", func() (int, bool, error) { return src.Nth(ctx, 5) }, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found, err := tt.call()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want || found != tt.found {
				t.Errorf("got (%d, %v), want (%d, %v)", got, found, tt.want, tt.found)
			}
		})
	}
}

func TestFindFamily_Fallbacks(t *testing.T) {
	ctx := context.Background()
	miss := Pred(func(n, _ int) bool { return n > 100 })
	src := New(1, 2)

	if v, err := src.FirstOr(ctx, -1, miss); err != nil || v != -1 {
		t.Errorf("firstOr got %d, %v", v, err)
	}
	if v, err := src.LastOr(ctx, -1); err != nil || v != 2 {
		t.Errorf("lastOr got %d, %v", v, err)
	}
	for name, call := range map[string]func() error{
		"firstOrFail":  func() error { _, err := src.FirstOrFail(ctx, miss); return err },
		"lastOrFail":   func() error { _, err := src.LastOrFail(ctx, miss); return err },
		"beforeOrFail": func() error { _, err := src.BeforeOrFail(ctx, miss); return err },
		"afterOrFail":  func() error { _, err := src.AfterOrFail(ctx, miss); return err },
		"nthOrFail":    func() error { _, err := src.NthOrFail(ctx, 9); return err },
	} {
		t.Run(name, func(t *testing.T) {
			if err := call(); !apperrors.HasCode(err, apperrors.ErrCodeItemNotFound) {
				t.Errorf("got %v, want ITEM_NOT_FOUND", err)
			}
		})
	}
}

func TestSole(t *testing.T) {
	ctx := context.Background()
	if v, err := New(7).Sole(ctx); err != nil || v != 7 {
		t.Errorf("got %d, %v, want 7", v, err)
	}
	if _, err := Empty[int]().Sole(ctx); !apperrors.HasCode(err, apperrors.ErrCodeItemNotFound) {
		t.Errorf("got %v, want ITEM_NOT_FOUND", err)
	}
	if _, err := New(1, 2).Sole(ctx); !apperrors.HasCode(err, apperrors.ErrCodeMultipleItemsFound) {
		t.Errorf("got %v, want MULTIPLE_ITEMS_FOUND", err)
	}
}

func TestPercentage(t *testing.T) {
	ctx := context.Background()
	even := Pred(func(n, _ int) bool { return n%2 == 0 })
	if got, err := New(1, 2, 3, 4).Percentage(ctx, even); err != nil || got != 50 {
		t.Errorf("got %v, %v, want 50", got, err)
	}
	if _, err := Empty[int]().Percentage(ctx, even); !apperrors.HasCode(err, apperrors.ErrCodeEmptyCollection) {
		t.Errorf("got %v, want EMPTY_COLLECTION", err)
	}
}

func TestAggregates(t *testing.T) {
	ctx := context.Background()
	src := New(4, 1, 3, 2)
	if got, _ := Sum(ctx, src); got != 10 {
		t.Errorf("sum = %d, want 10", got)
	}
	if got, _ := Average(ctx, src); got != 2.5 {
		t.Errorf("average = %v, want 2.5", got)
	}
	if got, _ := Median(ctx, src); got != 2.5 {
		t.Errorf("median = %v, want 2.5", got)
	}
	if got, _ := Median(ctx, New(5, 1, 3)); got != 3 {
		t.Errorf("median odd = %v, want 3", got)
	}
	if got, _ := Min(ctx, src); got != 1 {
		t.Errorf("min = %d, want 1", got)
	}
	if got, _ := Max(ctx, src); got != 4 {
		t.Errorf("max = %d, want 4", got)
	}
	if _, err := Sum(ctx, Empty[int]()); !apperrors.HasCode(err, apperrors.ErrCodeEmptyCollection) {
		t.Errorf("got %v, want EMPTY_COLLECTION", err)
	}
}

func TestConversions(t *testing.T) {
	ctx := context.Background()
	joined, err := Join(ctx, New("a", "b", "c"), ", ")
	if err != nil || joined != "a, b, c" {
		t.Errorf("join got %q, %v", joined, err)
	}

	m, err := ToMap(ctx, New(Pair[string, int]{Key: "a", Value: 1}, Pair[string, int]{Key: "a", Value: 2}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]int{"a": 2}, m); diff != "" {
		t.Errorf("toMap mismatch (-want +got):\n%s", diff)
	}

	record, err := ToRecord(ctx, New[any]([]any{"name", "kit"}, []any{1, true}))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]any{"name": "kit", "1": true}, record); diff != "" {
		t.Errorf("toRecord mismatch (-want +got):\n%s", diff)
	}

	nums := collectAll(t, Numbers(New[any](1, 2.5, int64(3))))
	if diff := cmp.Diff([]float64{1, 2.5, 3}, nums); diff != "" {
		t.Errorf("numbers mismatch (-want +got):\n%s", diff)
	}
	if _, err := Numbers(New[any]("x")).Collect(ctx); !apperrors.HasCode(err, apperrors.ErrCodeTypeError) {
		t.Errorf("got %v, want TYPE_ERROR", err)
	}
}
