package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/kbukum/collectkit/errors"
)

// --- Delay / Timeout / Abort tests ---

func TestDelay_PassesAllValues(t *testing.T) {
	got := collectAll(t, FromSlice([]int{1, 2, 3}).Delay(time.Millisecond))
	if !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("expected [1 2 3], got %v", got)
	}
}

func TestDelay_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := FromSlice([]int{1}).Delay(time.Hour).Collect(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("got %v, want deadline exceeded", err)
	}
}

func TestTimeout_FailsSlowEnumeration(t *testing.T) {
	slow := Range(0, 100, 1).Delay(20 * time.Millisecond).Timeout(50 * time.Millisecond)
	got, err := slow.Collect(context.Background())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want deadline exceeded", err)
	}
	if len(got) == 0 || len(got) >= 100 {
		t.Errorf("expected a partial result, got %d values", len(got))
	}
}

func TestTimeout_FastEnumerationSucceeds(t *testing.T) {
	got := collectAll(t, New(1, 2).Timeout(time.Minute))
	if !intSliceEqual(got, []int{1, 2}) {
		t.Errorf("got %v", got)
	}
}

func TestAbort(t *testing.T) {
	signal, abort := context.WithCancelCause(context.Background())
	reason := errors.New("user aborted")
	p := Range(0, 10, 1).Tap(func(_ context.Context, n, _ int) error {
		if n == 2 {
			abort(reason)
		}
		return nil
	}).Abort(signal)
	got, err := p.Collect(context.Background())
	if !errors.Is(err, reason) {
		t.Fatalf("got %v, want abort reason", err)
	}
	if !intSliceEqual(got, []int{0, 1, 2}) {
		t.Errorf("got %v, want [0 1 2]", got)
	}
}

// --- Chunk tests ---

func TestChunk_BySize(t *testing.T) {
	got := collectAll(t, Chunk(FromSlice([]int{1, 2, 3, 4, 5}), 2))
	want := [][]int{{1, 2}, {3, 4}, {5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestChunk_ExactMultiple(t *testing.T) {
	got := collectAll(t, Chunk(FromSlice([]int{1, 2, 3, 4}), 2))
	if len(got) != 2 {
		t.Fatalf("expected 2 chunks, got %d: %v", len(got), got)
	}
}

func TestChunk_FlattenRoundTrip(t *testing.T) {
	src := Range(0, 17, 1)
	got := collectAll(t, Flatten(Chunk(src, 4)))
	if diff := cmp.Diff(collectAll(t, src), got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestContractViolations_AreTypeErrors(t *testing.T) {
	ctx := context.Background()
	src := New(1, 2, 3)
	for name, p := range map[string]*Pipeline[[]int]{
		"chunk":        Chunk(src, 0),
		"split":        Split(src, 0),
		"sliding size": Sliding(src, -1),
		"sliding step": Sliding(src, 2, 0),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := p.Collect(ctx)
			if !apperrors.HasCode(err, apperrors.ErrCodeTypeError) {
				t.Errorf("got %v, want TYPE_ERROR", err)
			}
		})
	}
	if _, err := src.Page(0, 1).Collect(ctx); !apperrors.HasCode(err, apperrors.ErrCodeTypeError) {
		t.Errorf("page: got %v, want TYPE_ERROR", err)
	}
	if _, err := src.Repeat(-1).Collect(ctx); !apperrors.HasCode(err, apperrors.ErrCodeTypeError) {
		t.Errorf("repeat: got %v, want TYPE_ERROR", err)
	}
}

func TestChunkWhile(t *testing.T) {
	consecutive := func(_ context.Context, n, _ int, chunk []int) (bool, error) {
		return n == chunk[len(chunk)-1]+1, nil
	}
	got := collectAll(t, ChunkWhile(New(1, 2, 4, 5, 6, 9), consecutive))
	want := [][]int{{1, 2}, {4, 5, 6}, {9}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		n    int
		src  *Pipeline[int]
		want [][]int
	}{
		{"extras go first", 3, Range(1, 8, 1), [][]int{{1, 2, 3}, {4, 5}, {6, 7}}},
		{"even", 2, New(1, 2, 3, 4), [][]int{{1, 2}, {3, 4}}},
		{"fewer items than groups", 4, New(1, 2), [][]int{{1}, {2}, {}, {}}},
		{"empty source", 3, Empty[int](), [][]int{{}, {}, {}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, collectAll(t, Split(tt.src, tt.n))); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPartition(t *testing.T) {
	got := collectAll(t, Partition(Range(1, 6, 1), Pred(func(n, _ int) bool { return n > 3 })))
	want := [][]int{{4, 5}, {1, 2, 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

// --- Sliding tests ---

func TestSliding_Overlapping(t *testing.T) {
	abcd := FromSlice([]string{"a", "b", "c", "d"})
	tests := []struct {
		name string
		p    *Pipeline[[]string]
		want [][]string
	}{
		{"default step", Sliding(abcd, 2), [][]string{{"a", "b"}, {"b", "c"}, {"c", "d"}}},
		{"step one", Sliding(abcd, 3, 1), [][]string{{"a", "b", "c"}, {"b", "c", "d"}}},
		{"partial tail", Sliding(abcd, 3), [][]string{{"a", "b", "c"}, {"c", "d"}}},
		{"covered tail", Sliding(New("a", "b", "c", "d", "e"), 3), [][]string{{"a", "b", "c"}, {"c", "d", "e"}}},
		{"step beyond size", Sliding(New("a", "b", "c", "d", "e"), 2, 3), [][]string{{"a", "b"}, {"d", "e"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, collectAll(t, tt.p)); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSliding_Empty(t *testing.T) {
	if got := collectAll(t, Sliding(New("a"), 2)); len(got) != 0 {
		t.Errorf("expected no windows, got %v", got)
	}
}

// --- Global tests ---

func TestReverse(t *testing.T) {
	src := Range(0, reverseChunkSize*2+5, 1)
	got := collectAll(t, src.Reverse())
	want := collectAll(t, src)
	slices.Reverse(want)
	if !intSliceEqual(got, want) {
		t.Errorf("reverse mismatch: first=%d last=%d", got[0], got[len(got)-1])
	}
}

func TestSortShuffle(t *testing.T) {
	if got := collectAll(t, Sort(New(3, 1, 2))); !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("sort got %v", got)
	}
	shuffled := collectAll(t, Range(0, 20, 1).Shuffle(rand.New(rand.NewPCG(7, 7))))
	slices.Sort(shuffled)
	if !intSliceEqual(shuffled, collectAll(t, Range(0, 20, 1))) {
		t.Errorf("shuffle is not a permutation: %v", shuffled)
	}
}

func TestSliceTakeSkip(t *testing.T) {
	src := New(0, 1, 2, 3, 4)
	tests := []struct {
		name string
		p    *Pipeline[int]
		want []int
	}{
		{"slice(-2)", src.SliceFrom(-2), []int{3, 4}},
		{"take(-2)", src.Take(-2), []int{0, 1, 2}},
		{"skip(-2)", src.Skip(-2), []int{3, 4}},
		{"slice(1,3)", src.Slice(1, 3), []int{1, 2}},
		{"slice(-3,-1)", src.Slice(-3, -1), []int{2, 3}},
		{"page", src.Page(2, 2), []int{2, 3}},
		{"takeUntil", src.TakeUntil(Pred(func(n, _ int) bool { return n == 2 })), []int{0, 1}},
		{"skipUntil", src.SkipUntil(Pred(func(n, _ int) bool { return n == 3 })), []int{3, 4}},
		{"takeWhile", src.TakeWhile(Pred(func(n, _ int) bool { return n < 1 })), []int{0}},
		{"skipWhile", src.SkipWhile(Pred(func(n, _ int) bool { return n < 4 })), []int{4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collectAll(t, tt.p); !intSliceEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestInsertRepeatWhen(t *testing.T) {
	isTwo := Pred(func(n, _ int) bool { return n == 2 })
	tests := []struct {
		name string
		p    *Pipeline[int]
		want []int
	}{
		{"insertBefore", New(1, 2, 3).InsertBefore(isTwo, New(8, 9)), []int{1, 8, 9, 2, 3}},
		{"insertAfter", New(1, 2, 3).InsertAfter(isTwo, New(8)), []int{1, 2, 8, 3}},
		{"prepend append", New(2).Prepend(New(1)).Append(New(3)), []int{1, 2, 3}},
		{"repeat", New(1, 2).Repeat(2), []int{1, 2, 1, 2}},
		{"whenEmpty on empty", Empty[int]().WhenEmpty(func(*Pipeline[int]) *Pipeline[int] { return New(7) }), []int{7}},
		{"whenEmpty on values", New(1).WhenEmpty(func(*Pipeline[int]) *Pipeline[int] { return New(7) }), []int{1}},
		{"whenNotEmpty", New(1).WhenNotEmpty(func(p *Pipeline[int]) *Pipeline[int] { return p.Repeat(2) }), []int{1, 1}},
		{"when", New(1).When(true, func(p *Pipeline[int]) *Pipeline[int] { return p.Append(New(2)) }), []int{1, 2}},
		{"change", New(1, 2, 3).Change(isTwo, Fn(func(n, _ int) int { return n * 100 })), []int{1, 200, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := collectAll(t, tt.p); !intSliceEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntries(t *testing.T) {
	got := collectAll(t, Entries(New("a", "b").Skip(1)))
	if len(got) != 1 || got[0] != (Entry[string]{Index: 0, Value: "b"}) {
		t.Errorf("got %v", got)
	}
}

// --- Set tests ---

func TestGroupByCountBy(t *testing.T) {
	parity := Fn(func(n, _ int) string {
		if n%2 == 0 {
			return "even"
		}
		return "odd"
	})
	groups := collectAll(t, GroupBy(New(1, 2, 3, 4, 5), parity))
	wantGroups := []Pair[string, []int]{{Key: "odd", Value: []int{1, 3, 5}}, {Key: "even", Value: []int{2, 4}}}
	if diff := cmp.Diff(wantGroups, groups); diff != "" {
		t.Errorf("groupBy mismatch (-want +got):\n%s", diff)
	}
	counts := collectAll(t, CountBy(New(1, 2, 3), parity))
	wantCounts := []Pair[string, int]{{Key: "odd", Value: 2}, {Key: "even", Value: 1}}
	if diff := cmp.Diff(wantCounts, counts); diff != "" {
		t.Errorf("countBy mismatch (-want +got):\n%s", diff)
	}
}

func TestUniqueDifferenceZip(t *testing.T) {
	if got := collectAll(t, Unique(New(1, 1, 2, 1, 3))); !intSliceEqual(got, []int{1, 2, 3}) {
		t.Errorf("unique got %v", got)
	}
	if got := collectAll(t, Difference(New(1, 2, 3, 4), New(1, 3))); !intSliceEqual(got, []int{2, 4}) {
		t.Errorf("difference got %v", got)
	}
	zipped := collectAll(t, Zip(New(1, 2, 3), New("a", "b")))
	want := []Pair[int, string]{{Key: 1, Value: "a"}, {Key: 2, Value: "b"}}
	if diff := cmp.Diff(want, zipped); diff != "" {
		t.Errorf("zip mismatch (-want +got):\n%s", diff)
	}
}

func TestCrossJoin_Order(t *testing.T) {
	got := collectAll(t, CrossJoin(New[any](1, 2), New[any]("a", "b")))
	want := [][]any{{1, "a"}, {1, "b"}, {2, "a"}, {2, "b"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestPadStart_Reference(t *testing.T) {
	got, err := Join(context.Background(), FromString("abc").PadStart(10, FromString("foo")), "")
	if err != nil {
		t.Fatal(err)
	}
	if got != "foofoofabc" {
		t.Errorf("got %q, want foofoofabc", got)
	}
}
