package eventbus

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	apperrors "github.com/kbukum/collectkit/errors"
	"github.com/kbukum/collectkit/logger"
)

type named string

func (n named) Name() string { return string(n) }

type userCreated struct{ ID int }

func (userCreated) Name() string { return "user.created" }

func newBus() *Bus { return New(WithLogger(logger.Nop())) }

func record(log *[]string, tag string) Listener {
	return func(_ context.Context, e Event) error {
		*log = append(*log, tag+":"+e.Name())
		return nil
	}
}

func TestDispatch_SubscriptionOrder(t *testing.T) {
	bus := newBus()
	var got []string
	bus.Subscribe("a", record(&got, "1"))
	bus.Subscribe(Wildcard, record(&got, "all"))
	bus.Subscribe("a", record(&got, "2"))
	bus.Subscribe("b", record(&got, "b"))

	if err := bus.Dispatch(context.Background(), named("a")); err != nil {
		t.Fatal(err)
	}
	want := []string{"1:a", "all:a", "2:a"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestDispatch_ErrorsJoinedAndPanicsRecovered(t *testing.T) {
	bus := newBus()
	boom := stderrors.New("boom")
	calls := 0
	bus.Subscribe("e", func(context.Context, Event) error { calls++; return boom })
	bus.Subscribe("e", func(context.Context, Event) error { calls++; panic("bad listener") })
	bus.Subscribe("e", func(context.Context, Event) error { calls++; return nil })

	err := bus.Dispatch(context.Background(), named("e"))
	if calls != 3 {
		t.Errorf("expected all 3 listeners to run, got %d", calls)
	}
	if !stderrors.Is(err, boom) {
		t.Errorf("joined error should contain boom: %v", err)
	}
	if !apperrors.HasCode(err, apperrors.ErrCodeUnexpected) {
		t.Errorf("panic should surface as UNEXPECTED: %v", err)
	}
}

func TestDispatch_CanceledContext(t *testing.T) {
	bus := newBus()
	called := false
	bus.Subscribe("e", func(context.Context, Event) error { called = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := bus.Dispatch(ctx, named("e")); !stderrors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if called {
		t.Error("listener ran after cancellation")
	}
}

func TestOnce(t *testing.T) {
	bus := newBus()
	var got []string
	bus.Once("e", record(&got, "once"))
	bus.Once("other", record(&got, "other"))

	ctx := context.Background()
	_ = bus.Dispatch(ctx, named("e"))
	_ = bus.Dispatch(ctx, named("e"))

	if diff := cmp.Diff([]string{"once:e"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	if bus.Len() != 1 {
		t.Errorf("unmatched one-shot listener should remain, Len = %d", bus.Len())
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := newBus()
	var got []string
	sub := bus.Subscribe("e", record(&got, "x"))
	if sub.ID == "" || sub.Event != "e" {
		t.Fatalf("bad subscription: %+v", sub)
	}
	if !bus.Unsubscribe(sub.ID) {
		t.Fatal("Unsubscribe returned false")
	}
	if bus.Unsubscribe(sub.ID) {
		t.Error("second Unsubscribe should report false")
	}
	_ = bus.Dispatch(context.Background(), named("e"))
	if len(got) != 0 {
		t.Errorf("removed listener ran: %v", got)
	}
}

func TestDispatchMany(t *testing.T) {
	bus := newBus()
	var got []string
	fail := stderrors.New("fail")
	bus.Subscribe(Wildcard, record(&got, "all"))
	bus.Subscribe("b", func(context.Context, Event) error { return fail })

	err := bus.DispatchMany(context.Background(), named("a"), named("b"), named("c"))
	if !stderrors.Is(err, fail) {
		t.Errorf("got %v, want fail", err)
	}
	if diff := cmp.Diff([]string{"all:a", "all:b", "all:c"}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestOn_Typed(t *testing.T) {
	bus := newBus()
	var ids []int
	On(bus, func(_ context.Context, e userCreated) error {
		ids = append(ids, e.ID)
		return nil
	})

	ctx := context.Background()
	_ = bus.Dispatch(ctx, userCreated{ID: 7})
	_ = bus.Dispatch(ctx, named("user.created"))

	if diff := cmp.Diff([]int{7}, ids); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
