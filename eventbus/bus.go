package eventbus

import (
	"context"
	stderrors "errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/kbukum/collectkit/collection"
	"github.com/kbukum/collectkit/errors"
	"github.com/kbukum/collectkit/logger"
)

// Wildcard subscribes a listener to every event.
const Wildcard = "*"

// Event is anything with a routing name.
type Event interface {
	Name() string
}

// Listener handles one event.
type Listener func(ctx context.Context, e Event) error

// Subscription identifies a registered listener.
type Subscription struct {
	ID    string
	Event string
}

type subscriber struct {
	Subscription
	listener Listener
	once     bool
}

// Bus delivers events synchronously to listeners in subscription order.
// It is safe for concurrent use.
type Bus struct {
	mu   sync.RWMutex
	subs []*subscriber
	log  *logger.Logger
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the logger used to report listener failures.
func WithLogger(l *logger.Logger) Option {
	return func(b *Bus) { b.log = l }
}

// New creates an empty bus.
func New(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.WithComponent("eventbus")
	}
	return b
}

// Subscribe registers l for events named name, or for all events when name
// is Wildcard.
func (b *Bus) Subscribe(name string, l Listener) Subscription {
	return b.add(name, l, false)
}

// Once registers l for the next matching event only.
func (b *Bus) Once(name string, l Listener) Subscription {
	return b.add(name, l, true)
}

func (b *Bus) add(name string, l Listener, once bool) Subscription {
	s := &subscriber{
		Subscription: Subscription{ID: uuid.NewString(), Event: name},
		listener:     l,
		once:         once,
	}
	b.mu.Lock()
	b.subs = append(b.subs, s)
	b.mu.Unlock()
	return s.Subscription
}

// Unsubscribe removes the listener with the given ID. It reports whether a
// listener was removed.
func (b *Bus) Unsubscribe(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := len(b.subs)
	b.subs = slices.DeleteFunc(b.subs, func(s *subscriber) bool { return s.ID == id })
	return len(b.subs) != n
}

// Len returns the number of registered listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dispatch calls every matching listener in subscription order. All
// listeners run even when one fails; their errors are joined. A panicking
// listener is reported as an UNEXPECTED error.
func (b *Bus) Dispatch(ctx context.Context, e Event) error {
	matched := b.match(e.Name())

	var errs []error
	for _, s := range matched {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := call(ctx, s.listener, e); err != nil {
			b.log.Warn("listener failed", logger.Fields(
				logger.FieldEvent, e.Name(),
				"subscription", s.ID,
				logger.FieldError, err.Error(),
			))
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// DispatchMany dispatches events one after another and joins their errors.
func (b *Bus) DispatchMany(ctx context.Context, events ...Event) error {
	errs, err := collection.Map(collection.FromSlice(events), func(e Event, _ int) error {
		return b.Dispatch(ctx, e)
	}).Filter(func(err error, _ int) bool { return err != nil }).ToSlice()
	if err != nil {
		return err
	}
	return stderrors.Join(errs...)
}

// match returns the listeners for name and drops matched one-shot listeners.
func (b *Bus) match(name string) []*subscriber {
	b.mu.Lock()
	defer b.mu.Unlock()

	var matched []*subscriber
	kept := b.subs[:0:0]
	for _, s := range b.subs {
		hit := s.Event == Wildcard || s.Event == name
		if hit {
			matched = append(matched, s)
		}
		if !hit || !s.once {
			kept = append(kept, s)
		}
	}
	b.subs = kept
	return matched
}

func call(ctx context.Context, l Listener, e Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Unexpected(fmt.Errorf("listener panic: %v", r)).WithDetail("event", e.Name())
		}
	}()
	return l(ctx, e)
}

// On subscribes fn to every event of type E, whatever its name.
func On[E Event](b *Bus, fn func(ctx context.Context, e E) error) Subscription {
	return b.Subscribe(Wildcard, func(ctx context.Context, e Event) error {
		typed, ok := e.(E)
		if !ok {
			return nil
		}
		return fn(ctx, typed)
	})
}
