package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Delay waits d before every pull from the upstream.
// The wait ends early with the context's error when ctx is done.
func (p *Pipeline[T]) Delay(d time.Duration) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &delayIter[T]{source: p.open(ctx), interval: d}
	})
}

type delayIter[T any] struct {
	source   Iterator[T]
	interval time.Duration
}

func (it *delayIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	if it.interval > 0 {
		timer := time.NewTimer(it.interval)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			var zero T
			return zero, false, ctx.Err()
		}
	}
	return it.source.Next(ctx)
}

func (it *delayIter[T]) Close() error { return it.source.Close() }

// Timeout fails the enumeration with context.DeadlineExceeded once d has
// elapsed since the enumeration started. Pulls blocked in the upstream see
// the deadline through their context.
func (p *Pipeline[T]) Timeout(d time.Duration) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &timeoutIter[T]{source: p.open(ctx), deadline: time.Now().Add(d)}
	})
}

type timeoutIter[T any] struct {
	source   Iterator[T]
	deadline time.Time
}

func (it *timeoutIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	var zero T
	if !time.Now().Before(it.deadline) {
		return zero, false, fmt.Errorf("pipeline timed out: %w", context.DeadlineExceeded)
	}
	pullCtx, cancel := context.WithDeadline(ctx, it.deadline)
	defer cancel()
	val, ok, err := it.source.Next(pullCtx)
	if err != nil && ctx.Err() == nil && pullCtx.Err() != nil {
		return zero, false, fmt.Errorf("pipeline timed out: %w", context.DeadlineExceeded)
	}
	return val, ok, err
}

func (it *timeoutIter[T]) Close() error { return it.source.Close() }

// Abort fails the next pull once signal is done. A pull already blocked in
// the upstream is cancelled with the signal's cause.
func (p *Pipeline[T]) Abort(signal context.Context) *Pipeline[T] {
	return newPipeline(func(ctx context.Context) Iterator[T] {
		return &abortIter[T]{source: p.open(ctx), signal: signal}
	})
}

type abortIter[T any] struct {
	source Iterator[T]
	signal context.Context
}

func (it *abortIter[T]) Next(ctx context.Context) (result T, ok bool, err error) {
	var zero T
	if it.signal.Err() != nil {
		return zero, false, it.aborted()
	}
	pullCtx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)
	stop := context.AfterFunc(it.signal, func() { cancel(context.Cause(it.signal)) })
	defer stop()
	val, ok, err := it.source.Next(pullCtx)
	if err != nil && it.signal.Err() != nil {
		return zero, false, it.aborted()
	}
	return val, ok, err
}

func (it *abortIter[T]) aborted() error {
	return fmt.Errorf("pipeline aborted: %w", context.Cause(it.signal))
}

func (it *abortIter[T]) Close() error { return it.source.Close() }
