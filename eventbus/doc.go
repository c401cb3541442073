// Package eventbus is a small synchronous publish/subscribe bus. The cache
// uses it to announce hits, misses and writes.
//
//	bus := eventbus.New()
//	eventbus.On(bus, func(ctx context.Context, e cache.KeyWritten) error {
//		return audit(ctx, e.Key)
//	})
package eventbus
