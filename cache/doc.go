// Package cache is a typed, namespaced cache over a pluggable Adapter.
//
//	users := cache.New[User](cache.NewMemoryAdapter(),
//		cache.WithNamespace("users"),
//		cache.WithTTL(10*time.Minute),
//	)
//	u, err := users.Remember(ctx, "42", 0, loadUser)
//
// Values are serialized with the configured serializer. Every operation
// opens a span and updates the cache counters. Adapter calls can be wrapped
// in a retry policy and a circuit breaker, and hits, misses and writes can
// be published on an eventbus.Bus.
package cache
