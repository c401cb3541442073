package cache

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/kbukum/collectkit/errors"
	"github.com/kbukum/collectkit/eventbus"
	"github.com/kbukum/collectkit/logger"
	"github.com/kbukum/collectkit/namespace"
	"github.com/kbukum/collectkit/observability"
	"github.com/kbukum/collectkit/resilience"
	"github.com/kbukum/collectkit/serializer"
)

type options struct {
	ns         namespace.Namespace
	serializer serializer.Serializer
	ttl        time.Duration
	bus        *eventbus.Bus
	retry      *resilience.RetryConfig
	breaker    *resilience.Breaker
	tracer     trace.Tracer
	metrics    *observability.CacheMetrics
	log        *logger.Logger
}

// Option configures a Cache.
type Option func(*options)

// WithNamespace prefixes every key with root.
func WithNamespace(root string) Option {
	return func(o *options) { o.ns = namespace.New(root) }
}

// WithNamespaceOf uses an existing namespace.
func WithNamespaceOf(ns namespace.Namespace) Option {
	return func(o *options) { o.ns = ns }
}

// WithSerializer replaces the default JSON serializer.
func WithSerializer(s serializer.Serializer) Option {
	return func(o *options) { o.serializer = s }
}

// WithTTL sets the expiration used when a write passes no TTL.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) { o.ttl = ttl }
}

// WithEvents dispatches cache events on bus.
func WithEvents(bus *eventbus.Bus) Option {
	return func(o *options) { o.bus = bus }
}

// WithRetry retries failed adapter calls.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(o *options) {
		cfg.ApplyDefaults()
		o.retry = &cfg
	}
}

// WithBreaker guards adapter calls with a circuit breaker.
func WithBreaker(b *resilience.Breaker) Option {
	return func(o *options) { o.breaker = b }
}

// WithTracer replaces the global collectkit tracer.
func WithTracer(t trace.Tracer) Option {
	return func(o *options) { o.tracer = t }
}

// WithMetrics records hit, miss and error counters on m.
func WithMetrics(m *observability.CacheMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLogger sets the cache logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// Cache stores values of type T in an Adapter. Keys are namespaced, values
// serialized, and every call is traced.
type Cache[T any] struct {
	adapter Adapter
	options
	group singleflight.Group
}

// New creates a cache over adapter.
func New[T any](adapter Adapter, opts ...Option) *Cache[T] {
	c := &Cache[T]{adapter: adapter}
	for _, opt := range opts {
		opt(&c.options)
	}
	if c.serializer == nil {
		c.serializer = serializer.JSON()
	}
	if c.tracer == nil {
		c.tracer = observability.Tracer(observability.InstrumentationName)
	}
	if c.log == nil {
		c.log = logger.WithComponent("cache")
	}
	if c.metrics == nil {
		m, err := observability.NewCacheMetrics(observability.Meter(observability.InstrumentationName))
		if err != nil {
			c.log.Warn("cache metrics disabled", logger.Fields(logger.FieldError, err.Error()))
		}
		c.metrics = m
	}
	return c
}

// Namespace returns the key namespace.
func (c *Cache[T]) Namespace() namespace.Namespace { return c.ns }

// Adapter returns the underlying storage adapter.
func (c *Cache[T]) Adapter() Adapter { return c.adapter }

// Get returns the value stored under key. A missing key is not an error.
func (c *Cache[T]) Get(ctx context.Context, key string) (value T, found bool, err error) {
	ctx, op := c.start(ctx, "get", 1)
	defer func() { op.End(ctx, err) }()

	value, found, err = c.get(ctx, key)
	if err != nil {
		return value, false, err
	}
	op.SetAttributes(observability.AttrHit.Bool(found))
	return value, found, nil
}

// GetOr returns the value under key or def when the key is missing.
func (c *Cache[T]) GetOr(ctx context.Context, key string, def T) (T, error) {
	v, found, err := c.Get(ctx, key)
	if err != nil || !found {
		return def, err
	}
	return v, nil
}

// GetOrFail returns the value under key or fails with KEY_NOT_FOUND.
func (c *Cache[T]) GetOrFail(ctx context.Context, key string) (T, error) {
	v, found, err := c.Get(ctx, key)
	if err != nil {
		return v, err
	}
	if !found {
		return v, errors.KeyNotFound(c.ns.Key(key))
	}
	return v, nil
}

// Has reports whether key holds a value.
func (c *Cache[T]) Has(ctx context.Context, key string) (found bool, err error) {
	ctx, op := c.start(ctx, "has", 1)
	defer func() { op.End(ctx, err) }()

	err = c.call(ctx, func(ctx context.Context) error {
		_, found, err = c.adapter.Get(ctx, c.ns.Key(key))
		return err
	})
	return found, err
}

// Set stores value under key. A non-positive ttl selects the cache default.
func (c *Cache[T]) Set(ctx context.Context, key string, value T, ttl time.Duration) (err error) {
	ctx, op := c.start(ctx, "set", 1)
	defer func() { op.End(ctx, err) }()
	return c.set(ctx, key, value, ttl)
}

// Add stores value only when key is absent and reports whether it did.
func (c *Cache[T]) Add(ctx context.Context, key string, value T, ttl time.Duration) (added bool, err error) {
	ctx, op := c.start(ctx, "add", 1)
	defer func() { op.End(ctx, err) }()

	data, err := c.serializer.Marshal(value)
	if err != nil {
		return false, err
	}
	ttl = c.effectiveTTL(ttl)
	err = c.call(ctx, func(ctx context.Context) error {
		added, err = c.adapter.Add(ctx, c.ns.Key(key), data, ttl)
		return err
	})
	if err != nil {
		return false, err
	}
	if added {
		c.recordWrite(ctx, 1)
		c.emit(ctx, KeyAdded{Namespace: c.ns.Root(), Key: key, TTL: ttl})
	}
	return added, nil
}

// Delete removes keys and returns how many held a value. A KeyRemoved event
// is sent for every key passed.
func (c *Cache[T]) Delete(ctx context.Context, keys ...string) (removed int, err error) {
	ctx, op := c.start(ctx, "delete", len(keys))
	defer func() { op.End(ctx, err) }()
	return c.delete(ctx, keys)
}

// Clear removes every key in the namespace. Without a namespace the whole
// adapter is cleared.
func (c *Cache[T]) Clear(ctx context.Context) (err error) {
	ctx, op := c.start(ctx, "clear", 0)
	defer func() { op.End(ctx, err) }()

	err = c.call(ctx, func(ctx context.Context) error {
		return c.adapter.Clear(ctx, c.ns.Prefix())
	})
	if err != nil {
		return err
	}
	c.emit(ctx, KeysCleared{Namespace: c.ns.Root()})
	return nil
}

// Remember returns the cached value for key, or calls load, stores its
// result and returns it. Concurrent callers for the same key share one
// load. Load errors are returned and nothing is stored.
func (c *Cache[T]) Remember(ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (value T, err error) {
	ctx, op := c.start(ctx, "remember", 1)
	defer func() { op.End(ctx, err) }()

	if v, found, err := c.get(ctx, key); err != nil || found {
		return v, err
	}

	res, err, shared := c.group.Do(c.ns.Key(key), func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		return v, c.set(ctx, key, v, ttl)
	})
	op.SetAttributes(attribute.Bool("collectkit.shared_load", shared))
	if err != nil {
		return value, err
	}
	value, _ = res.(T)
	return value, nil
}

func (c *Cache[T]) get(ctx context.Context, key string) (value T, found bool, err error) {
	var data []byte
	err = c.call(ctx, func(ctx context.Context) error {
		data, found, err = c.adapter.Get(ctx, c.ns.Key(key))
		return err
	})
	if err != nil {
		return value, false, err
	}
	if !found {
		c.recordMiss(ctx)
		c.emit(ctx, KeyNotFound{Namespace: c.ns.Root(), Key: key})
		return value, false, nil
	}
	if err := c.serializer.Unmarshal(data, &value); err != nil {
		return value, false, err
	}
	c.recordHit(ctx)
	c.emit(ctx, KeyFound{Namespace: c.ns.Root(), Key: key})
	return value, true, nil
}

func (c *Cache[T]) set(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := c.serializer.Marshal(value)
	if err != nil {
		return err
	}
	ttl = c.effectiveTTL(ttl)
	err = c.call(ctx, func(ctx context.Context) error {
		return c.adapter.Set(ctx, c.ns.Key(key), data, ttl)
	})
	if err != nil {
		return err
	}
	c.recordWrite(ctx, 1)
	c.emit(ctx, KeyWritten{Namespace: c.ns.Root(), Key: key, TTL: ttl})
	return nil
}

func (c *Cache[T]) delete(ctx context.Context, keys []string) (removed int, err error) {
	if len(keys) == 0 {
		return 0, nil
	}
	err = c.call(ctx, func(ctx context.Context) error {
		removed, err = c.adapter.Delete(ctx, c.ns.Keys(keys...)...)
		return err
	})
	if err != nil {
		return 0, err
	}
	for _, k := range keys {
		c.emit(ctx, KeyRemoved{Namespace: c.ns.Root(), Key: k})
	}
	return removed, nil
}

// call runs fn through the breaker and retry policy, when configured.
func (c *Cache[T]) call(ctx context.Context, fn func(ctx context.Context) error) error {
	run := fn
	if c.breaker != nil {
		run = func(ctx context.Context) error { return c.breaker.Execute(ctx, fn) }
	}
	if c.retry == nil {
		return run(ctx)
	}
	return resilience.RetryFunc(ctx, *c.retry, func() error { return run(ctx) })
}

func (c *Cache[T]) effectiveTTL(ttl time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	return c.ttl
}

func (c *Cache[T]) start(ctx context.Context, name string, keys int) (context.Context, *observability.Operation) {
	return observability.StartOperation(ctx, c.tracer, c.ns.Root(), name, c.metrics,
		observability.AttrKeyCount.Int(keys),
		attribute.String("collectkit.adapter", c.adapter.Name()),
	)
}

// emit dispatches e when a bus is configured. Listener failures are logged
// by the bus and never fail the cache call.
func (c *Cache[T]) emit(ctx context.Context, e eventbus.Event) {
	if c.bus == nil {
		return
	}
	_ = c.bus.Dispatch(ctx, e)
}

func (c *Cache[T]) recordHit(ctx context.Context) {
	if c.metrics != nil {
		c.metrics.RecordHit(ctx, c.ns.Root())
	}
}

func (c *Cache[T]) recordMiss(ctx context.Context) {
	if c.metrics != nil {
		c.metrics.RecordMiss(ctx, c.ns.Root())
	}
}

func (c *Cache[T]) recordWrite(ctx context.Context, n int) {
	if c.metrics != nil {
		c.metrics.RecordWrite(ctx, c.ns.Root(), n)
	}
}
