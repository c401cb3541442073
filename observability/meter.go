package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/collectkit/logger"
)

// InitMeter installs a global meter provider exporting over OTLP HTTP.
// The caller shuts the provider down on exit.
func InitMeter(ctx context.Context, cfg Config) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if cfg.ExportInterval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.ExportInterval))
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.WithComponent("observability").Info("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.ExportInterval.String(),
	))
	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// CacheMetrics holds the instruments recorded by the cache decorator.
type CacheMetrics struct {
	hits     metric.Int64Counter
	misses   metric.Int64Counter
	writes   metric.Int64Counter
	errors   metric.Int64Counter
	duration metric.Float64Histogram
}

// NewCacheMetrics creates the cache instruments on meter.
func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	hits, err := meter.Int64Counter("cache.hits", metric.WithDescription("Cache reads that found a value"))
	if err != nil {
		return nil, fmt.Errorf("creating cache.hits counter: %w", err)
	}
	misses, err := meter.Int64Counter("cache.misses", metric.WithDescription("Cache reads that found nothing"))
	if err != nil {
		return nil, fmt.Errorf("creating cache.misses counter: %w", err)
	}
	writes, err := meter.Int64Counter("cache.writes", metric.WithDescription("Values written to the cache"))
	if err != nil {
		return nil, fmt.Errorf("creating cache.writes counter: %w", err)
	}
	errs, err := meter.Int64Counter("cache.errors", metric.WithDescription("Failed cache operations by error code"))
	if err != nil {
		return nil, fmt.Errorf("creating cache.errors counter: %w", err)
	}
	duration, err := meter.Float64Histogram("cache.operation.duration",
		metric.WithDescription("Duration of cache operations"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating cache.operation.duration histogram: %w", err)
	}
	return &CacheMetrics{hits: hits, misses: misses, writes: writes, errors: errs, duration: duration}, nil
}

func (m *CacheMetrics) RecordHit(ctx context.Context, namespace string) {
	m.hits.Add(ctx, 1, metric.WithAttributes(AttrNamespace.String(namespace)))
}

func (m *CacheMetrics) RecordMiss(ctx context.Context, namespace string) {
	m.misses.Add(ctx, 1, metric.WithAttributes(AttrNamespace.String(namespace)))
}

func (m *CacheMetrics) RecordWrite(ctx context.Context, namespace string, n int) {
	m.writes.Add(ctx, int64(n), metric.WithAttributes(AttrNamespace.String(namespace)))
}

func (m *CacheMetrics) RecordError(ctx context.Context, namespace, code string) {
	m.errors.Add(ctx, 1, metric.WithAttributes(AttrNamespace.String(namespace), AttrErrorCode.String(code)))
}

func (m *CacheMetrics) RecordDuration(ctx context.Context, namespace, operation string, d time.Duration) {
	m.duration.Record(ctx, d.Seconds(), metric.WithAttributes(
		AttrNamespace.String(namespace),
		attribute.String("operation", operation),
	))
}
