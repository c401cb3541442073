// Package observability wires OpenTelemetry tracing and metrics.
//
//	shutdown, err := observability.Init(ctx, cfg.Observability)
//	defer shutdown(ctx)
//
// Without Init the global no-op providers are used, so instrumented code
// such as the cache decorator costs almost nothing.
package observability
