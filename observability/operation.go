package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/collectkit/errors"
)

// Operation tracks one traced, timed call. Metrics may be nil.
type Operation struct {
	Name      string
	Namespace string
	Metrics   *CacheMetrics

	span  trace.Span
	start time.Time
}

// StartOperation starts a span named "<namespace>.<name>" on tracer.
func StartOperation(ctx context.Context, tracer trace.Tracer, namespace, name string, metrics *CacheMetrics, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	spanName := name
	if namespace != "" {
		spanName = namespace + "." + name
	}
	ctx, span := tracer.Start(ctx, spanName, trace.WithAttributes(
		append([]attribute.KeyValue{AttrOperation.String(name), AttrNamespace.String(namespace)}, attrs...)...,
	))
	return ctx, &Operation{Name: name, Namespace: namespace, Metrics: metrics, span: span, start: time.Now()}
}

// SetAttributes adds attributes to the operation span.
func (op *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	op.span.SetAttributes(attrs...)
}

// End records err and the elapsed time, then ends the span.
func (op *Operation) End(ctx context.Context, err error) {
	if err != nil {
		code := string(errors.ErrCodeUnexpected)
		if appErr, ok := errors.AsAppError(err); ok {
			code = string(appErr.Code)
		}
		op.span.SetAttributes(AttrErrorCode.String(code))
		SetSpanError(op.span, err)
		if op.Metrics != nil {
			op.Metrics.RecordError(ctx, op.Namespace, code)
		}
	}
	if op.Metrics != nil {
		op.Metrics.RecordDuration(ctx, op.Namespace, op.Name, time.Since(op.start))
	}
	op.span.End()
}
