// Package tracer provides the tracing hooks used by dsql connections.
// Spans are opened per statement; OpenTelemetry is supported through OtelTracer.
package tracer

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer starts spans around statement execution.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span is the subset of a tracing span dsql writes to.
type Span interface {
	SetAttributes(attrs ...attribute.KeyValue)
	RecordError(err error)
	SetStatus(code codes.Code, description string)
	End()
}

// NoopTracer is the default tracer. It records nothing.
type NoopTracer struct{}

// StartSpan returns ctx unchanged and a span that ignores every call.
func (NoopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, NoopSpan{}
}

// NoopSpan ignores every call.
type NoopSpan struct{}

func (NoopSpan) SetAttributes(_ ...attribute.KeyValue) {}
func (NoopSpan) RecordError(_ error)                   {}
func (NoopSpan) SetStatus(_ codes.Code, _ string)      {}
func (NoopSpan) End()                                  {}

// OtelTracer adapts an OpenTelemetry tracer.
type OtelTracer struct {
	tracer trace.Tracer
}

// NewOtelTracer wraps t, which must not be nil.
func NewOtelTracer(t trace.Tracer) *OtelTracer {
	return &OtelTracer{tracer: t}
}

// StartSpan starts an OpenTelemetry client span.
func (t *OtelTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	return ctx, &OtelSpan{span: span}
}

// OtelSpan adapts an OpenTelemetry span.
type OtelSpan struct {
	span trace.Span
}

// SetAttributes forwards to the underlying span.
func (s *OtelSpan) SetAttributes(attrs ...attribute.KeyValue) { s.span.SetAttributes(attrs...) }

// RecordError forwards to the underlying span.
func (s *OtelSpan) RecordError(err error) { s.span.RecordError(err) }

// SetStatus forwards to the underlying span.
func (s *OtelSpan) SetStatus(code codes.Code, description string) {
	s.span.SetStatus(code, description)
}

// End forwards to the underlying span.
func (s *OtelSpan) End() { s.span.End() }

// QueryMetadata describes one statement dispatch.
type QueryMetadata struct {
	// SQL is the statement text as sent to the driver.
	SQL string
	// Params is the number of bound parameters per execution.
	Params int
	// Batch is the number of parameter sets executed; zero for single statements.
	Batch int
	// Rows is the number of rows returned or affected.
	Rows int64
	// Duration covers dispatch through result consumption.
	Duration time.Duration
	// Error is the dispatch error, if any.
	Error error
	// Database is the db.system value (sqlite, mysql, postgresql).
	Database string
	// Operation is the statement verb as returned by DetectOperation.
	Operation string
}

// AddQueryAttributes sets the db.* semantic convention attributes and the span status.
// See https://opentelemetry.io/docs/specs/semconv/database/
func AddQueryAttributes(span Span, meta *QueryMetadata) {
	attrs := []attribute.KeyValue{
		attribute.String("db.system", meta.Database),
		attribute.String("db.statement", meta.SQL),
		attribute.String("db.operation", meta.Operation),
		attribute.Int("db.params", meta.Params),
		attribute.Float64("db.duration_ms", float64(meta.Duration.Microseconds())/1000.0),
	}
	if meta.Batch > 0 {
		attrs = append(attrs, attribute.Int("db.batch_size", meta.Batch))
	}
	if meta.Rows > 0 {
		attrs = append(attrs, attribute.Int64("db.rows", meta.Rows))
	}

	span.SetAttributes(attrs...)

	if meta.Error != nil {
		span.RecordError(meta.Error)
		span.SetStatus(codes.Error, meta.Error.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// DetectOperation returns the leading verb of sql: SELECT (including WITH),
// INSERT, UPDATE, DELETE, CREATE, DROP or UNKNOWN.
func DetectOperation(sql string) string {
	sql = strings.ToUpper(strings.TrimSpace(sql))
	switch {
	case strings.HasPrefix(sql, "SELECT"), strings.HasPrefix(sql, "WITH"):
		return "SELECT"
	case strings.HasPrefix(sql, "INSERT"):
		return "INSERT"
	case strings.HasPrefix(sql, "UPDATE"):
		return "UPDATE"
	case strings.HasPrefix(sql, "DELETE"):
		return "DELETE"
	case strings.HasPrefix(sql, "CREATE"):
		return "CREATE"
	case strings.HasPrefix(sql, "DROP"):
		return "DROP"
	default:
		return "UNKNOWN"
	}
}

// SpanName returns the span name used for an operation, e.g. "dsql.select".
func SpanName(operation string) string {
	return "dsql." + strings.ToLower(operation)
}
