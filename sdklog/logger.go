package sdklog

import (
	"context"
	"time"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/otlp/encode"
	"github.com/felixgeelhaar/otelmini/scope"
	"go.opentelemetry.io/otel/trace"
)

// Logger emits log records into its provider's batch processor, scoped
// to one instrumentation name/version/schema URL triple.
type Logger struct {
	provider *LoggerProvider
	scope    scope.Scope
}

// Record is the subset of a log record an application constructs
// directly; Timestamp/ObservedTimestamp default to time.Now when zero.
type Record struct {
	Timestamp         time.Time
	ObservedTimestamp time.Time
	Severity          encode.Severity
	SeverityText      string
	Body              attribute.Value
	Attributes        []attribute.KeyValue
	TraceID           trace.TraceID
	SpanID            trace.SpanID
}

// Emit converts r into an encode.LogRecord stamped with this logger's
// scope and forwards it to the provider's processor.
func (l *Logger) Emit(_ context.Context, r Record) {
	ts := r.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	observed := r.ObservedTimestamp
	if observed.IsZero() {
		observed = ts
	}

	l.provider.emit(encode.LogRecord{
		Scope:             l.scope,
		Timestamp:         ts,
		ObservedTimestamp: observed,
		Severity:          r.Severity,
		SeverityText:      r.SeverityText,
		Body:              r.Body,
		Attributes:        r.Attributes,
		TraceID:           r.TraceID,
		SpanID:            r.SpanID,
	})
}
