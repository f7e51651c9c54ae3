package sdktrace

import (
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// IDGenerator produces new trace and span IDs. The default generator
// reuses google/uuid's random source rather than wrapping crypto/rand
// directly, matching the pack's general preference for google/uuid over
// bespoke random-ID code. The UUID's raw bytes are copied as they are (all
// 16 for a trace ID, the last 8 for a span ID), so the version and variant
// bits uuid.New sets stay in the IDs; the string form is never used.
type IDGenerator interface {
	NewTraceID() trace.TraceID
	NewSpanID() trace.SpanID
}

type randomIDGenerator struct{}

func (randomIDGenerator) NewTraceID() trace.TraceID {
	var id trace.TraceID
	for {
		u := uuid.New()
		copy(id[:], u[:])
		if id.IsValid() {
			return id
		}
	}
}

func (randomIDGenerator) NewSpanID() trace.SpanID {
	var id trace.SpanID
	for {
		u := uuid.New()
		copy(id[:], u[8:])
		if id.IsValid() {
			return id
		}
	}
}
