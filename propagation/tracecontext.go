// Package propagation implements the W3C Trace Context text map format:
// injecting a traceparent header from an active span and extracting one
// into a remote SpanContext.
package propagation

import (
	"context"
	"fmt"
	"regexp"

	"go.opentelemetry.io/otel/trace"
)

const (
	// TraceParentHeader is the W3C Trace Context carrier key for the
	// trace/span identity.
	TraceParentHeader = "traceparent"
	// TraceStateHeader is the W3C Trace Context carrier key for vendor
	// tracestate entries.
	TraceStateHeader = "tracestate"
)

var traceParentRE = regexp.MustCompile(`^([0-9a-f]{2})-([0-9a-f]{32})-([0-9a-f]{16})-([0-9a-f]{2})$`)

// TextMapCarrier abstracts the header bag a propagator reads from and
// writes to, matching the shape of go.opentelemetry.io/otel/propagation's
// carrier interface so this type can be used in its place.
type TextMapCarrier interface {
	Get(key string) string
	Set(key, value string)
}

// TraceContextPropagator injects and extracts traceparent/tracestate
// headers per the W3C specification.
type TraceContextPropagator struct{}

// Fields returns the header names this propagator reads and writes.
func (TraceContextPropagator) Fields() []string {
	return []string{TraceParentHeader, TraceStateHeader}
}

// Inject writes the traceparent header for the span active in ctx. It is a
// no-op if the context carries no valid span.
func (TraceContextPropagator) Inject(ctx context.Context, carrier TextMapCarrier) {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return
	}

	flags := byte(0)
	if sc.IsSampled() {
		flags = 1
	}
	carrier.Set(TraceParentHeader, formatTraceParent(sc.TraceID(), sc.SpanID(), flags))

	if ts := sc.TraceState().String(); ts != "" {
		carrier.Set(TraceStateHeader, ts)
	}
}

// Extract reads a traceparent header from carrier and returns a context
// carrying the resulting remote SpanContext. If the header is absent or
// malformed, ctx is returned unchanged.
func (TraceContextPropagator) Extract(ctx context.Context, carrier TextMapCarrier) context.Context {
	header := carrier.Get(TraceParentHeader)
	if header == "" {
		return ctx
	}

	sc, ok := parseTraceParent(header)
	if !ok {
		return ctx
	}

	if tsHeader := carrier.Get(TraceStateHeader); tsHeader != "" {
		if ts, err := trace.ParseTraceState(tsHeader); err == nil {
			sc = sc.WithTraceState(ts)
		}
	}

	return trace.ContextWithRemoteSpanContext(ctx, sc)
}

func formatTraceParent(traceID trace.TraceID, spanID trace.SpanID, flags byte) string {
	return fmt.Sprintf("00-%032x-%016x-%02x", traceID, spanID, flags)
}

// parseTraceParent validates and decodes a traceparent header value. It
// rejects the reserved "ff" version and all-zero trace/span IDs, matching
// the reference parser's invalid-identifier checks.
func parseTraceParent(header string) (trace.SpanContext, bool) {
	m := traceParentRE.FindStringSubmatch(header)
	if m == nil {
		return trace.SpanContext{}, false
	}
	version, traceIDHex, spanIDHex, flagsHex := m[1], m[2], m[3], m[4]

	if version == "ff" {
		return trace.SpanContext{}, false
	}

	traceID, err := trace.TraceIDFromHex(traceIDHex)
	if err != nil || !traceID.IsValid() {
		return trace.SpanContext{}, false
	}
	spanID, err := trace.SpanIDFromHex(spanIDHex)
	if err != nil || !spanID.IsValid() {
		return trace.SpanContext{}, false
	}

	var flags trace.TraceFlags
	if flagsHex == "01" {
		flags = trace.FlagsSampled
	}

	return trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		Remote:     true,
	}), true
}
