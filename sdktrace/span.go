package sdktrace

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/otlp/encode"
	otelattr "go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// span is the recording implementation of trace.Span. A span that lost
// its sampling decision (IsRecording() == false) still satisfies the
// interface but discards every mutation.
type span struct {
	mu sync.Mutex

	sc       trace.SpanContext
	parentID trace.SpanID
	sampled  bool

	tracer *Tracer

	name       string
	kind       trace.SpanKind
	startTime  time.Time
	endTime    time.Time
	attrs      []attribute.KeyValue
	events     []encode.SpanEvent
	links      []encode.SpanLink
	statusCode codes.Code
	statusMsg  string
	ended      bool
}

var _ trace.Span = (*span)(nil)

func (s *span) End(options ...trace.SpanEndOption) {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true

	cfg := trace.NewSpanEndConfig(options...)
	end := cfg.Timestamp()
	if end.IsZero() {
		end = time.Now()
	}
	s.endTime = end

	recording := s.sampled
	out := s.toEncodeSpanLocked()
	s.mu.Unlock()

	if recording {
		s.tracer.onEnd(out)
	}
}

func (s *span) toEncodeSpanLocked() encode.Span {
	return encode.Span{
		Resource:      s.tracer.provider.resource,
		Scope:         s.tracer.scope,
		TraceID:       s.sc.TraceID(),
		SpanID:        s.sc.SpanID(),
		ParentSpanID:  s.parentID,
		Name:          s.name,
		Kind:          s.kind,
		StartTime:     s.startTime,
		EndTime:       s.endTime,
		Attributes:    append([]attribute.KeyValue(nil), s.attrs...),
		Events:        append([]encode.SpanEvent(nil), s.events...),
		Links:         append([]encode.SpanLink(nil), s.links...),
		StatusCode:    s.statusCode,
		StatusMessage: s.statusMsg,
	}
}

func (s *span) AddEvent(name string, options ...trace.EventOption) {
	if !s.IsRecording() {
		return
	}
	cfg := trace.NewEventConfig(options...)
	ts := cfg.Timestamp()
	if ts.IsZero() {
		ts = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, encode.SpanEvent{
		Name:       name,
		Time:       ts,
		Attributes: attribute.FromKeyValues(cfg.Attributes()),
	})
}

func (s *span) AddLink(link trace.Link) {
	if !s.IsRecording() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, encode.SpanLink{
		TraceID:    link.SpanContext.TraceID(),
		SpanID:     link.SpanContext.SpanID(),
		Attributes: attribute.FromKeyValues(link.Attributes),
	})
}

// IsRecording deliberately folds in the sampling decision on top of "not
// ended": a span the sampler dropped must report false here too, since
// trace.Span's documented contract is "operations are no-ops" for an
// unsampled span. AddEvent, AddLink, SetAttributes and RecordError gate on
// IsRecording; SetStatus and SetName check only whether the span has ended.
func (s *span) IsRecording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sampled && !s.ended
}

func (s *span) RecordError(err error, options ...trace.EventOption) {
	if err == nil || !s.IsRecording() {
		return
	}
	opts := append([]trace.EventOption{trace.WithAttributes(
		otelattr.String("exception.message", err.Error()),
	)}, options...)
	s.AddEvent("exception", opts...)
}

func (s *span) SpanContext() trace.SpanContext { return s.sc }

func (s *span) SetStatus(code codes.Code, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	// Per the tracing API, Ok must not be downgraded back to Unset.
	if s.statusCode == codes.Ok && code == codes.Unset {
		return
	}
	s.statusCode = code
	s.statusMsg = description
}

func (s *span) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}
	s.name = name
}

func (s *span) SetAttributes(kv ...otelattr.KeyValue) {
	if !s.IsRecording() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attrs = append(s.attrs, attribute.FromKeyValues(kv)...)
}

func (s *span) TracerProvider() trace.TracerProvider { return s.tracer.provider }
