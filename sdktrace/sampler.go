package sdktrace

import (
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/felixgeelhaar/otelmini/internal/errors"
)

// Decision mirrors the reference sampler's two-value outcome: a span is
// either dropped or recorded and exported.
type Decision int

const (
	Drop Decision = iota
	RecordAndSample
)

// SamplingResult is the outcome of a Sampler decision.
type SamplingResult struct {
	Decision Decision
}

// Sampler decides whether a span should be recorded, given its trace ID,
// name and parent span context (the zero value meaning "no parent").
type Sampler interface {
	ShouldSample(traceID trace.TraceID, name string, parent trace.SpanContext) SamplingResult
}

// AlwaysOnSampler samples every span.
type AlwaysOnSampler struct{}

func (AlwaysOnSampler) ShouldSample(trace.TraceID, string, trace.SpanContext) SamplingResult {
	return SamplingResult{Decision: RecordAndSample}
}

// AlwaysOffSampler samples no span.
type AlwaysOffSampler struct{}

func (AlwaysOffSampler) ShouldSample(trace.TraceID, string, trace.SpanContext) SamplingResult {
	return SamplingResult{Decision: Drop}
}

// maxTraceIDBound is the maximum value of the trace ID's low 64 bits,
// used as the denominator for ratio-based sampling.
const maxTraceIDBound uint64 = ^uint64(0)

// TraceIDRatioBasedSampler samples a deterministic fraction of traces by
// comparing the low 64 bits of the trace ID against a precomputed bound,
// so the same trace ID always yields the same decision across services.
type TraceIDRatioBasedSampler struct {
	bound uint64
}

// NewTraceIDRatioBased constructs a ratio sampler. ratio must be in [0,1].
func NewTraceIDRatioBased(ratio float64) (*TraceIDRatioBasedSampler, error) {
	if ratio < 0.0 || ratio > 1.0 {
		return nil, apperrors.NewInvalidRatioError(ratio)
	}
	return &TraceIDRatioBasedSampler{bound: uint64(ratio * float64(maxTraceIDBound))}, nil
}

func (s *TraceIDRatioBasedSampler) ShouldSample(traceID trace.TraceID, _ string, _ trace.SpanContext) SamplingResult {
	low := traceIDLow64(traceID)
	if low < s.bound {
		return SamplingResult{Decision: RecordAndSample}
	}
	return SamplingResult{Decision: Drop}
}

func traceIDLow64(id trace.TraceID) uint64 {
	var low uint64
	for _, b := range id[8:] {
		low = low<<8 | uint64(b)
	}
	return low
}

// ParentBasedSampler delegates to one of five samplers depending on
// whether there is a parent span, whether it is remote, and whether it
// was sampled — the five delegate slots from the reference sampler.
type ParentBasedSampler struct {
	root                   Sampler
	remoteParentSampled    Sampler
	remoteParentNotSampled Sampler
	localParentSampled     Sampler
	localParentNotSampled  Sampler
}

// ParentBasedOption customizes one of ParentBasedSampler's delegate slots.
type ParentBasedOption func(*ParentBasedSampler)

func WithRoot(s Sampler) ParentBasedOption            { return func(p *ParentBasedSampler) { p.root = s } }
func WithRemoteParentSampled(s Sampler) ParentBasedOption {
	return func(p *ParentBasedSampler) { p.remoteParentSampled = s }
}
func WithRemoteParentNotSampled(s Sampler) ParentBasedOption {
	return func(p *ParentBasedSampler) { p.remoteParentNotSampled = s }
}
func WithLocalParentSampled(s Sampler) ParentBasedOption {
	return func(p *ParentBasedSampler) { p.localParentSampled = s }
}
func WithLocalParentNotSampled(s Sampler) ParentBasedOption {
	return func(p *ParentBasedSampler) { p.localParentNotSampled = s }
}

// NewParentBased builds a ParentBasedSampler, defaulting every unset
// delegate the way the reference constructor does: AlwaysOn for every
// "sampled" slot (including root) and AlwaysOff for every "not sampled"
// slot.
func NewParentBased(opts ...ParentBasedOption) *ParentBasedSampler {
	p := &ParentBasedSampler{
		root:                   AlwaysOnSampler{},
		remoteParentSampled:    AlwaysOnSampler{},
		remoteParentNotSampled: AlwaysOffSampler{},
		localParentSampled:     AlwaysOnSampler{},
		localParentNotSampled:  AlwaysOffSampler{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *ParentBasedSampler) ShouldSample(traceID trace.TraceID, name string, parent trace.SpanContext) SamplingResult {
	if !parent.IsValid() {
		return p.root.ShouldSample(traceID, name, parent)
	}

	sampled := parent.IsSampled()
	switch {
	case parent.IsRemote() && sampled:
		return p.remoteParentSampled.ShouldSample(traceID, name, parent)
	case parent.IsRemote() && !sampled:
		return p.remoteParentNotSampled.ShouldSample(traceID, name, parent)
	case !parent.IsRemote() && sampled:
		return p.localParentSampled.ShouldSample(traceID, name, parent)
	default:
		return p.localParentNotSampled.ShouldSample(traceID, name, parent)
	}
}
