package sdktrace

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/fork"
	"github.com/felixgeelhaar/otelmini/internal/log"
	"github.com/felixgeelhaar/otelmini/otlp/batch"
	"github.com/felixgeelhaar/otelmini/otlp/encode"
	"github.com/felixgeelhaar/otelmini/resource"
	"github.com/felixgeelhaar/otelmini/scope"
	"go.opentelemetry.io/otel/trace"
)

// SpanExporter sends completed spans to a collector. otlphttp, otlpgrpc
// and console's trace exporters all satisfy this.
type SpanExporter = batch.Exporter[encode.Span]

// TracerProvider is the SDK implementation of trace.TracerProvider: it
// owns the resource, sampler, ID generator and batch processor shared by
// every Tracer it hands out.
type TracerProvider struct {
	resource    *resource.Resource
	sampler     Sampler
	idGenerator IDGenerator

	batchSize int
	interval  time.Duration

	mu      sync.Mutex
	tracers map[scope.Scope]*Tracer
	proc    *batch.Processor[encode.Span]
}

var _ trace.TracerProvider = (*TracerProvider)(nil)

// Option configures a TracerProvider.
type Option func(*TracerProvider)

func WithResource(r *resource.Resource) Option { return func(p *TracerProvider) { p.resource = r } }
func WithSampler(s Sampler) Option             { return func(p *TracerProvider) { p.sampler = s } }
func WithIDGenerator(g IDGenerator) Option     { return func(p *TracerProvider) { p.idGenerator = g } }

// WithBatching configures how spans are batched before export. Matches
// the processor's own size/interval defaults (512, 5s) when unset.
func WithBatching(batchSize int, interval time.Duration) Option {
	return func(p *TracerProvider) { p.batchSize, p.interval = batchSize, interval }
}

// NewTracerProvider builds a TracerProvider exporting finished spans
// through exp via a generic batch processor.
func NewTracerProvider(exp SpanExporter, opts ...Option) *TracerProvider {
	p := &TracerProvider{
		resource:    resource.Default("unknown_service"),
		sampler:     AlwaysOnSampler{},
		idGenerator: randomIDGenerator{},
		tracers:     make(map[scope.Scope]*Tracer),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.proc = batch.NewProcessor[encode.Span](exp, p.batchSizeOrDefault(), p.intervalOrDefault(), p.onExportError)
	fork.Register(p.proc)
	return p
}

// onExportError is the batch processor's drop hook: a batch the exporter
// failed to deliver is gone for good (at-most-once delivery), so this is
// the only record of the loss.
func (p *TracerProvider) onExportError(err error) {
	log.DefaultLogger().Warn("dropped span batch after export failure", "error", err.Error())
}

func (p *TracerProvider) batchSizeOrDefault() int {
	if p.batchSize == 0 {
		return batch.DefaultBatchSize
	}
	return p.batchSize
}

func (p *TracerProvider) intervalOrDefault() time.Duration {
	if p.interval == 0 {
		return batch.DefaultInterval
	}
	return p.interval
}

// Tracer returns the Tracer for the given instrumentation scope,
// creating and caching it on first use.
func (p *TracerProvider) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	cfg := trace.NewTracerConfig(opts...)
	sc := scope.New(name, cfg.InstrumentationVersion(), cfg.SchemaURL())

	p.mu.Lock()
	defer p.mu.Unlock()
	if t, ok := p.tracers[sc]; ok {
		return t
	}
	t := &Tracer{provider: p, scope: sc}
	p.tracers[sc] = t
	return t
}

func (p *TracerProvider) onEnd(s encode.Span) {
	p.proc.OnEnd(s)
}

func (t *Tracer) onEnd(s encode.Span) {
	t.provider.onEnd(s)
}

// ForceFlush synchronously exports one batch of buffered spans (see
// batch.Processor.ForceFlush).
func (p *TracerProvider) ForceFlush(ctx context.Context) error {
	return p.proc.ForceFlush(ctx)
}

// Shutdown drains and flushes the batch processor, then shuts down the
// underlying exporter.
func (p *TracerProvider) Shutdown(ctx context.Context) error {
	fork.Unregister(p.proc)
	return p.proc.Shutdown(ctx)
}

// Tracer implements trace.Tracer, starting spans sampled by its
// provider's Sampler and ID-generated by its provider's IDGenerator.
type Tracer struct {
	provider *TracerProvider
	scope    scope.Scope
}

var _ trace.Tracer = (*Tracer)(nil)

func (t *Tracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)

	parent := trace.SpanContextFromContext(ctx)
	if cfg.NewRoot() {
		parent = trace.SpanContext{}
	}

	traceID := parent.TraceID()
	if !traceID.IsValid() {
		traceID = t.provider.idGenerator.NewTraceID()
	}
	spanID := t.provider.idGenerator.NewSpanID()

	result := t.provider.sampler.ShouldSample(traceID, name, parent)
	sampled := result.Decision == RecordAndSample

	flags := trace.TraceFlags(0)
	if sampled {
		flags = flags.WithSampled(true)
	}

	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: flags,
		TraceState: parent.TraceState(),
	})

	start := cfg.Timestamp()
	if start.IsZero() {
		start = time.Now()
	}

	s := &span{
		sc:        sc,
		parentID:  parent.SpanID(),
		sampled:   sampled,
		tracer:    t,
		name:      name,
		kind:      cfg.SpanKind(),
		startTime: start,
		attrs:     attribute.FromKeyValues(cfg.Attributes()),
	}
	for _, link := range cfg.Links() {
		s.links = append(s.links, encode.SpanLink{
			TraceID:    link.SpanContext.TraceID(),
			SpanID:     link.SpanContext.SpanID(),
			Attributes: attribute.FromKeyValues(link.Attributes),
		})
	}

	return trace.ContextWithSpan(ctx, s), s
}
