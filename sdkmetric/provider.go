// Package sdkmetric implements the Meter/MeterProvider/Reader side of the
// API, aggregating Counter/Gauge/Histogram/Observable instruments into
// OTLP metric points the way the reference implementation's MeterProvider
// and MetricReader pair do: instruments own live aggregator cells keyed by
// attribute set, and a Reader pulls a snapshot of every cell on demand
// (ManualReader) or on a fixed interval (PeriodicReader).
package sdkmetric

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/otelmini/otlp/batch"
	"github.com/felixgeelhaar/otelmini/otlp/encode"
	"github.com/felixgeelhaar/otelmini/resource"
	"github.com/felixgeelhaar/otelmini/scope"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/embedded"
)

// MetricExporter ships a collected batch of metric points to a backend.
type MetricExporter = batch.Exporter[encode.Metric]

// DefaultInterval is the PeriodicReader's export interval when none is
// given, matching the reference SDK's default.
const DefaultInterval = 10 * time.Second

type internalCallback struct {
	id uint64
	fn func(ctx context.Context) error
}

// MeterProvider is the entry point for obtaining Meters and owns every
// instrument's aggregation state. Readers attached via WithReader pull
// from it; it never pushes on its own.
type MeterProvider struct {
	embedded.MeterProvider

	resource *resource.Resource
	onError  func(error)

	mu             sync.Mutex
	meters         map[scope.Scope]*Meter
	callbacks      []*internalCallback
	nextCallbackID uint64
	readers        []Reader
}

var _ otelmetric.MeterProvider = (*MeterProvider)(nil)

// Option configures a MeterProvider.
type Option func(*MeterProvider)

// WithResource attaches resource attributes to every metric point this
// provider's readers export.
func WithResource(res *resource.Resource) Option {
	return func(p *MeterProvider) { p.resource = res }
}

// WithReader attaches a Reader that will pull collected metric points from
// this provider, either on demand (ManualReader) or periodically
// (PeriodicReader).
func WithReader(r Reader) Option {
	return func(p *MeterProvider) { p.readers = append(p.readers, r) }
}

// WithErrorHandler installs a callback invoked whenever a metric callback
// returns an error or panics. By default such errors are swallowed, since
// a broken callback must never block collection of the other instruments.
// Reader export errors do not go here: PeriodicReader reports them through
// WithPeriodicErrorHandler and ManualReader returns them to its caller.
func WithErrorHandler(onError func(error)) Option {
	return func(p *MeterProvider) { p.onError = onError }
}

// NewMeterProvider builds a MeterProvider and starts every attached
// Reader.
func NewMeterProvider(opts ...Option) *MeterProvider {
	p := &MeterProvider{
		resource: resource.Default("unknown_service"),
		meters:   make(map[scope.Scope]*Meter),
	}
	for _, opt := range opts {
		opt(p)
	}
	for _, r := range p.readers {
		r.register(p)
	}
	return p
}

// Meter returns the named Meter, creating and caching it by instrumentation
// scope on first use.
func (p *MeterProvider) Meter(name string, opts ...otelmetric.MeterOption) otelmetric.Meter {
	cfg := otelmetric.NewMeterConfig(opts...)
	sc := scope.New(name, cfg.InstrumentationVersion(), cfg.SchemaURL())

	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.meters[sc]; ok {
		return m
	}
	m := &Meter{provider: p, scope: sc, instruments: make(map[string]*instrumentState)}
	p.meters[sc] = m
	return m
}

// registerInternalCallback wraps fn as an otelmetric.Registration, storing
// it so collect invokes it on every pull.
func (p *MeterProvider) registerInternalCallback(fn func(ctx context.Context) error) otelmetric.Registration {
	p.mu.Lock()
	p.nextCallbackID++
	id := p.nextCallbackID
	p.callbacks = append(p.callbacks, &internalCallback{id: id, fn: fn})
	p.mu.Unlock()

	return &registration{unregister: func() error {
		p.mu.Lock()
		defer p.mu.Unlock()
		for i, cb := range p.callbacks {
			if cb.id == id {
				p.callbacks = append(p.callbacks[:i], p.callbacks[i+1:]...)
				break
			}
		}
		return nil
	}}
}

// collect runs every registered callback, isolating failures so one bad
// callback cannot prevent the other instruments from being snapshotted,
// then snapshots every instrument across every Meter.
func (p *MeterProvider) collect(ctx context.Context) []encode.Metric {
	p.mu.Lock()
	callbacks := append([]*internalCallback(nil), p.callbacks...)
	meters := make([]*Meter, 0, len(p.meters))
	for _, m := range p.meters {
		meters = append(meters, m)
	}
	res := p.resource
	onError := p.onError
	p.mu.Unlock()

	for _, cb := range callbacks {
		p.runCallback(ctx, cb, onError)
	}

	now := time.Now()
	var out []encode.Metric
	for _, m := range meters {
		m.mu.Lock()
		insts := make([]*instrumentState, 0, len(m.instruments))
		for _, st := range m.instruments {
			insts = append(insts, st)
		}
		sc := m.scope
		m.mu.Unlock()

		for _, st := range insts {
			metric := st.snapshot(now)
			metric.Resource = res
			metric.Scope = sc
			out = append(out, metric)
		}
	}
	return out
}

// runCallback invokes cb, converting a panic into an error so a single
// broken observable callback never aborts the whole collection pass.
func (p *MeterProvider) runCallback(ctx context.Context, cb *internalCallback, onError func(error)) {
	defer func() {
		if r := recover(); r != nil && onError != nil {
			onError(fmt.Errorf("metric callback panic: %v", r))
		}
	}()
	if err := cb.fn(ctx); err != nil && onError != nil {
		onError(err)
	}
}

// ForceFlush collects and exports through every attached Reader
// immediately.
func (p *MeterProvider) ForceFlush(ctx context.Context) error {
	p.mu.Lock()
	readers := append([]Reader(nil), p.readers...)
	p.mu.Unlock()

	var firstErr error
	for _, r := range readers {
		if err := r.ForceFlush(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Shutdown stops every attached Reader, each performing one final
// collection before closing its exporter.
func (p *MeterProvider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	readers := append([]Reader(nil), p.readers...)
	p.mu.Unlock()

	var firstErr error
	for _, r := range readers {
		if err := r.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
