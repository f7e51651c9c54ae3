package sdkmetric

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/otelmini/otlp/batch"
)

// Reader pulls collected metric points from a MeterProvider and ships them
// to an exporter. register is called exactly once, by NewMeterProvider,
// and is unexported so only this package's Reader implementations can be
// attached via WithReader.
type Reader interface {
	ForceFlush(ctx context.Context) error
	Shutdown(ctx context.Context) error
	register(p *MeterProvider)
}

// ManualReader collects only when ForceFlush is called; it never
// schedules its own exports. Useful for tests and for callers driving
// collection from an outer scheduler (an HTTP /metrics handler, a signal
// handler, a CLI's final flush).
type ManualReader struct {
	exporter MetricExporter

	mu       sync.Mutex
	provider *MeterProvider
}

var _ Reader = (*ManualReader)(nil)

// NewManualReader builds a Reader that exports only on ForceFlush.
func NewManualReader(exporter MetricExporter) *ManualReader {
	return &ManualReader{exporter: exporter}
}

func (r *ManualReader) register(p *MeterProvider) {
	r.mu.Lock()
	r.provider = p
	r.mu.Unlock()
}

// ForceFlush collects every instrument's current snapshot and exports it
// immediately.
func (r *ManualReader) ForceFlush(ctx context.Context) error {
	r.mu.Lock()
	p := r.provider
	r.mu.Unlock()

	metrics := p.collect(ctx)
	if len(metrics) == 0 {
		return nil
	}
	return r.exporter.Export(ctx, metrics)
}

// Shutdown shuts down the underlying exporter. ManualReader holds no
// background goroutine, so there is nothing else to stop.
func (r *ManualReader) Shutdown(ctx context.Context) error {
	return r.exporter.Shutdown(ctx)
}

// PeriodicReader collects and exports on a fixed interval, the way the
// reference implementation's PeriodicExportingMetricReader drives export
// from its own background thread.
type PeriodicReader struct {
	exporter MetricExporter
	interval time.Duration
	onError  func(error)

	mu       sync.Mutex
	provider *MeterProvider
	timer    *batch.Timer
}

var _ Reader = (*PeriodicReader)(nil)

// PeriodicReaderOption configures a PeriodicReader.
type PeriodicReaderOption func(*PeriodicReader)

// WithPeriodicErrorHandler installs a callback for export errors. By
// default such errors are swallowed so a transient backend outage doesn't
// crash the reporting goroutine.
func WithPeriodicErrorHandler(onError func(error)) PeriodicReaderOption {
	return func(r *PeriodicReader) { r.onError = onError }
}

// NewPeriodicReader builds a Reader that exports every interval (falling
// back to DefaultInterval when interval <= 0), in addition to whenever
// ForceFlush is called directly.
func NewPeriodicReader(exporter MetricExporter, interval time.Duration, opts ...PeriodicReaderOption) *PeriodicReader {
	if interval <= 0 {
		interval = DefaultInterval
	}
	r := &PeriodicReader{exporter: exporter, interval: interval}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *PeriodicReader) register(p *MeterProvider) {
	r.mu.Lock()
	r.provider = p
	r.timer = batch.NewTimer(r.interval, r.tick)
	r.timer.Start()
	r.mu.Unlock()
}

// tick runs on the timer's own goroutine; it must never be called
// concurrently with itself, which batch.Timer already guarantees.
func (r *PeriodicReader) tick() {
	r.mu.Lock()
	p := r.provider
	r.mu.Unlock()
	if p == nil {
		return
	}

	ctx := context.Background()
	metrics := p.collect(ctx)
	if len(metrics) == 0 {
		return
	}
	if err := r.exporter.Export(ctx, metrics); err != nil && r.onError != nil {
		r.onError(err)
	}
}

// ForceFlush collects and exports immediately, independent of the timer's
// schedule.
func (r *PeriodicReader) ForceFlush(ctx context.Context) error {
	r.mu.Lock()
	p := r.provider
	r.mu.Unlock()

	metrics := p.collect(ctx)
	if len(metrics) == 0 {
		return nil
	}
	return r.exporter.Export(ctx, metrics)
}

// Shutdown stops the timer (which performs one final collect-and-export
// via tick) and shuts down the exporter.
func (r *PeriodicReader) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	timer := r.timer
	r.mu.Unlock()

	if timer != nil {
		timer.Stop()
	}
	return r.exporter.Shutdown(ctx)
}
