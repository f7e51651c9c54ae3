package sdkmetric

import (
	"context"

	"github.com/felixgeelhaar/otelmini/attribute"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/embedded"
)

// --- synchronous instruments ---

// Int64Counter is a monotonic Sum instrument recording int64 deltas.
type Int64Counter struct {
	embedded.Int64Counter
	state *instrumentState
}

func (i *Int64Counter) Add(_ context.Context, incr int64, options ...otelmetric.AddOption) {
	cfg := otelmetric.NewAddConfig(options)
	i.state.addSum(float64(incr), true, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

// Float64Counter is a monotonic Sum instrument recording float64 deltas.
type Float64Counter struct {
	embedded.Float64Counter
	state *instrumentState
}

func (i *Float64Counter) Add(_ context.Context, incr float64, options ...otelmetric.AddOption) {
	cfg := otelmetric.NewAddConfig(options)
	i.state.addSum(incr, false, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

// Int64UpDownCounter is a non-monotonic Sum instrument recording int64
// deltas that may be negative.
type Int64UpDownCounter struct {
	embedded.Int64UpDownCounter
	state *instrumentState
}

func (i *Int64UpDownCounter) Add(_ context.Context, incr int64, options ...otelmetric.AddOption) {
	cfg := otelmetric.NewAddConfig(options)
	i.state.addSum(float64(incr), true, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

// Float64UpDownCounter is a non-monotonic Sum instrument recording
// float64 deltas that may be negative.
type Float64UpDownCounter struct {
	embedded.Float64UpDownCounter
	state *instrumentState
}

func (i *Float64UpDownCounter) Add(_ context.Context, incr float64, options ...otelmetric.AddOption) {
	cfg := otelmetric.NewAddConfig(options)
	i.state.addSum(incr, false, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

// Int64Histogram records a distribution of int64 values.
type Int64Histogram struct {
	embedded.Int64Histogram
	state *instrumentState
}

func (i *Int64Histogram) Record(_ context.Context, value int64, options ...otelmetric.RecordOption) {
	cfg := otelmetric.NewRecordConfig(options)
	i.state.recordHistogram(float64(value), attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

// Float64Histogram records a distribution of float64 values.
type Float64Histogram struct {
	embedded.Float64Histogram
	state *instrumentState
}

func (i *Float64Histogram) Record(_ context.Context, value float64, options ...otelmetric.RecordOption) {
	cfg := otelmetric.NewRecordConfig(options)
	i.state.recordHistogram(value, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

// Int64Gauge records the last-known value of an int64 measurement.
type Int64Gauge struct {
	embedded.Int64Gauge
	state *instrumentState
}

func (i *Int64Gauge) Record(_ context.Context, value int64, options ...otelmetric.RecordOption) {
	cfg := otelmetric.NewRecordConfig(options)
	i.state.setGauge(float64(value), true, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

// Float64Gauge records the last-known value of a float64 measurement.
type Float64Gauge struct {
	embedded.Float64Gauge
	state *instrumentState
}

func (i *Float64Gauge) Record(_ context.Context, value float64, options ...otelmetric.RecordOption) {
	cfg := otelmetric.NewRecordConfig(options)
	i.state.setGauge(value, false, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

// --- observable instruments ---
//
// Observable instruments carry no Add/Record method; their state.cells are
// populated only while a callback runs during collect(), via the
// observer adapter in meter.go.

type Int64ObservableCounter struct {
	embedded.Int64ObservableCounter
	embedded.Int64Observable
	embedded.Observable
	state *instrumentState
}

type Float64ObservableCounter struct {
	embedded.Float64ObservableCounter
	embedded.Float64Observable
	embedded.Observable
	state *instrumentState
}

type Int64ObservableUpDownCounter struct {
	embedded.Int64ObservableUpDownCounter
	embedded.Int64Observable
	embedded.Observable
	state *instrumentState
}

type Float64ObservableUpDownCounter struct {
	embedded.Float64ObservableUpDownCounter
	embedded.Float64Observable
	embedded.Observable
	state *instrumentState
}

type Int64ObservableGauge struct {
	embedded.Int64ObservableGauge
	embedded.Int64Observable
	embedded.Observable
	state *instrumentState
}

type Float64ObservableGauge struct {
	embedded.Float64ObservableGauge
	embedded.Float64Observable
	embedded.Observable
	state *instrumentState
}

// registration implements otelmetric.Registration for a callback
// registered against this Meter.
type registration struct {
	unregister func() error
}

func (r *registration) Unregister() error { return r.unregister() }

// observer implements otelmetric.Observer, routing ObserveInt64/
// ObserveFloat64 calls from an application callback into the right
// instrument's cell.
type observer struct{}

func (observer) ObserveFloat64(o otelmetric.Float64Observable, value float64, options ...otelmetric.ObserveOption) {
	st, ok := o.(interface{ observableState() *instrumentState })
	if !ok {
		return
	}
	cfg := otelmetric.NewObserveConfig(options)
	st.observableState().setObservable(value, false, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

func (observer) ObserveInt64(o otelmetric.Int64Observable, value int64, options ...otelmetric.ObserveOption) {
	st, ok := o.(interface{ observableState() *instrumentState })
	if !ok {
		return
	}
	cfg := otelmetric.NewObserveConfig(options)
	st.observableState().setObservable(float64(value), true, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

func (i *Int64ObservableCounter) observableState() *instrumentState          { return i.state }
func (i *Float64ObservableCounter) observableState() *instrumentState        { return i.state }
func (i *Int64ObservableUpDownCounter) observableState() *instrumentState    { return i.state }
func (i *Float64ObservableUpDownCounter) observableState() *instrumentState  { return i.state }
func (i *Int64ObservableGauge) observableState() *instrumentState            { return i.state }
func (i *Float64ObservableGauge) observableState() *instrumentState          { return i.state }
