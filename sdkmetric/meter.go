package sdkmetric

import (
	"context"
	"sync"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/scope"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/embedded"
)

// Meter implements otelmetric.Meter, creating and caching the
// instrumentState behind every instrument it hands out.
type Meter struct {
	embedded.Meter

	provider *MeterProvider
	scope    scope.Scope

	mu          sync.Mutex
	instruments map[string]*instrumentState
}

var _ otelmetric.Meter = (*Meter)(nil)

func (m *Meter) getOrCreate(name, description, unit string, kind instrumentKind, monotonic bool, bounds []float64) *instrumentState {
	m.mu.Lock()
	defer m.mu.Unlock()
	if st, ok := m.instruments[name]; ok {
		return st
	}
	st := newInstrumentState(name, description, unit, kind, monotonic, bounds)
	m.instruments[name] = st
	return st
}

func (m *Meter) Int64Counter(name string, options ...otelmetric.Int64CounterOption) (otelmetric.Int64Counter, error) {
	cfg := otelmetric.NewInt64CounterConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindSum, true, nil)
	return &Int64Counter{state: st}, nil
}

func (m *Meter) Float64Counter(name string, options ...otelmetric.Float64CounterOption) (otelmetric.Float64Counter, error) {
	cfg := otelmetric.NewFloat64CounterConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindSum, true, nil)
	return &Float64Counter{state: st}, nil
}

func (m *Meter) Int64UpDownCounter(name string, options ...otelmetric.Int64UpDownCounterOption) (otelmetric.Int64UpDownCounter, error) {
	cfg := otelmetric.NewInt64UpDownCounterConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindSum, false, nil)
	return &Int64UpDownCounter{state: st}, nil
}

func (m *Meter) Float64UpDownCounter(name string, options ...otelmetric.Float64UpDownCounterOption) (otelmetric.Float64UpDownCounter, error) {
	cfg := otelmetric.NewFloat64UpDownCounterConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindSum, false, nil)
	return &Float64UpDownCounter{state: st}, nil
}

func (m *Meter) Int64Histogram(name string, options ...otelmetric.Int64HistogramOption) (otelmetric.Int64Histogram, error) {
	cfg := otelmetric.NewInt64HistogramConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindHistogram, false, cfg.ExplicitBucketBoundaries())
	return &Int64Histogram{state: st}, nil
}

func (m *Meter) Float64Histogram(name string, options ...otelmetric.Float64HistogramOption) (otelmetric.Float64Histogram, error) {
	cfg := otelmetric.NewFloat64HistogramConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindHistogram, false, cfg.ExplicitBucketBoundaries())
	return &Float64Histogram{state: st}, nil
}

func (m *Meter) Int64Gauge(name string, options ...otelmetric.Int64GaugeOption) (otelmetric.Int64Gauge, error) {
	cfg := otelmetric.NewInt64GaugeConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindGauge, false, nil)
	return &Int64Gauge{state: st}, nil
}

func (m *Meter) Float64Gauge(name string, options ...otelmetric.Float64GaugeOption) (otelmetric.Float64Gauge, error) {
	cfg := otelmetric.NewFloat64GaugeConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindGauge, false, nil)
	return &Float64Gauge{state: st}, nil
}

func (m *Meter) Int64ObservableCounter(name string, options ...otelmetric.Int64ObservableCounterOption) (otelmetric.Int64ObservableCounter, error) {
	cfg := otelmetric.NewInt64ObservableCounterConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindSum, true, nil)
	inst := &Int64ObservableCounter{state: st}
	m.registerInt64Callbacks(inst, cfg.Callbacks())
	return inst, nil
}

func (m *Meter) Float64ObservableCounter(name string, options ...otelmetric.Float64ObservableCounterOption) (otelmetric.Float64ObservableCounter, error) {
	cfg := otelmetric.NewFloat64ObservableCounterConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindSum, true, nil)
	inst := &Float64ObservableCounter{state: st}
	m.registerFloat64Callbacks(inst, cfg.Callbacks())
	return inst, nil
}

func (m *Meter) Int64ObservableUpDownCounter(name string, options ...otelmetric.Int64ObservableUpDownCounterOption) (otelmetric.Int64ObservableUpDownCounter, error) {
	cfg := otelmetric.NewInt64ObservableUpDownCounterConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindSum, false, nil)
	inst := &Int64ObservableUpDownCounter{state: st}
	m.registerInt64Callbacks(inst, cfg.Callbacks())
	return inst, nil
}

func (m *Meter) Float64ObservableUpDownCounter(name string, options ...otelmetric.Float64ObservableUpDownCounterOption) (otelmetric.Float64ObservableUpDownCounter, error) {
	cfg := otelmetric.NewFloat64ObservableUpDownCounterConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindSum, false, nil)
	inst := &Float64ObservableUpDownCounter{state: st}
	m.registerFloat64Callbacks(inst, cfg.Callbacks())
	return inst, nil
}

func (m *Meter) Int64ObservableGauge(name string, options ...otelmetric.Int64ObservableGaugeOption) (otelmetric.Int64ObservableGauge, error) {
	cfg := otelmetric.NewInt64ObservableGaugeConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindGauge, false, nil)
	inst := &Int64ObservableGauge{state: st}
	m.registerInt64Callbacks(inst, cfg.Callbacks())
	return inst, nil
}

func (m *Meter) Float64ObservableGauge(name string, options ...otelmetric.Float64ObservableGaugeOption) (otelmetric.Float64ObservableGauge, error) {
	cfg := otelmetric.NewFloat64ObservableGaugeConfig(options...)
	st := m.getOrCreate(name, cfg.Description(), cfg.Unit(), kindGauge, false, nil)
	inst := &Float64ObservableGauge{state: st}
	m.registerFloat64Callbacks(inst, cfg.Callbacks())
	return inst, nil
}

// int64ObserverAdapter lets a single-instrument Int64Callback (attached
// via WithInt64Callback at instrument creation) feed the same
// instrumentState that multi-instrument RegisterCallback writes into.
type int64ObserverAdapter struct{ state *instrumentState }

func (a int64ObserverAdapter) Observe(value int64, options ...otelmetric.ObserveOption) {
	cfg := otelmetric.NewObserveConfig(options)
	a.state.setObservable(float64(value), true, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

type float64ObserverAdapter struct{ state *instrumentState }

func (a float64ObserverAdapter) Observe(value float64, options ...otelmetric.ObserveOption) {
	cfg := otelmetric.NewObserveConfig(options)
	a.state.setObservable(value, false, attribute.FromKeyValues(cfg.Attributes().ToSlice()))
}

type statefulObservable interface {
	observableState() *instrumentState
}

func (m *Meter) registerInt64Callbacks(inst statefulObservable, callbacks []otelmetric.Int64Callback) {
	adapter := int64ObserverAdapter{state: inst.observableState()}
	for _, cb := range callbacks {
		cb := cb
		m.provider.registerInternalCallback(func(ctx context.Context) error {
			return cb(ctx, adapter)
		})
	}
}

func (m *Meter) registerFloat64Callbacks(inst statefulObservable, callbacks []otelmetric.Float64Callback) {
	adapter := float64ObserverAdapter{state: inst.observableState()}
	for _, cb := range callbacks {
		cb := cb
		m.provider.registerInternalCallback(func(ctx context.Context) error {
			return cb(ctx, adapter)
		})
	}
}

func (m *Meter) RegisterCallback(f otelmetric.Callback, instruments ...otelmetric.Observable) (otelmetric.Registration, error) {
	return m.provider.registerInternalCallback(func(ctx context.Context) error {
		return f(ctx, observer{})
	}), nil
}
