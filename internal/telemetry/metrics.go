package telemetry

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/felixgeelhaar/otelmini/exporter/console"
	"github.com/felixgeelhaar/otelmini/exporter/otlphttp"
	"github.com/felixgeelhaar/otelmini/sdkmetric"
)

var (
	globalMeterProvider   metric.MeterProvider = noop.NewMeterProvider()
	globalMetricsShutdown func(context.Context) error = func(context.Context) error { return nil }
	meterMu               sync.RWMutex

	metrics     *Metrics
	metricsOnce sync.Once
)

// Metrics holds every instrument this CLI reports about itself.
type Metrics struct {
	CommandCounter      metric.Int64Counter
	CommandDuration     metric.Float64Histogram
	CommandErrorCounter metric.Int64Counter

	ExportCallCounter  metric.Int64Counter
	ExportLatency      metric.Float64Histogram
	ExportErrorCounter metric.Int64Counter
}

// metricExporter picks the console or OTLP/HTTP transport for cfg.Endpoint,
// mirroring traceExporter's choice in provider.go.
func metricExporter(cfg Config) sdkmetric.MetricExporter {
	if cfg.Endpoint == "" {
		return console.NewMetricExporter(os.Stdout)
	}
	return otlphttp.NewMetricExporter(cfg.Endpoint + "/v1/metrics")
}

// InitMetricsProvider initializes the package's global MeterProvider and
// returns its shutdown function.
func InitMetricsProvider(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	meterMu.Lock()
	defer meterMu.Unlock()

	if !cfg.Enabled {
		globalMeterProvider = noop.NewMeterProvider()
		globalMetricsShutdown = func(context.Context) error { return nil }
		return globalMetricsShutdown, nil
	}

	res := createResource(cfg)
	reader := sdkmetric.NewPeriodicReader(metricExporter(cfg), 10*time.Second)
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	globalMeterProvider = mp
	globalMetricsShutdown = mp.Shutdown

	if err := initMetrics(mp); err != nil {
		return nil, err
	}
	registerRuntimeGauge(mp)

	return globalMetricsShutdown, nil
}

// initMetrics creates every instrument exactly once per process.
func initMetrics(mp metric.MeterProvider) error {
	var initErr error
	metricsOnce.Do(func() {
		meter := mp.Meter("github.com/felixgeelhaar/otelmini")
		m := &Metrics{}

		if m.CommandCounter, initErr = meter.Int64Counter(
			"otelmini.command.invocations",
			metric.WithDescription("Total number of command invocations"),
			metric.WithUnit("{invocation}"),
		); initErr != nil {
			return
		}

		if m.CommandDuration, initErr = meter.Float64Histogram(
			"otelmini.command.duration",
			metric.WithDescription("Command execution duration in seconds"),
			metric.WithUnit("s"),
		); initErr != nil {
			return
		}

		if m.CommandErrorCounter, initErr = meter.Int64Counter(
			"otelmini.command.errors",
			metric.WithDescription("Total number of command errors"),
			metric.WithUnit("{error}"),
		); initErr != nil {
			return
		}

		if m.ExportCallCounter, initErr = meter.Int64Counter(
			"otelmini.exporter.calls",
			metric.WithDescription("Total number of telemetry export calls"),
			metric.WithUnit("{call}"),
		); initErr != nil {
			return
		}

		if m.ExportLatency, initErr = meter.Float64Histogram(
			"otelmini.exporter.latency",
			metric.WithDescription("Telemetry export call latency in seconds"),
			metric.WithUnit("s"),
		); initErr != nil {
			return
		}

		if m.ExportErrorCounter, initErr = meter.Int64Counter(
			"otelmini.exporter.errors",
			metric.WithDescription("Total number of telemetry export errors"),
			metric.WithUnit("{error}"),
		); initErr != nil {
			return
		}

		metrics = m
	})

	return initErr
}

// registerRuntimeGauge wires an ObservableGauge reporting live goroutine
// count, read via a callback invoked on every collection pass instead of a
// background polling loop.
func registerRuntimeGauge(mp metric.MeterProvider) {
	meter := mp.Meter("github.com/felixgeelhaar/otelmini")
	gauge, err := meter.Int64ObservableGauge(
		"otelmini.process.goroutines",
		metric.WithDescription("Number of live goroutines in the process"),
		metric.WithUnit("{goroutine}"),
	)
	if err != nil {
		return
	}
	_, _ = meter.RegisterCallback(func(_ context.Context, o metric.Observer) error {
		o.ObserveInt64(gauge, int64(runtime.NumGoroutine()))
		return nil
	}, gauge)
}

// GetMetrics returns the initialized metrics instance, or an empty one
// (every Add/Record becomes a nil-check no-op) if metrics were never
// initialized.
func GetMetrics() *Metrics {
	meterMu.RLock()
	defer meterMu.RUnlock()

	if metrics != nil {
		return metrics
	}
	return &Metrics{}
}

// RecordCommandInvocation records a command invocation.
func RecordCommandInvocation(ctx context.Context, commandName string, status string, attrs ...attribute.KeyValue) {
	m := GetMetrics()
	if m.CommandCounter == nil {
		return
	}
	baseAttrs := append([]attribute.KeyValue{
		attribute.String("command", commandName),
		attribute.String("status", status),
	}, attrs...)
	m.CommandCounter.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
}

// RecordCommandDuration records command execution duration.
func RecordCommandDuration(ctx context.Context, commandName string, duration time.Duration, attrs ...attribute.KeyValue) {
	m := GetMetrics()
	if m.CommandDuration == nil {
		return
	}
	baseAttrs := append([]attribute.KeyValue{
		attribute.String("command", commandName),
	}, attrs...)
	m.CommandDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(baseAttrs...))
}

// RecordCommandError records a command error.
func RecordCommandError(ctx context.Context, commandName string, errorType string, attrs ...attribute.KeyValue) {
	m := GetMetrics()
	if m.CommandErrorCounter == nil {
		return
	}
	baseAttrs := append([]attribute.KeyValue{
		attribute.String("command", commandName),
		attribute.String("error_type", errorType),
	}, attrs...)
	m.CommandErrorCounter.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
}

// RecordExportCall records one export call made by this process's own
// SDK providers (traces, logs, or metrics).
func RecordExportCall(ctx context.Context, signal string, status string, attrs ...attribute.KeyValue) {
	m := GetMetrics()
	if m.ExportCallCounter == nil {
		return
	}
	baseAttrs := append([]attribute.KeyValue{
		attribute.String("signal", signal),
		attribute.String("status", status),
	}, attrs...)
	m.ExportCallCounter.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
}

// RecordExportLatency records how long an export call took.
func RecordExportLatency(ctx context.Context, signal string, duration time.Duration, attrs ...attribute.KeyValue) {
	m := GetMetrics()
	if m.ExportLatency == nil {
		return
	}
	baseAttrs := append([]attribute.KeyValue{
		attribute.String("signal", signal),
	}, attrs...)
	m.ExportLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(baseAttrs...))
}

// RecordExportError records an export failure.
func RecordExportError(ctx context.Context, signal string, errorType string, attrs ...attribute.KeyValue) {
	m := GetMetrics()
	if m.ExportErrorCounter == nil {
		return
	}
	baseAttrs := append([]attribute.KeyValue{
		attribute.String("signal", signal),
		attribute.String("error_type", errorType),
	}, attrs...)
	m.ExportErrorCounter.Add(ctx, 1, metric.WithAttributes(baseAttrs...))
}

// ShutdownMetrics gracefully shuts down the metrics provider.
func ShutdownMetrics(ctx context.Context) error {
	meterMu.RLock()
	shutdown := globalMetricsShutdown
	meterMu.RUnlock()
	return shutdown(ctx)
}

// ForceFlushMetrics forces all pending metrics to be exported.
func ForceFlushMetrics(ctx context.Context) error {
	meterMu.RLock()
	provider := globalMeterProvider
	meterMu.RUnlock()

	if mp, ok := provider.(*sdkmetric.MeterProvider); ok {
		return mp.ForceFlush(ctx)
	}
	return nil
}
