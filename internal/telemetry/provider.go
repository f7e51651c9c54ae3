// Package telemetry instruments the otelmini CLI itself, using the SDK
// this repository builds rather than the upstream one: commands and
// exporter calls are traced and measured through sdktrace/sdkmetric the
// same way an application embedding otelmini would.
//
// # Usage
//
// Basic initialization:
//
//	cfg := telemetry.DefaultConfig()
//	cfg.Enabled = true
//	shutdown, err := telemetry.InitProvider(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer shutdown(ctx)
//
// Creating and ending spans:
//
//	ctx, span := telemetry.StartCommandSpan(ctx, "auto")
//	defer span.End()
//
// # Export target
//
// When cfg.Endpoint is set, spans and metrics go out over OTLP/HTTP via
// exporter/otlphttp. With no endpoint, they print to stdout via
// exporter/console, which is useful for local runs of the CLI without a
// collector.
//
// # Zero overhead when disabled
//
// With cfg.Enabled false, GetTracerProvider returns the real otel/trace
// noop implementation and InitMetricsProvider installs the otel/metric
// noop MeterProvider, whose instruments drop every measurement silently.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/felixgeelhaar/otelmini/attribute"
	"github.com/felixgeelhaar/otelmini/exporter/console"
	"github.com/felixgeelhaar/otelmini/exporter/otlphttp"
	"github.com/felixgeelhaar/otelmini/resource"
	"github.com/felixgeelhaar/otelmini/sdktrace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

var (
	globalProvider trace.TracerProvider        = noop.NewTracerProvider()
	globalShutdown func(context.Context) error = func(context.Context) error { return nil }
	providerMu     sync.RWMutex
)

// createResource builds the resource identifying this process, layering
// the CLI's own service/version/environment attributes over the SDK's
// default host/process/SDK identity attributes.
func createResource(cfg Config) *resource.Resource {
	own := resource.New("",
		attribute.KV("service.version", attribute.StringValue(cfg.ServiceVersion)),
		attribute.KV("deployment.environment", attribute.StringValue(cfg.Environment)),
	)
	return resource.Merge(resource.Default(cfg.ServiceName), own)
}

// traceExporter picks the console or OTLP/HTTP transport for cfg.Endpoint.
// Retries and reconnection are already handled inside the otlphttp
// exporter itself; this package adds no retry logic of its own.
func traceExporter(cfg Config) sdktrace.SpanExporter {
	if cfg.Endpoint == "" {
		return console.NewTraceExporter(os.Stdout)
	}
	return otlphttp.NewTraceExporter(cfg.Endpoint + "/v1/traces")
}

// InitProvider initializes the package's global TracerProvider and returns
// its shutdown function.
func InitProvider(ctx context.Context, cfg Config) (func(context.Context) error, error) {
	providerMu.Lock()
	defer providerMu.Unlock()

	if !cfg.Enabled {
		globalProvider = noop.NewTracerProvider()
		globalShutdown = func(context.Context) error { return nil }
		return globalShutdown, nil
	}

	res := createResource(cfg)
	opts := []sdktrace.Option{sdktrace.WithResource(res)}

	if cfg.SampleRate < 1.0 {
		sampler, err := sdktrace.NewTraceIDRatioBased(cfg.SampleRate)
		if err != nil {
			return nil, fmt.Errorf("invalid sample rate: %w", err)
		}
		opts = append(opts, sdktrace.WithSampler(sampler))
	} else {
		opts = append(opts, sdktrace.WithSampler(sdktrace.AlwaysOnSampler{}))
	}

	tp := sdktrace.NewTracerProvider(traceExporter(cfg), opts...)
	globalProvider = tp
	globalShutdown = tp.Shutdown

	return globalShutdown, nil
}

// Shutdown gracefully shuts down the tracer provider.
func Shutdown(ctx context.Context) error {
	providerMu.RLock()
	shutdown := globalShutdown
	providerMu.RUnlock()
	return shutdown(ctx)
}

// ForceFlush forces all pending spans to be exported.
func ForceFlush(ctx context.Context) error {
	providerMu.RLock()
	provider := globalProvider
	providerMu.RUnlock()

	if tp, ok := provider.(*sdktrace.TracerProvider); ok {
		return tp.ForceFlush(ctx)
	}
	return nil
}

// GetTracerProvider returns the current global tracer provider.
func GetTracerProvider() trace.TracerProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()

	if globalProvider != nil {
		return globalProvider
	}
	return noop.NewTracerProvider()
}
