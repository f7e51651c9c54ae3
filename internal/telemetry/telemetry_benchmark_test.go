package telemetry

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/felixgeelhaar/otelmini/sdktrace"
)

// BenchmarkSpanCreation benchmarks span creation and end.
func BenchmarkSpanCreation(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = true

	exporter := &fakeSpanExporter{}
	res := createResource(cfg)
	tp := sdktrace.NewTracerProvider(exporter,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysOnSampler{}),
	)

	tracer := tp.Tracer("benchmark")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, span := tracer.Start(ctx, "benchmark-span")
		span.End()
	}

	_ = tp.Shutdown(ctx)
}

// BenchmarkSpanWithAttributes benchmarks span with attributes.
func BenchmarkSpanWithAttributes(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = true

	exporter := &fakeSpanExporter{}
	res := createResource(cfg)
	tp := sdktrace.NewTracerProvider(exporter,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysOnSampler{}),
	)

	tracer := tp.Tracer("benchmark")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, span := tracer.Start(ctx, "benchmark-span-with-attrs")
		span.SetAttributes(
			attribute.String("key1", "value1"),
			attribute.Int("key2", 42),
			attribute.Bool("key3", true),
		)
		span.End()
	}

	_ = tp.Shutdown(ctx)
}

// BenchmarkNestedSpans benchmarks nested span creation.
func BenchmarkNestedSpans(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = true

	exporter := &fakeSpanExporter{}
	res := createResource(cfg)
	tp := sdktrace.NewTracerProvider(exporter,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysOnSampler{}),
	)

	tracer := tp.Tracer("benchmark")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, parentSpan := tracer.Start(ctx, "parent-span")
		parentCtx := trace.ContextWithSpan(ctx, parentSpan)

		_, childSpan := tracer.Start(parentCtx, "child-span")
		childSpan.End()

		parentSpan.End()
	}

	_ = tp.Shutdown(ctx)
}

// BenchmarkSpanWithSampling benchmarks span creation with ratio-based sampling.
func BenchmarkSpanWithSampling(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.SampleRate = 0.5

	exporter := &fakeSpanExporter{}
	res := createResource(cfg)
	sampler, err := sdktrace.NewTraceIDRatioBased(cfg.SampleRate)
	if err != nil {
		b.Fatalf("NewTraceIDRatioBased failed: %v", err)
	}
	tp := sdktrace.NewTracerProvider(exporter,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	)

	tracer := tp.Tracer("benchmark")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, span := tracer.Start(ctx, "sampled-span")
		span.End()
	}

	_ = tp.Shutdown(ctx)
}

// BenchmarkBatchProcessor benchmarks the batch span processor directly.
func BenchmarkBatchProcessor(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = true

	exporter := &fakeSpanExporter{}
	res := createResource(cfg)
	tp := sdktrace.NewTracerProvider(exporter,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysOnSampler{}),
		sdktrace.WithBatching(512, 5*time.Second),
	)

	tracer := tp.Tracer("benchmark")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, span := tracer.Start(ctx, "batched-span")
		span.End()
	}

	_ = tp.Shutdown(ctx)
}

// BenchmarkNoopProvider benchmarks noop provider overhead.
func BenchmarkNoopProvider(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = false

	shutdown, _ := InitProvider(ctx, cfg)
	defer shutdown(ctx)

	tracer := GetTracerProvider().Tracer("benchmark")

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_, span := tracer.Start(ctx, "noop-span")
		span.End()
	}
}

// BenchmarkProviderConcurrent benchmarks concurrent span creation.
func BenchmarkProviderConcurrent(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = true

	exporter := &fakeSpanExporter{}
	res := createResource(cfg)
	tp := sdktrace.NewTracerProvider(exporter,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysOnSampler{}),
	)

	tracer := tp.Tracer("benchmark")

	b.ResetTimer()
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_, span := tracer.Start(ctx, "concurrent-span")
			span.End()
		}
	})

	_ = tp.Shutdown(ctx)
}

// BenchmarkGetTracerProvider benchmarks GetTracerProvider calls.
func BenchmarkGetTracerProvider(b *testing.B) {
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.Enabled = true

	shutdown, _ := InitProvider(ctx, cfg)
	defer shutdown(ctx)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		_ = GetTracerProvider()
	}
}
