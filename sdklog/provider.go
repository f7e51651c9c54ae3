// Package sdklog implements a minimal LoggerProvider/Logger pair that
// batches log records through the same generic processor traces use, and
// a log/slog.Handler bridge so application logging flows into it without
// a bespoke logging API.
package sdklog

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/otelmini/fork"
	"github.com/felixgeelhaar/otelmini/internal/log"
	"github.com/felixgeelhaar/otelmini/otlp/batch"
	"github.com/felixgeelhaar/otelmini/otlp/encode"
	"github.com/felixgeelhaar/otelmini/resource"
	"github.com/felixgeelhaar/otelmini/scope"
)

// LogExporter sends completed log records to a collector.
type LogExporter = batch.Exporter[encode.LogRecord]

// LoggerProvider owns the resource and batch processor shared by every
// Logger it hands out, mirroring TracerProvider's shape.
type LoggerProvider struct {
	resource *resource.Resource

	batchSize int
	interval  time.Duration

	mu      sync.Mutex
	loggers map[scope.Scope]*Logger
	proc    *batch.Processor[encode.LogRecord]
}

// Option configures a LoggerProvider.
type Option func(*LoggerProvider)

func WithResource(r *resource.Resource) Option { return func(p *LoggerProvider) { p.resource = r } }

// WithBatching configures how log records are batched before export.
func WithBatching(batchSize int, interval time.Duration) Option {
	return func(p *LoggerProvider) { p.batchSize, p.interval = batchSize, interval }
}

// NewLoggerProvider builds a LoggerProvider exporting finished records
// through exp via a generic batch processor.
func NewLoggerProvider(exp LogExporter, opts ...Option) *LoggerProvider {
	p := &LoggerProvider{
		resource: resource.Default("unknown_service"),
		loggers:  make(map[scope.Scope]*Logger),
	}
	for _, opt := range opts {
		opt(p)
	}

	batchSize := p.batchSize
	if batchSize == 0 {
		batchSize = batch.DefaultBatchSize
	}
	interval := p.interval
	if interval == 0 {
		interval = batch.DefaultInterval
	}

	p.proc = batch.NewProcessor[encode.LogRecord](exp, batchSize, interval, p.onExportError)
	fork.Register(p.proc)
	return p
}

// onExportError is the batch processor's drop hook: a batch the exporter
// failed to deliver is gone for good (at-most-once delivery), so this is
// the only record of the loss.
func (p *LoggerProvider) onExportError(err error) {
	log.DefaultLogger().Warn("dropped log record batch after export failure", "error", err.Error())
}

// Logger returns the Logger for the given instrumentation scope,
// creating and caching it on first use.
func (p *LoggerProvider) Logger(name string, version, schemaURL string) *Logger {
	sc := scope.New(name, version, schemaURL)

	p.mu.Lock()
	defer p.mu.Unlock()
	if l, ok := p.loggers[sc]; ok {
		return l
	}
	l := &Logger{provider: p, scope: sc}
	p.loggers[sc] = l
	return l
}

func (p *LoggerProvider) emit(r encode.LogRecord) {
	r.Resource = p.resource
	p.proc.OnEnd(r)
}

// ForceFlush synchronously exports one batch of buffered log records (see
// batch.Processor.ForceFlush).
func (p *LoggerProvider) ForceFlush(ctx context.Context) error {
	return p.proc.ForceFlush(ctx)
}

// Shutdown drains and flushes the batch processor, then shuts down the
// underlying exporter.
func (p *LoggerProvider) Shutdown(ctx context.Context) error {
	fork.Unregister(p.proc)
	return p.proc.Shutdown(ctx)
}
