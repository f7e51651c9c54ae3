package batch

import (
	"context"
	"sync"
	"time"
)

// Exporter is anything a Processor can hand a cut batch to. Signal-specific
// packages (sdktrace, sdklog) implement this over their own item types by
// delegating to an exporter.* transport.
type Exporter[T any] interface {
	Export(ctx context.Context, items []T) error
	Shutdown(ctx context.Context) error
	ForceFlush(ctx context.Context) error
}

// Defaults matching the reference processor's constructor.
const (
	DefaultBatchSize = 512
	DefaultInterval  = 5 * time.Second
)

// Processor buffers items with a Batcher and flushes them to an Exporter
// either when a batch fills or when Timer ticks, whichever comes first.
// It is the generic engine behind the span pipeline in sdktrace and the
// log record pipeline in sdklog; sdkmetric's PeriodicReader uses only the
// Timer.
type Processor[T any] struct {
	exporter Exporter[T]
	batcher  *Batcher[T]
	timer    *Timer
	onError  func(error)

	mu       sync.Mutex
	stopped  bool
}

// NewProcessor builds and starts a Processor. batchSize and interval follow
// the same "whichever triggers first" semantics as the reference processor:
// reaching batchSize items exports immediately, otherwise export happens
// every interval.
func NewProcessor[T any](exporter Exporter[T], batchSize int, interval time.Duration, onError func(error)) *Processor[T] {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	p := &Processor[T]{
		exporter: exporter,
		batcher:  NewBatcher[T](batchSize),
		onError:  onError,
	}
	p.timer = NewTimer(interval, p.export)
	p.timer.Start()
	return p
}

// OnEnd adds item to the current batch. If the batch just reached full
// size, the timer is woken immediately instead of waiting for its next
// tick, so a burst of items is exported promptly.
func (p *Processor[T]) OnEnd(item T) {
	p.mu.Lock()
	stopped := p.stopped
	p.mu.Unlock()
	if stopped {
		return
	}

	if p.batcher.Add(item) {
		p.timer.NotifySleeper()
	}
}

// export pops exactly one batch and, if non-empty, hands it to the
// exporter, reporting any error via onError. Called from the timer's
// goroutine on every tick, wakeup, and final drain.
func (p *Processor[T]) export() {
	items := p.batcher.Pop()
	if len(items) == 0 {
		return
	}
	if err := p.exporter.Export(context.Background(), items); err != nil && p.onError != nil {
		p.onError(err)
	}
}

// ForceFlush synchronously exports one batch (the oldest queued full
// batch, or the current partial run when none is queued) and waits for
// the exporter's own ForceFlush to complete.
func (p *Processor[T]) ForceFlush(ctx context.Context) error {
	p.export()
	return p.exporter.ForceFlush(ctx)
}

// Shutdown stops accepting new items, stops the timer (which performs one
// final export of one batch, as ForceFlush does), and shuts down the
// underlying exporter.
func (p *Processor[T]) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return nil
	}
	p.stopped = true
	p.mu.Unlock()

	p.timer.Stop()
	return p.exporter.Shutdown(ctx)
}

// Child reinitializes the processor's background state after a fork,
// implementing fork.Aware. The batcher is reset (buffered items from the
// parent do not survive a fork, matching the reference implementation's
// reinitialize_at_fork) and the timer is restarted.
func (p *Processor[T]) Child() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.batcher = NewBatcher[T](p.batcher.size)
	p.timer = NewTimer(p.timer.interval, p.export)
	p.timer.Start()
	p.stopped = false
}
