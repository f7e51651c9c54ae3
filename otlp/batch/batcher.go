// Package batch implements the fixed-size batch cutter, periodic timer,
// and generic batch processor shared by every signal's exporter pipeline.
package batch

import "sync"

// Batcher accumulates items and cuts them into fixed-size batches. Add
// appends a single item, returning true the moment the current run of
// items reaches Size; Pop removes and returns the oldest queued batch,
// cutting the in-progress partial batch first if nothing full is queued yet.
type Batcher[T any] struct {
	mu      sync.Mutex
	size    int
	items   []T
	batches [][]T
}

// NewBatcher builds a Batcher that cuts a new batch every size items.
func NewBatcher[T any](size int) *Batcher[T] {
	if size < 1 {
		size = 1
	}
	return &Batcher[T]{size: size}
}

// Add appends item to the current run and cuts a batch once Size items
// have accumulated. It reports whether a cut happened, which the owning
// processor uses to trigger an immediate export instead of waiting for the
// next timer tick.
func (b *Batcher[T]) Add(item T) (cut bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items = append(b.items, item)
	if len(b.items) >= b.size {
		b.cutLocked()
		return true
	}
	return false
}

// Pop returns and removes the oldest queued batch. If no full batch is
// queued but a partial run of items exists, that partial run is cut and
// returned. Pop returns nil if there is nothing buffered at all.
func (b *Batcher[T]) Pop() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.batches) == 0 && len(b.items) > 0 {
		b.cutLocked()
	}
	if len(b.batches) == 0 {
		return nil
	}

	next := b.batches[0]
	b.batches = b.batches[1:]
	return next
}

// cutLocked moves the current item run into the batch queue. Callers must
// hold b.mu.
func (b *Batcher[T]) cutLocked() {
	b.batches = append(b.batches, b.items)
	b.items = nil
}

// Len reports the number of items not yet cut into a popped batch,
// counting both queued batches and the in-progress partial run. Mainly
// useful in tests asserting queue depth.
func (b *Batcher[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.items)
	for _, batch := range b.batches {
		n += len(batch)
	}
	return n
}
