// Package console implements exporters that print the OTLP JSON encoding
// of each batch to an io.Writer, useful for local development and tests.
// Modeled on the reference ConsoleExporterBase: there is no transport to
// fail, so an export fails only if encoding or the write to the writer does.
package console

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
)

// Exporter prints items through an encode function to an underlying
// writer. It is generic over the item type so the same implementation
// backs traces, logs, and metrics; the signal-specific wrappers in this
// package just plug in the matching encode.Encode*Request function.
type Exporter[T any] struct {
	mu     sync.Mutex
	w      io.Writer
	encode func([]T) ([]byte, error)
}

// New builds a console Exporter writing to w using encode to render each
// batch.
func New[T any](w io.Writer, encode func([]T) ([]byte, error)) *Exporter[T] {
	if w == nil {
		w = os.Stdout
	}
	return &Exporter[T]{w: w, encode: encode}
}

// Export encodes items and writes the result followed by a newline. It
// returns an error only when encode or the write to the writer fails.
func (e *Exporter[T]) Export(_ context.Context, items []T) error {
	body, err := e.encode(items)
	if err != nil {
		return fmt.Errorf("console: encode failed: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	_, err = fmt.Fprintln(e.w, string(body))
	return err
}

// Shutdown is a no-op; there is no connection to close.
func (e *Exporter[T]) Shutdown(context.Context) error { return nil }

// ForceFlush is a no-op; writes to w are unbuffered.
func (e *Exporter[T]) ForceFlush(context.Context) error { return nil }
