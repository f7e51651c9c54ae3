package batch

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExporter struct {
	mu      sync.Mutex
	batches [][]int
	onExport func([]int)
}

func (f *fakeExporter) Export(_ context.Context, items []int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := append([]int(nil), items...)
	f.batches = append(f.batches, cp)
	if f.onExport != nil {
		f.onExport(cp)
	}
	return nil
}

func (f *fakeExporter) Shutdown(context.Context) error    { return nil }
func (f *fakeExporter) ForceFlush(context.Context) error  { return nil }

func (f *fakeExporter) snapshot() [][]int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]int(nil), f.batches...)
}

func TestProcessorExportsOnBatchOverflow(t *testing.T) {
	exp := &fakeExporter{}
	done := make(chan struct{}, 1)
	exp.onExport = func([]int) {
		select {
		case done <- struct{}{}:
		default:
		}
	}

	p := NewProcessor[int](exp, 24, time.Hour, nil)
	defer p.Shutdown(context.Background())

	for i := 1; i <= 36; i++ {
		p.OnEnd(i)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected export to fire on batch overflow")
	}

	require.NoError(t, p.Shutdown(context.Background()))

	batches := exp.snapshot()
	require.Len(t, batches, 2)
	assert.Len(t, batches[0], 24)
	assert.Len(t, batches[1], 12)
}

func TestProcessorExportsOnTimerTick(t *testing.T) {
	exp := &fakeExporter{}
	p := NewProcessor[int](exp, 1000, 10*time.Millisecond, nil)
	defer p.Shutdown(context.Background())

	p.OnEnd(1)
	p.OnEnd(2)

	time.Sleep(40 * time.Millisecond)

	batches := exp.snapshot()
	require.GreaterOrEqual(t, len(batches), 1)
	assert.Equal(t, []int{1, 2}, batches[0])
}

func TestShutdownDrainsRemainingItems(t *testing.T) {
	exp := &fakeExporter{}
	p := NewProcessor[int](exp, 1000, time.Hour, nil)

	p.OnEnd(1)
	p.OnEnd(2)
	p.OnEnd(3)

	require.NoError(t, p.Shutdown(context.Background()))

	batches := exp.snapshot()
	require.Len(t, batches, 1)
	assert.Equal(t, []int{1, 2, 3}, batches[0])
}

func TestOnEndAfterShutdownIsDropped(t *testing.T) {
	exp := &fakeExporter{}
	p := NewProcessor[int](exp, 1000, time.Hour, nil)
	require.NoError(t, p.Shutdown(context.Background()))

	p.OnEnd(99)

	assert.Empty(t, exp.snapshot())
}

func TestForceFlushExportsImmediately(t *testing.T) {
	exp := &fakeExporter{}
	p := NewProcessor[int](exp, 1000, time.Hour, nil)
	defer p.Shutdown(context.Background())

	p.OnEnd(1)
	require.NoError(t, p.ForceFlush(context.Background()))

	batches := exp.snapshot()
	require.Len(t, batches, 1)
	assert.Equal(t, []int{1}, batches[0])
}

func TestChildReinitializesAfterFork(t *testing.T) {
	exp := &fakeExporter{}
	p := NewProcessor[int](exp, 2, time.Hour, nil)
	defer p.Shutdown(context.Background())

	p.OnEnd(1)
	p.Child()

	p.OnEnd(2)
	p.OnEnd(3)

	require.NoError(t, p.ForceFlush(context.Background()))

	batches := exp.snapshot()
	require.Len(t, batches, 1)
	assert.Equal(t, []int{2, 3}, batches[0])
}

func TestOnErrorCallbackInvoked(t *testing.T) {
	exp := &failingExporter{}
	var gotErr error
	p := NewProcessor[int](exp, 1, time.Hour, func(err error) {
		gotErr = err
	})
	defer p.Shutdown(context.Background())

	p.OnEnd(1)

	require.Eventually(t, func() bool { return gotErr != nil }, time.Second, 5*time.Millisecond)
}

type failingExporter struct{}

func (failingExporter) Export(context.Context, []int) error { return assert.AnError }
func (failingExporter) Shutdown(context.Context) error       { return nil }
func (failingExporter) ForceFlush(context.Context) error     { return nil }
