package batch

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/otelmini/atexit"
)

// Timer invokes a target function on a fixed interval, and can be woken
// early by NotifySleeper (used when a batch overflows before the next
// tick). Stop always performs one final call to target after the loop
// exits, so buffered work is not lost on shutdown.
type Timer struct {
	interval time.Duration
	target   func()

	notifyCh chan struct{}
	stopCh   chan struct{}
	done     chan struct{}

	mu      sync.Mutex
	started bool
	stopped bool
}

// NewTimer builds a Timer. target is called from the timer's own
// goroutine, and once more by Stop after that goroutine has exited, so
// the timer never runs it concurrently with itself.
func NewTimer(interval time.Duration, target func()) *Timer {
	return &Timer{
		interval: interval,
		target:   target,
		notifyCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start launches the timer's background goroutine and registers a
// process-exit drain so a buffered batch is not silently lost if the
// process exits without an explicit Stop. Calling Start more than once is
// a no-op.
func (t *Timer) Start() {
	t.mu.Lock()
	if t.started {
		t.mu.Unlock()
		return
	}
	t.started = true
	t.mu.Unlock()

	atexit.Register(t)
	go t.run()
}

// RunAtExit implements atexit.Hook: it drains the timer exactly as Stop
// does. Registered by Start, unregistered by Stop once the timer has
// already drained through its normal shutdown path.
func (t *Timer) RunAtExit() {
	t.Stop()
}

func (t *Timer) run() {
	defer close(t.done)
	for {
		select {
		case <-t.stopCh:
			return
		case <-t.notifyCh:
			t.target()
		case <-time.After(t.interval):
			t.target()
		}
	}
}

// NotifySleeper wakes the timer immediately instead of waiting for the
// next tick. Non-blocking: if a wake is already pending, this is a no-op.
func (t *Timer) NotifySleeper() {
	select {
	case t.notifyCh <- struct{}{}:
	default:
	}
}

// Stop halts the background goroutine and then calls target one final
// time, draining whatever was buffered since the last tick. Safe to call
// more than once; only the first call has effect.
func (t *Timer) Stop() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	if !t.started {
		t.stopped = true
		t.mu.Unlock()
		t.target()
		return
	}
	t.stopped = true
	t.mu.Unlock()

	atexit.Unregister(t)
	close(t.stopCh)
	<-t.done
	t.target()
}
