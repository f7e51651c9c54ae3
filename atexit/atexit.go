// Package atexit gives background workers a process-exit drain hook, the
// way the reference implementation relies on Python's atexit module to
// flush a BatchSpanProcessor's queue before the interpreter tears down.
// Go has no equivalent runtime hook, so callers that terminate the
// process through internal/exitcode get one: Exit and ExitWithError run
// every registered Hook before calling os.Exit.
package atexit

import "sync"

// Hook is drained exactly once before the process exits through
// internal/exitcode. Implementations must be idempotent: Run may also be
// invoked directly by tests or by a caller that never reaches
// internal/exitcode.
type Hook interface {
	RunAtExit()
}

var (
	mu    sync.Mutex
	hooks []Hook
)

// Register adds h to the set drained by Run. Registering the same Hook
// twice runs it twice; callers that may be registered more than once
// (Timer.Start, for example) guard against that themselves.
func Register(h Hook) {
	mu.Lock()
	defer mu.Unlock()
	hooks = append(hooks, h)
}

// Unregister removes a previously registered Hook, e.g. once its owner
// has already drained through an explicit Shutdown. A no-op if h was
// never registered.
func Unregister(h Hook) {
	mu.Lock()
	defer mu.Unlock()
	for i, x := range hooks {
		if x == h {
			hooks = append(hooks[:i], hooks[i+1:]...)
			return
		}
	}
}

// Run drains every registered Hook, in registration order. Safe to call
// more than once; a Hook already unregistered by its own drain is simply
// skipped on the next Run.
func Run() {
	mu.Lock()
	snapshot := make([]Hook, len(hooks))
	copy(snapshot, hooks)
	mu.Unlock()

	for _, h := range snapshot {
		h.RunAtExit()
	}
}
