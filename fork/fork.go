// Package fork gives processors and exporters a hook for reinitializing
// internal state after a POSIX fork, matching the ForkAware contract the
// reference implementation installs through os.register_at_fork. Go's
// runtime does not expose a portable post-fork hook for processes with live
// goroutines, so this package is a cooperative registry: embedders that
// fork via cgo or exec wrappers call NotifyForked explicitly after the
// fork returns in the child.
package fork

import "sync"

// Aware is implemented by any component that owns goroutines, open
// connections, or OS handles that do not survive a fork cleanly. Child
// reinitializes those resources; it is called in the child process only.
type Aware interface {
	Child()
}

var (
	mu        sync.Mutex
	listeners []Aware
)

// Register adds a to the set notified by NotifyForked. It does not
// install any OS-level fork hook; callers decide when a fork occurred.
func Register(a Aware) {
	mu.Lock()
	defer mu.Unlock()
	listeners = append(listeners, a)
}

// Unregister removes a previously registered listener, e.g. when its owner
// shuts down. A no-op if a was never registered.
func Unregister(a Aware) {
	mu.Lock()
	defer mu.Unlock()
	for i, l := range listeners {
		if l == a {
			listeners = append(listeners[:i], listeners[i+1:]...)
			return
		}
	}
}

// NotifyForked calls Child on every registered listener. It must be invoked
// by the embedder immediately after a fork returns in the child process,
// before any telemetry is recorded.
func NotifyForked() {
	mu.Lock()
	snapshot := make([]Aware, len(listeners))
	copy(snapshot, listeners)
	mu.Unlock()

	for _, l := range snapshot {
		l.Child()
	}
}
