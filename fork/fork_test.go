package fork

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct{ calls int }

func (r *recorder) Child() { r.calls++ }

func TestNotifyForkedCallsRegisteredListeners(t *testing.T) {
	a := &recorder{}
	b := &recorder{}
	Register(a)
	Register(b)
	defer Unregister(a)
	defer Unregister(b)

	NotifyForked()

	assert.Equal(t, 1, a.calls)
	assert.Equal(t, 1, b.calls)
}

func TestUnregisterStopsNotifications(t *testing.T) {
	a := &recorder{}
	Register(a)
	Unregister(a)

	NotifyForked()

	assert.Equal(t, 0, a.calls)
}
