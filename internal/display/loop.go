package display

import (
	"time"

	"github.com/diamondburned/gotk4/pkg/core/glib"

	"github.com/jmylchreest/recnotify/internal/engine"
)

// Loop schedules engine callbacks on the default GLib main context.
type Loop struct{}

// NewLoop returns a Loop bound to the default main context.
func NewLoop() *Loop {
	return &Loop{}
}

// Post runs f on the main loop. Safe to call from any goroutine.
func (l *Loop) Post(f func()) {
	glib.IdleAdd(f)
}

// After runs f on the main loop once d has elapsed.
func (l *Loop) After(d time.Duration, f func()) engine.Timer {
	t := &timer{}
	t.handle = glib.TimeoutAdd(uint(d.Milliseconds()), func() {
		t.done = true
		f()
	})
	return t
}

// timer is only touched on the UI thread.
type timer struct {
	handle glib.SourceHandle
	done   bool
}

// Cancel removes the source unless it already fired or was removed.
// Removing a finished source makes GLib log a critical warning.
func (t *timer) Cancel() {
	if t.done {
		return
	}
	t.done = true
	glib.SourceRemove(t.handle)
}
