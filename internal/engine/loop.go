package engine

import (
	"time"

	"github.com/jmylchreest/recnotify/internal/model"
)

// Loop is the event loop the engine runs on.
// All engine state is mutated from callbacks delivered by the loop.
type Loop interface {
	// Post schedules f to run on the loop as soon as possible.
	// Safe to call from any goroutine.
	Post(f func())

	// After schedules f to run on the loop once d has elapsed.
	// Only called from the loop itself.
	After(d time.Duration, f func()) Timer
}

// Timer is a pending Loop.After callback.
type Timer interface {
	// Cancel prevents the callback from running. Calling Cancel more than
	// once, or after the callback ran, is a no-op.
	Cancel()
}

// Surface is the visible popup the engine animates.
// Methods are only called on the loop.
type Surface interface {
	// Present updates the label and glyph for r.
	Present(r model.Request)

	// SetOpacity sets window opacity in [0, 0.9].
	// An opacity of 0 should hide the window.
	SetOpacity(opacity float64)

	// Relayout recomputes size and position from current settings.
	Relayout()
}
