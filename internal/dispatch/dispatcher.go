// Package dispatch maps host lifecycle events to sounds and popup requests.
package dispatch

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/recnotify/internal/model"
)

// UI is the popup side of the dispatcher.
type UI interface {
	// Start brings the UI thread up. Calling it while running is a no-op.
	Start()

	// Submit hands a request to the UI thread. It returns false when the
	// UI is not running and the request was dropped.
	Submit(req model.Request) bool

	// Stop tears the UI thread down.
	Stop()
}

// SoundPlayer is the audio side of the dispatcher. Both methods return
// without waiting for playback.
type SoundPlayer interface {
	Play(sound model.Sound)
	WarmUp()
}

// Dispatcher routes host events. It never blocks and never fails.
type Dispatcher struct {
	ui     UI
	sound  SoundPlayer
	logger *slog.Logger

	mu        sync.Mutex
	lastEvent model.HostEvent
	lastAt    time.Time
	now       func() time.Time
}

// New creates a dispatcher.
func New(ui UI, sound SoundPlayer, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		ui:     ui,
		sound:  sound,
		logger: logger,
		now:    time.Now,
	}
}

// OnHostEvent handles one host event.
func (d *Dispatcher) OnHostEvent(e model.HostEvent) {
	d.mu.Lock()
	d.lastEvent = e
	d.lastAt = d.now()
	d.mu.Unlock()

	switch e {
	case model.EventFinishedLoading:
		d.logger.Debug("host finished loading, starting ui")
		d.ui.Start()
		d.sound.WarmUp()
		return
	case model.EventExit:
		d.logger.Debug("host exiting, stopping ui")
		d.ui.Stop()
		return
	}

	sound, req, ok := model.Action(e)
	if !ok {
		d.logger.Debug("ignoring host event", "event", e.String())
		return
	}

	d.sound.Play(sound)
	if !d.ui.Submit(req) {
		d.logger.Debug("ui not running, notification dropped",
			"event", e.String(),
			"id", req.ID,
		)
		return
	}

	d.logger.Debug("dispatched notification",
		"event", e.String(),
		"id", req.ID,
		"request", req.String(),
	)
}

// HandleName parses a host event name and dispatches it.
// It reports whether the name was recognised.
func (d *Dispatcher) HandleName(name string) bool {
	e, err := model.ParseHostEvent(name)
	if err != nil {
		if errors.Is(err, model.ErrUnknownEvent) {
			d.logger.Debug("unknown host event", "event", name)
		}
		return false
	}
	d.OnHostEvent(e)
	return true
}

// LastEvent returns the most recently handled event.
// ok is false when no event has been handled yet.
func (d *Dispatcher) LastEvent() (e model.HostEvent, at time.Time, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastEvent, d.lastAt, !d.lastAt.IsZero()
}
