package engine

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/recnotify/internal/model"
)

// Animation timing.
const (
	PollInterval = 100 * time.Millisecond
	FadeInterval = 30 * time.Millisecond
	HoldDuration = 3000 * time.Millisecond

	// MaxSteps is the opacity ceiling in tenths (0.9).
	MaxSteps = 9
)

// Phase is the animation phase of the popup.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFadingIn
	PhaseHolding
	PhaseFadingOut
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFadingIn:
		return "fading-in"
	case PhaseHolding:
		return "holding"
	case PhaseFadingOut:
		return "fading-out"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// State is a snapshot of the engine.
type State struct {
	Phase            Phase
	Opacity          float64
	PendingInterrupt bool

	// Request is the request being animated, nil when idle.
	Request *model.Request

	// Pending is the request waiting to interrupt the current one.
	Pending *model.Request
}

// Command is a unit of work applied on the loop.
type Command interface {
	apply(e *Engine)
}

// Submit asks the engine to show a request.
type Submit struct {
	Request model.Request
}

func (c Submit) apply(e *Engine) { e.submit(c.Request) }

// Relayout asks the surface to recompute its geometry.
// The animation state is not touched.
type Relayout struct{}

func (Relayout) apply(e *Engine) {
	if e.running {
		e.surface.Relayout()
	}
}

// Engine is the notification state machine and animation driver.
// Exactly one engine exists per popup window.
type Engine struct {
	loop    Loop
	surface Surface
	logger  *slog.Logger

	mu        sync.Mutex
	running   bool
	animating bool
	phase     Phase
	step      int // opacity in tenths
	current   *model.Request
	pending   *model.Request

	// At most one phase timer (fade step or hold) is live at a time.
	phaseTimer Timer
	pollTimer  Timer
}

// New creates an engine bound to loop and surface.
func New(loop Loop, surface Surface, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		loop:    loop,
		surface: surface,
		logger:  logger,
	}
}

// Start begins polling for requests. Must be called on the loop.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.running {
		return
	}
	e.running = true
	e.pollTimer = e.loop.After(PollInterval, e.poll)
	e.logger.Debug("notification engine started")
}

// Stop cancels all timers and returns to idle. Must be called on the loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.running = false
	if e.pollTimer != nil {
		e.pollTimer.Cancel()
		e.pollTimer = nil
	}
	e.cancelPhaseLocked()
	e.animating = false
	e.phase = PhaseIdle
	e.current = nil
	e.pending = nil
	e.setStepLocked(0)
	e.logger.Debug("notification engine stopped")
}

// Send delivers a command to the engine. Safe to call from any goroutine.
func (e *Engine) Send(cmd Command) {
	e.loop.Post(func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		cmd.apply(e)
	})
}

// State returns a snapshot of the engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := State{
		Phase:            e.phase,
		Opacity:          opacity(e.step),
		PendingInterrupt: e.pending != nil,
	}
	if e.current != nil {
		r := *e.current
		s.Request = &r
	}
	if e.pending != nil {
		r := *e.pending
		s.Pending = &r
	}
	return s
}

func opacity(step int) float64 {
	return float64(step) / 10
}

// submit stores r. Called with mu held.
func (e *Engine) submit(r model.Request) {
	if !e.running {
		e.logger.Debug("engine stopped, notification dropped",
			"id", r.ID,
			"request", r.String(),
		)
		return
	}
	if e.animating {
		e.pending = &r
		e.logger.Debug("notification queued as interrupt",
			"id", r.ID,
			"request", r.String(),
		)
		return
	}

	e.current = &r
	e.evaluateLocked()
}

func (e *Engine) poll() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.running {
		return
	}
	e.evaluateLocked()
	e.pollTimer = e.loop.After(PollInterval, e.poll)
}

// evaluateLocked starts an animation when one is due.
func (e *Engine) evaluateLocked() {
	if !e.running {
		return
	}
	if e.pending != nil {
		e.cancelPhaseLocked()
		e.setStepLocked(0)
		e.current = e.pending
		e.pending = nil
	} else if e.current == nil || e.animating {
		return
	}

	e.animating = true
	e.logger.Debug("presenting notification",
		"id", e.current.ID,
		"request", e.current.String(),
		"label", e.current.Label(),
	)
	if !e.current.Known() {
		e.logger.Debug("no dedicated label for pairing, showing placeholder",
			"id", e.current.ID,
			"request", e.current.String(),
		)
	}
	e.surface.Present(*e.current)
	e.phase = PhaseFadingIn
	e.fadeInLocked()
}

func (e *Engine) fadeIn() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fadeInLocked()
}

func (e *Engine) fadeInLocked() {
	if e.step < MaxSteps {
		e.setStepLocked(e.step + 1)
		e.schedulePhaseLocked(FadeInterval, e.fadeIn)
		return
	}
	e.phase = PhaseHolding
	e.schedulePhaseLocked(HoldDuration, e.fadeOut)
}

func (e *Engine) fadeOut() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.phase = PhaseFadingOut
	if e.step > 1 {
		e.setStepLocked(e.step - 1)
		e.schedulePhaseLocked(FadeInterval, e.fadeOut)
		return
	}

	e.phaseTimer = nil
	e.setStepLocked(0)
	e.animating = false
	e.phase = PhaseIdle
	if e.current != nil {
		e.logger.Debug("notification finished", "id", e.current.ID)
	}
	e.current = nil
}

func (e *Engine) schedulePhaseLocked(d time.Duration, f func()) {
	e.cancelPhaseLocked()
	e.phaseTimer = e.loop.After(d, f)
}

func (e *Engine) cancelPhaseLocked() {
	if e.phaseTimer != nil {
		e.phaseTimer.Cancel()
		e.phaseTimer = nil
	}
}

func (e *Engine) setStepLocked(step int) {
	e.step = step
	e.surface.SetOpacity(opacity(step))
}
