package daemon

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/jmylchreest/recnotify/internal/engine"
	"github.com/jmylchreest/recnotify/internal/model"
)

// Target receives commands once the UI thread is ready.
type Target interface {
	Send(cmd engine.Command)
}

// Runner runs a UI main loop on the calling goroutine.
type Runner interface {
	// Run blocks until Quit is called or the loop exits on its own.
	// ready is called on the UI thread once the popup can take commands.
	Run(ready func(Target)) error

	// Quit asks the loop to exit. Safe to call from any goroutine.
	Quit()
}

// UIThread owns the single UI thread and the handle to its popup.
// The handle is cleared when the loop exits.
type UIThread struct {
	newRunner func() Runner
	logger    *slog.Logger

	mu        sync.Mutex
	runner    Runner
	target    Target
	done      chan struct{}
	startedAt time.Time

	// stopping is set between Stop and the runner's exit. A Start in that
	// window sets restart and the exiting thread starts a fresh runner.
	stopping bool
	restart  bool
}

// NewUIThread creates a UI thread that builds a fresh runner on each Start.
func NewUIThread(newRunner func() Runner, logger *slog.Logger) *UIThread {
	if logger == nil {
		logger = slog.Default()
	}
	return &UIThread{
		newRunner: newRunner,
		logger:    logger,
	}
}

// Start spawns the UI thread. It is a no-op while one is running. A Start
// during teardown is deferred until the old thread has exited.
func (u *UIThread) Start() {
	u.mu.Lock()
	if u.runner != nil {
		if u.stopping && !u.restart {
			u.restart = true
			u.logger.Debug("ui thread stopping, restart queued")
		}
		u.mu.Unlock()
		return
	}
	r := u.newRunner()
	done := make(chan struct{})
	u.runner = r
	u.done = done
	u.mu.Unlock()

	go u.run(r, done)
	u.logger.Debug("ui thread starting")
}

func (u *UIThread) run(r Runner, done chan struct{}) {
	defer close(done)

	// GTK requires every call to come from the thread that initialised it.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	err := r.Run(func(t Target) {
		u.mu.Lock()
		defer u.mu.Unlock()
		if u.runner == r && !u.stopping {
			u.target = t
			u.startedAt = time.Now()
		}
	})
	if err != nil {
		u.logger.Warn("ui thread exited with error", "error", err)
	}

	u.mu.Lock()
	again := false
	if u.runner == r {
		u.runner = nil
		u.target = nil
		u.startedAt = time.Time{}
		again = u.restart
		u.stopping = false
		u.restart = false
	}
	u.mu.Unlock()

	u.logger.Debug("ui thread stopped")
	if again {
		u.Start()
	}
}

// Submit forwards a request to the popup. It returns false when the UI
// thread is not running or not ready yet.
func (u *UIThread) Submit(req model.Request) bool {
	t := u.currentTarget()
	if t == nil {
		return false
	}
	t.Send(engine.Submit{Request: req})
	return true
}

// Relayout asks the popup to recompute its geometry. No-op when not running.
func (u *UIThread) Relayout() {
	if t := u.currentTarget(); t != nil {
		t.Send(engine.Relayout{})
	}
}

func (u *UIThread) currentTarget() Target {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.target
}

// Stop asks the UI thread to exit and returns without waiting.
// The handle is dropped immediately so later submissions are ignored.
// A restart queued by an earlier Start is cancelled.
func (u *UIThread) Stop() {
	u.mu.Lock()
	r := u.runner
	u.target = nil
	u.restart = false
	if r != nil {
		u.stopping = true
	}
	u.mu.Unlock()

	if r != nil {
		r.Quit()
	}
}

// Wait blocks until the current UI thread exits or ctx is done.
func (u *UIThread) Wait(ctx context.Context) error {
	u.mu.Lock()
	done := u.done
	u.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running reports whether a UI thread exists.
func (u *UIThread) Running() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.runner != nil
}

// Ready reports whether the popup can take requests.
func (u *UIThread) Ready() bool {
	return u.currentTarget() != nil
}

// StartedAt returns when the popup became ready, or the zero time.
func (u *UIThread) StartedAt() time.Time {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.startedAt
}
