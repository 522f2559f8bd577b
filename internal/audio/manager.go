package audio

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gen2brain/beeep"

	"github.com/jmylchreest/recnotify/internal/model"
)

// Warm-up tone: inaudible, near-zero duration.
const (
	WarmUpHz = 37
	WarmUpMs = 1
)

// Enabler reports whether sounds should play right now.
type Enabler interface {
	SoundsEnabled() bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithOutput replaces the speaker output.
func WithOutput(out Output) Option {
	return func(m *Manager) { m.out = out }
}

// WithTheme replaces the sound theme lookup.
func WithTheme(theme *SoundTheme) Option {
	return func(m *Manager) { m.theme = theme }
}

// WithBeeper replaces the last-resort tone generator.
func WithBeeper(beep func(freq float64, ms int) error) Option {
	return func(m *Manager) { m.beep = beep }
}

// Manager is the fire-and-forget sound player.
type Manager struct {
	logger  *slog.Logger
	enabled Enabler
	out     Output
	theme   *SoundTheme
	beep    func(freq float64, ms int) error
	watcher *Watcher

	// mu orders worker spawns against Stop so no worker starts once
	// Stop is waiting for the others.
	mu        sync.Mutex
	available atomic.Bool
	warmOnce  sync.Once
	wg        sync.WaitGroup
}

// NewManager creates a sound player that consults enabled before each cue.
func NewManager(enabled Enabler, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger:  logger,
		enabled: enabled,
		beep:    beeep.Beep,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.out == nil {
		m.out = NewPlayer(logger)
	}
	if m.theme == nil {
		m.theme = NewSoundTheme()
	}
	if inv, ok := m.out.(invalidator); ok {
		m.watcher = NewWatcher(inv, logger)
	}
	return m
}

// Start initialises the audio output. A failure leaves audio unavailable
// for the rest of the process; it is not retried.
func (m *Manager) Start(ctx context.Context) error {
	if err := m.out.Init(); err != nil {
		m.logger.Warn("audio unavailable, sounds disabled", "error", err)
		return err
	}
	m.available.Store(true)

	if m.watcher != nil {
		if err := m.watcher.Start(ctx); err != nil {
			m.logger.Warn("failed to start sound watcher", "error", err)
		}
	}

	m.logger.Info("audio manager started")
	return nil
}

// Stop waits for in-flight sounds and closes the output.
func (m *Manager) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
	m.mu.Lock()
	wasAvailable := m.available.Swap(false)
	m.mu.Unlock()

	m.wg.Wait()
	if wasAvailable {
		m.out.Close()
	}
	m.logger.Debug("audio manager stopped")
}

// Available reports whether the output initialised.
func (m *Manager) Available() bool {
	return m.available.Load()
}

// Play plays sound on a detached worker and returns immediately.
// It is a no-op when sounds are disabled or audio is unavailable.
func (m *Manager) Play(sound model.Sound) {
	if m.enabled != nil && !m.enabled.SoundsEnabled() {
		return
	}
	m.spawn(func() { m.play(sound) })
}

// WarmUp plays an inaudible tone once per process so the first real cue
// does not pay the output's start-up latency.
func (m *Manager) WarmUp() {
	m.warmOnce.Do(func() {
		m.spawn(func() {
			if err := m.out.Tone(WarmUpHz, WarmUpMs*time.Millisecond); err != nil {
				m.logger.Debug("warm-up tone failed", "error", err)
			}
		})
	})
}

// spawn runs f on a tracked worker while the output is available.
func (m *Manager) spawn(f func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.available.Load() {
		return
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		f()
	}()
}

// Wait blocks until every in-flight worker has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) play(sound model.Sound) {
	path, err := m.theme.Resolve(sound.Name)
	if err == nil {
		if m.watcher != nil {
			m.watcher.Watch(path)
		}
		err = m.out.PlayFile(path)
	}
	if err == nil {
		m.logger.Debug("played sound", "sound", sound.Name, "path", path)
		return
	}

	m.logger.Debug("sound failed, using fallback tones",
		"sound", sound.Name,
		"error", err,
	)
	m.fallback(sound)
}

// fallback emits the tone sequence. Each tone finishes before the next
// starts. Errors are logged at debug and otherwise ignored.
func (m *Manager) fallback(sound model.Sound) {
	for range sound.Repeats {
		err := m.out.Tone(sound.FallbackHz, sound.FallbackDuration())
		if err == nil {
			continue
		}
		if berr := m.beep(sound.FallbackHz, sound.FallbackMs); berr != nil {
			m.logger.Debug("fallback tone failed",
				"sound", sound.Name,
				"error", err,
				"beep_error", berr,
			)
		}
	}
}
