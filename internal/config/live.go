package config

import "sync/atomic"

// Live is the process-wide view of the current settings.
// Writers are rare (settings updates); readers are sound workers and the
// UI thread. Each flag is an independent atomic, so no lock is needed.
type Live struct {
	soundsEnabled  atomic.Bool
	positionCenter atomic.Bool
}

// NewLive creates a Live view initialised from s.
func NewLive(s Settings) *Live {
	l := &Live{}
	l.Store(s)
	return l
}

// Store replaces both flags.
func (l *Live) Store(s Settings) {
	l.soundsEnabled.Store(s.SoundsEnabled)
	l.positionCenter.Store(s.PositionCenter)
}

// Load returns a snapshot of both flags.
func (l *Live) Load() Settings {
	return Settings{
		SoundsEnabled:  l.soundsEnabled.Load(),
		PositionCenter: l.positionCenter.Load(),
	}
}

// SoundsEnabled reports whether audio cues should play.
func (l *Live) SoundsEnabled() bool {
	return l.soundsEnabled.Load()
}

// PositionCenter reports whether the popup is centered (false = top-right).
func (l *Live) PositionCenter() bool {
	return l.positionCenter.Load()
}
