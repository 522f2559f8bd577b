package dbus

import (
	"time"
)

const (
	// Interface is the endpoint interface name.
	Interface = "io.github.jmylchreest.RecNotify"
	// Path is the endpoint object path.
	Path = "/io/github/jmylchreest/RecNotify"
	// BusName is the bus name recnotifyd claims.
	BusName = "io.github.jmylchreest.RecNotify"
)

// Signal names emitted on Interface.
const (
	SignalEventHandled    = "EventHandled"
	SignalSettingsChanged = "SettingsChanged"
	SignalSettingsError   = "SettingsError"
)

// Status describes the daemon for status queries.
type Status struct {
	UIRunning   bool      `json:"ui_running" yaml:"ui_running"`
	Audio       bool      `json:"audio" yaml:"audio"`
	StartedAt   time.Time `json:"started_at,omitzero" yaml:"started_at,omitempty"`
	LastEvent   string    `json:"last_event,omitempty" yaml:"last_event,omitempty"`
	LastEventAt time.Time `json:"last_event_at,omitzero" yaml:"last_event_at,omitempty"`
}

// toUnix converts t to unix seconds; the zero time maps to 0.
func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

// fromUnix is the inverse of toUnix.
func fromUnix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}

// wire returns the Status() reply tuple.
func (s Status) wire() (bool, bool, int64, string, int64) {
	return s.UIRunning, s.Audio, toUnix(s.StartedAt), s.LastEvent, toUnix(s.LastEventAt)
}

// statusFromWire builds a Status from a Status() reply.
func statusFromWire(running, audio bool, startedAt int64, lastEvent string, lastEventAt int64) Status {
	return Status{
		UIRunning:   running,
		Audio:       audio,
		StartedAt:   fromUnix(startedAt),
		LastEvent:   lastEvent,
		LastEventAt: fromUnix(lastEventAt),
	}
}
