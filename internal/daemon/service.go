package daemon

import (
	"github.com/jmylchreest/recnotify/internal/config"
	"github.com/jmylchreest/recnotify/internal/dbus"
	"github.com/jmylchreest/recnotify/internal/dispatch"
	"github.com/jmylchreest/recnotify/internal/model"
)

// AudioStatus reports whether the audio output came up.
type AudioStatus interface {
	Available() bool
}

// Service backs the D-Bus endpoint with the running daemon's parts.
type Service struct {
	dispatcher *dispatch.Dispatcher
	settings   *SettingsController
	ui         *UIThread
	audio      AudioStatus
}

// NewService wires the endpoint backend.
func NewService(d *dispatch.Dispatcher, settings *SettingsController, ui *UIThread, audio AudioStatus) *Service {
	return &Service{
		dispatcher: d,
		settings:   settings,
		ui:         ui,
		audio:      audio,
	}
}

// HandleEvent dispatches a host event by name.
func (s *Service) HandleEvent(name string) bool {
	return s.dispatcher.HandleName(name)
}

// Settings returns the live settings.
func (s *Service) Settings() config.Settings {
	return s.settings.Current()
}

// UpdateSettings persists and applies new settings.
func (s *Service) UpdateSettings(next config.Settings) error {
	return s.settings.Update(next)
}

// Status reports the UI thread, the audio output and the last host event.
// StartedAt stays zero until the popup is ready.
func (s *Service) Status() dbus.Status {
	st := dbus.Status{
		UIRunning: s.ui.Running(),
		Audio:     s.audio != nil && s.audio.Available(),
		StartedAt: s.ui.StartedAt(),
	}
	if e, at, ok := s.dispatcher.LastEvent(); ok {
		st.LastEvent = e.String()
		st.LastEventAt = at
	}
	return st
}

// Description returns the description text for the current settings.
func (s *Service) Description() string {
	return dispatch.Description(s.settings.Current())
}

// Preview submits a popup for a type/state pairing without playing a
// sound. It reports false when the popup is not up.
func (s *Service) Preview(typ, state string) (bool, error) {
	req, err := model.ParseRequest(typ, state)
	if err != nil {
		return false, err
	}
	return s.ui.Submit(req), nil
}
