package dbus

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/recnotify/internal/config"
)

// Backend serves the endpoint's methods.
type Backend interface {
	// HandleEvent dispatches a host event by name and reports whether the
	// name was recognised.
	HandleEvent(name string) bool
	Settings() config.Settings
	UpdateSettings(s config.Settings) error
	Status() Status
	Description() string

	// Preview shows a popup for a type/state pairing without a sound and
	// reports whether the popup took it. Bad names are errors.
	Preview(typ, state string) (bool, error)
}

// Server exports the host endpoint on the session bus.
type Server struct {
	conn    *dbus.Conn
	logger  *slog.Logger
	backend Backend

	mu      sync.RWMutex
	running bool
}

// NewServer creates a server for backend.
func NewServer(backend Backend, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		logger:  logger,
		backend: backend,
	}
}

// Start connects to the session bus, exports the endpoint and claims
// BusName.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("server already running")
	}

	conn, err := dbus.SessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}

	if err := conn.Export(s, Path, Interface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: Path,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    Interface,
				Methods: endpointMethods(),
				Signals: endpointSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), Path,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(BusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken", BusName)
	}

	s.conn = conn
	s.running = true

	s.logger.Info("D-Bus endpoint started", "interface", Interface, "path", Path)
	return nil
}

// Stop releases the bus name and unexports the endpoint.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if _, err := s.conn.ReleaseName(BusName); err != nil {
		s.logger.Warn("failed to release bus name", "error", err)
	}
	_ = s.conn.Export(nil, Path, Interface)
	_ = s.conn.Export(nil, Path, "org.freedesktop.DBus.Introspectable")
	// The session bus connection is shared and stays open.

	s.logger.Info("D-Bus endpoint stopped")
	return nil
}

// Event dispatches a host event. Unknown names return false.
// D-Bus method: Event(s) -> b
func (s *Server) Event(name string) (bool, *dbus.Error) {
	s.logger.Debug("Event called", "event", name)

	ok := s.backend.HandleEvent(name)
	if ok {
		s.emit(SignalEventHandled, name)
	}
	return ok, nil
}

// GetSettings returns the live settings.
// D-Bus method: GetSettings() -> (bb)
func (s *Server) GetSettings() (bool, bool, *dbus.Error) {
	cur := s.backend.Settings()
	return cur.SoundsEnabled, cur.PositionCenter, nil
}

// SetSettings persists and applies new settings.
// D-Bus method: SetSettings(bb) -> nothing
func (s *Server) SetSettings(soundsEnabled, positionCenter bool) *dbus.Error {
	next := config.Settings{SoundsEnabled: soundsEnabled, PositionCenter: positionCenter}
	if err := s.backend.UpdateSettings(next); err != nil {
		s.logger.Warn("failed to update settings", "error", err)
		return dbus.MakeFailedError(err)
	}
	s.emit(SignalSettingsChanged, soundsEnabled, positionCenter)
	return nil
}

// Status reports the UI thread, audio output and last event.
// D-Bus method: Status() -> (bbxsx)
func (s *Server) Status() (bool, bool, int64, string, int64, *dbus.Error) {
	running, audio, startedAt, lastEvent, lastEventAt := s.backend.Status().wire()
	return running, audio, startedAt, lastEvent, lastEventAt, nil
}

// Preview shows a popup for a type/state pairing.
// D-Bus method: Preview(ss) -> b
func (s *Server) Preview(typ, state string) (bool, *dbus.Error) {
	shown, err := s.backend.Preview(typ, state)
	if err != nil {
		return false, dbus.NewError("org.freedesktop.DBus.Error.InvalidArgs", []any{err.Error()})
	}
	return shown, nil
}

// NotifySettingsChanged emits SettingsChanged for settings applied from
// outside SetSettings, such as an edited settings file.
func (s *Server) NotifySettingsChanged(cur config.Settings) {
	s.emit(SignalSettingsChanged, cur.SoundsEnabled, cur.PositionCenter)
}

// NotifySettingsError emits SettingsError when the settings file cannot
// be loaded. The live settings are left unchanged.
func (s *Server) NotifySettingsError(err error) {
	s.emit(SignalSettingsError, err.Error())
}

// Description returns the human-readable description.
// D-Bus method: Description() -> s
func (s *Server) Description() (string, *dbus.Error) {
	return s.backend.Description(), nil
}

// emit sends a signal on Interface. Failures are logged.
func (s *Server) emit(name string, values ...any) {
	s.mu.RLock()
	conn := s.conn
	running := s.running
	s.mu.RUnlock()

	if !running {
		return
	}
	if err := conn.Emit(Path, Interface+"."+name, values...); err != nil {
		s.logger.Warn("failed to emit signal", "signal", name, "error", err)
	}
}

func endpointMethods() []introspect.Method {
	return []introspect.Method{
		{
			Name: "Event",
			Args: []introspect.Arg{
				{Name: "name", Type: "s", Direction: "in"},
				{Name: "recognised", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "GetSettings",
			Args: []introspect.Arg{
				{Name: "sounds_enabled", Type: "b", Direction: "out"},
				{Name: "position_center", Type: "b", Direction: "out"},
			},
		},
		{
			Name: "SetSettings",
			Args: []introspect.Arg{
				{Name: "sounds_enabled", Type: "b", Direction: "in"},
				{Name: "position_center", Type: "b", Direction: "in"},
			},
		},
		{
			Name: "Status",
			Args: []introspect.Arg{
				{Name: "ui_running", Type: "b", Direction: "out"},
				{Name: "audio", Type: "b", Direction: "out"},
				{Name: "started_at", Type: "x", Direction: "out"},
				{Name: "last_event", Type: "s", Direction: "out"},
				{Name: "last_event_at", Type: "x", Direction: "out"},
			},
		},
		{
			Name: "Description",
			Args: []introspect.Arg{
				{Name: "description", Type: "s", Direction: "out"},
			},
		},
		{
			Name: "Preview",
			Args: []introspect.Arg{
				{Name: "type", Type: "s", Direction: "in"},
				{Name: "state", Type: "s", Direction: "in"},
				{Name: "shown", Type: "b", Direction: "out"},
			},
		},
	}
}

func endpointSignals() []introspect.Signal {
	return []introspect.Signal{
		{
			Name: SignalEventHandled,
			Args: []introspect.Arg{
				{Name: "name", Type: "s"},
			},
		},
		{
			Name: SignalSettingsChanged,
			Args: []introspect.Arg{
				{Name: "sounds_enabled", Type: "b"},
				{Name: "position_center", Type: "b"},
			},
		},
		{
			Name: SignalSettingsError,
			Args: []introspect.Arg{
				{Name: "message", Type: "s"},
			},
		},
	}
}
