package dbus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/recnotify/internal/config"
)

type fakeBackend struct {
	events    []string
	settings  config.Settings
	updateErr error
	status    Status
	previews  []string
}

func (b *fakeBackend) HandleEvent(name string) bool {
	b.events = append(b.events, name)
	return name == "recording-starting"
}

func (b *fakeBackend) Settings() config.Settings { return b.settings }

func (b *fakeBackend) UpdateSettings(s config.Settings) error {
	if b.updateErr != nil {
		return b.updateErr
	}
	b.settings = s
	return nil
}

func (b *fakeBackend) Status() Status      { return b.status }
func (b *fakeBackend) Description() string { return "desc" }

func (b *fakeBackend) Preview(typ, state string) (bool, error) {
	if typ != "recording" && typ != "replay" {
		return false, errors.New("unknown notification type")
	}
	b.previews = append(b.previews, typ+"/"+state)
	return true, nil
}

func TestUnixConversion(t *testing.T) {
	assert.Equal(t, int64(0), toUnix(time.Time{}))
	assert.True(t, fromUnix(0).IsZero())

	ts := time.Unix(1700000000, 0)
	assert.Equal(t, int64(1700000000), toUnix(ts))
	assert.True(t, ts.Equal(fromUnix(1700000000)))
}

func TestStatusWire(t *testing.T) {
	s := Status{
		UIRunning:   true,
		Audio:       true,
		StartedAt:   time.Unix(100, 0),
		LastEvent:   "replay-buffer-saved",
		LastEventAt: time.Unix(200, 0),
	}
	got := statusFromWire(s.wire())
	assert.True(t, got.UIRunning)
	assert.True(t, got.Audio)
	assert.True(t, got.StartedAt.Equal(s.StartedAt))
	assert.Equal(t, s.LastEvent, got.LastEvent)
	assert.True(t, got.LastEventAt.Equal(s.LastEventAt))

	idle := statusFromWire(Status{}.wire())
	assert.Equal(t, Status{}, idle)
}

func TestServer_Event(t *testing.T) {
	b := &fakeBackend{}
	s := NewServer(b, nil)

	ok, derr := s.Event("recording-starting")
	require.Nil(t, derr)
	assert.True(t, ok)

	ok, derr = s.Event("bogus")
	require.Nil(t, derr, "unknown events are not D-Bus errors")
	assert.False(t, ok)

	assert.Equal(t, []string{"recording-starting", "bogus"}, b.events)
}

func TestServer_Settings(t *testing.T) {
	b := &fakeBackend{settings: config.DefaultSettings()}
	s := NewServer(b, nil)

	sounds, center, derr := s.GetSettings()
	require.Nil(t, derr)
	assert.True(t, sounds)
	assert.True(t, center)

	require.Nil(t, s.SetSettings(false, true))
	assert.Equal(t, config.Settings{SoundsEnabled: false, PositionCenter: true}, b.settings)

	b.updateErr = errors.New("disk full")
	derr = s.SetSettings(true, false)
	require.NotNil(t, derr)
	assert.Equal(t, "org.freedesktop.DBus.Error.Failed", derr.Name)
}

func TestServer_StatusAndDescription(t *testing.T) {
	b := &fakeBackend{status: Status{UIRunning: true, LastEvent: "exit", LastEventAt: time.Unix(42, 0)}}
	s := NewServer(b, nil)

	running, audio, startedAt, last, lastAt, derr := s.Status()
	require.Nil(t, derr)
	assert.True(t, running)
	assert.False(t, audio)
	assert.Equal(t, int64(0), startedAt)
	assert.Equal(t, "exit", last)
	assert.Equal(t, int64(42), lastAt)

	d, derr := s.Description()
	require.Nil(t, derr)
	assert.Equal(t, "desc", d)
}

func TestServer_Preview(t *testing.T) {
	b := &fakeBackend{}
	s := NewServer(b, nil)

	shown, derr := s.Preview("replay", "saved")
	require.Nil(t, derr)
	assert.True(t, shown)
	assert.Equal(t, []string{"replay/saved"}, b.previews)

	_, derr = s.Preview("stream", "saved")
	require.NotNil(t, derr)
	assert.Equal(t, "org.freedesktop.DBus.Error.InvalidArgs", derr.Name)
}

func TestServer_NotifyWithoutBusIsNoop(t *testing.T) {
	s := NewServer(&fakeBackend{}, nil)
	s.NotifySettingsChanged(config.DefaultSettings())
	s.NotifySettingsError(errors.New("bad toml"))
}

func TestServer_StopWithoutStart(t *testing.T) {
	assert.NoError(t, NewServer(&fakeBackend{}, nil).Stop())
}

func TestEndpointIntrospection(t *testing.T) {
	names := map[string]bool{}
	for _, m := range endpointMethods() {
		names[m.Name] = true
	}
	for _, want := range []string{"Event", "GetSettings", "SetSettings", "Status", "Description", "Preview"} {
		assert.True(t, names[want], want)
	}

	signals := map[string]bool{}
	for _, sig := range endpointSignals() {
		signals[sig.Name] = true
	}
	for _, want := range []string{SignalEventHandled, SignalSettingsChanged, SignalSettingsError} {
		assert.True(t, signals[want], want)
	}
}
