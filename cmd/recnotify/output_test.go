package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/recnotify/internal/config"
	"github.com/jmylchreest/recnotify/internal/dbus"
)

func TestWriteSettings(t *testing.T) {
	s := config.Settings{SoundsEnabled: true, PositionCenter: false}

	var text bytes.Buffer
	require.NoError(t, writeSettings(&text, formatText, s))
	assert.Equal(t, "sounds_enabled   true\nposition_center  false\n", text.String())

	var js bytes.Buffer
	require.NoError(t, writeSettings(&js, formatJSON, s))
	assert.JSONEq(t, `{"sounds_enabled": true, "position_center": false}`, js.String())

	var y bytes.Buffer
	require.NoError(t, writeSettings(&y, formatYAML, s))
	assert.YAMLEq(t, "sounds_enabled: true\nposition_center: false\n", y.String())
}

func TestWriteFormatted_UnknownFormat(t *testing.T) {
	err := writeFormatted(&bytes.Buffer{}, "xml", nil, nil)
	assert.ErrorContains(t, err, `unknown output format "xml"`)
}

func TestWriteStatus(t *testing.T) {
	var idle bytes.Buffer
	require.NoError(t, writeStatus(&idle, formatText, dbus.Status{}))
	assert.Equal(t, "popup       stopped\naudio       unavailable\nlast event  none\n", idle.String())

	var busy bytes.Buffer
	st := dbus.Status{
		UIRunning:   true,
		Audio:       true,
		StartedAt:   time.Now().Add(-2 * time.Hour),
		LastEvent:   "recording-starting",
		LastEventAt: time.Now().Add(-3 * time.Minute),
	}
	require.NoError(t, writeStatus(&busy, formatText, st))
	assert.Contains(t, busy.String(), "running since 2 hours ago")
	assert.Contains(t, busy.String(), "audio       available")
	assert.Contains(t, busy.String(), "recording-starting 3 minutes ago")

	var js bytes.Buffer
	require.NoError(t, writeStatus(&js, formatJSON, dbus.Status{}))
	assert.JSONEq(t, `{"ui_running": false, "audio": false}`, js.String())
}

func TestListEvents(t *testing.T) {
	rows := listEvents()
	require.Len(t, rows, 7)

	assert.Equal(t, "finished-loading", rows[0].Name)
	assert.Empty(t, rows[0].Sound)

	assert.Equal(t, eventInfo{
		Name:       "replay-buffer-saved",
		Constant:   "OBS_FRONTEND_EVENT_REPLAY_BUFFER_SAVED",
		Popup:      "Replay Saved",
		Sound:      "SystemNotification",
		ThemeSound: "message-new-instant",
		FallbackHz: 1000,
		FallbackMs: 100,
		Repeats:    3,
	}, rows[5])
}
