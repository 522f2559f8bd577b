package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Label(t *testing.T) {
	tests := []struct {
		name  string
		t     NotificationType
		s     NotificationState
		label string
		known bool
	}{
		{"recording started", TypeRecording, StateStarted, "Recording Started", true},
		{"recording paused", TypeRecording, StatePaused, "Recording Paused", true},
		{"recording unpaused", TypeRecording, StateUnpaused, "Recording Resumed", true},
		{"recording saved", TypeRecording, StateSaved, "Recording Saved", true},
		{"replay saved", TypeReplay, StateSaved, "Replay Saved", true},
		{"replay started", TypeReplay, StateStarted, FallbackLabel, false},
		{"replay paused", TypeReplay, StatePaused, FallbackLabel, false},
		{"out of range", NotificationType(42), NotificationState(7), FallbackLabel, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Request{Type: tt.t, State: tt.s}
			assert.Equal(t, tt.label, r.Label())
			assert.Equal(t, tt.known, r.Known())
		})
	}
}

func TestNewRequest_AssignsID(t *testing.T) {
	a := NewRequest(TypeRecording, StateStarted)
	b := NewRequest(TypeRecording, StateStarted)

	assert.Len(t, a.ID, 26)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "recording/started", a.String())
}

func TestParseNotificationType(t *testing.T) {
	typ, err := ParseNotificationType(" Replay ")
	require.NoError(t, err)
	assert.Equal(t, TypeReplay, typ)

	_, err = ParseNotificationType("streaming")
	assert.Error(t, err)
}

func TestParseNotificationState(t *testing.T) {
	st, err := ParseNotificationState("resumed")
	require.NoError(t, err)
	assert.Equal(t, StateUnpaused, st)

	st, err = ParseNotificationState("SAVED")
	require.NoError(t, err)
	assert.Equal(t, StateSaved, st)

	_, err = ParseNotificationState("stopped")
	assert.Error(t, err)
}

func TestSound_FallbackDuration(t *testing.T) {
	s := Sound{Name: "SystemHand", FallbackHz: 600, FallbackMs: 150, Repeats: 2}
	assert.Equal(t, int64(150), s.FallbackDuration().Milliseconds())
}

func TestParseRequest(t *testing.T) {
	r, err := ParseRequest("Recording", "resumed")
	require.NoError(t, err)
	assert.Equal(t, TypeRecording, r.Type)
	assert.Equal(t, StateUnpaused, r.State)
	assert.NotEmpty(t, r.ID)

	r, err = ParseRequest("replay", "paused")
	require.NoError(t, err)
	assert.False(t, r.Known())

	_, err = ParseRequest("stream", "started")
	assert.Error(t, err)
	_, err = ParseRequest("replay", "stopped")
	assert.Error(t, err)
}
