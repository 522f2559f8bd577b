package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownEvent is returned when a host event name is not recognised.
var ErrUnknownEvent = errors.New("unknown host event")

// HostEvent is a lifecycle event delivered by the host application.
type HostEvent int

const (
	EventFinishedLoading HostEvent = iota
	EventRecordingStarting
	EventRecordingStopped
	EventRecordingPaused
	EventRecordingUnpaused
	EventReplayBufferSaved
	EventExit
)

// hostEventNames lists canonical names in declaration order.
var hostEventNames = []string{
	EventFinishedLoading:   "finished-loading",
	EventRecordingStarting: "recording-starting",
	EventRecordingStopped:  "recording-stopped",
	EventRecordingPaused:   "recording-paused",
	EventRecordingUnpaused: "recording-unpaused",
	EventReplayBufferSaved: "replay-buffer-saved",
	EventExit:              "exit",
}

// hostConstantPrefix is the prefix of the host's native event constants,
// e.g. OBS_FRONTEND_EVENT_RECORDING_STARTING.
const hostConstantPrefix = "OBS_FRONTEND_EVENT_"

// AllHostEvents returns every recognised event in declaration order.
func AllHostEvents() []HostEvent {
	events := make([]HostEvent, len(hostEventNames))
	for i := range hostEventNames {
		events[i] = HostEvent(i)
	}
	return events
}

// String returns the canonical kebab-case name.
func (e HostEvent) String() string {
	if int(e) >= 0 && int(e) < len(hostEventNames) {
		return hostEventNames[e]
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// HostConstant returns the host's native constant name for the event.
func (e HostEvent) HostConstant() string {
	return hostConstantPrefix + strings.ToUpper(strings.ReplaceAll(e.String(), "-", "_"))
}

// ParseHostEvent accepts canonical names ("recording-starting"), snake or
// upper case variants, and native host constants
// ("OBS_FRONTEND_EVENT_RECORDING_STARTING").
func ParseHostEvent(name string) (HostEvent, error) {
	n := strings.TrimSpace(name)
	if strings.HasPrefix(strings.ToUpper(n), hostConstantPrefix) {
		n = n[len(hostConstantPrefix):]
	}
	n = strings.ToLower(strings.ReplaceAll(n, "_", "-"))

	for i, candidate := range hostEventNames {
		if candidate == n {
			return HostEvent(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
}

type eventAction struct {
	sound Sound
	t     NotificationType
	s     NotificationState
}

var eventActions = map[HostEvent]eventAction{
	EventRecordingStarting: {Sound{"DeviceConnect", 800, 200, 1}, TypeRecording, StateStarted},
	EventRecordingStopped:  {Sound{"DeviceDisconnect", 400, 300, 1}, TypeRecording, StateSaved},
	EventRecordingPaused:   {Sound{"SystemHand", 600, 150, 2}, TypeRecording, StatePaused},
	EventRecordingUnpaused: {Sound{"SystemAsterisk", 600, 100, 2}, TypeRecording, StateUnpaused},
	EventReplayBufferSaved: {Sound{"SystemNotification", 1000, 100, 3}, TypeReplay, StateSaved},
}

// Action returns the sound and notification request for an event.
// ok is false for events that carry no notification (FinishedLoading, Exit).
func Action(e HostEvent) (sound Sound, req Request, ok bool) {
	a, found := eventActions[e]
	if !found {
		return Sound{}, Request{}, false
	}
	return a.sound, NewRequest(a.t, a.s), true
}
