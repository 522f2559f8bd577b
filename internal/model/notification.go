// Package model defines the core data structures for recnotify.
package model

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// NotificationType identifies what kind of output an event concerns.
type NotificationType int

const (
	TypeRecording NotificationType = iota
	TypeReplay
)

// String returns the lowercase name of the type.
func (t NotificationType) String() string {
	switch t {
	case TypeRecording:
		return "recording"
	case TypeReplay:
		return "replay"
	default:
		return fmt.Sprintf("type(%d)", int(t))
	}
}

// ParseNotificationType parses a type name case-insensitively.
func ParseNotificationType(s string) (NotificationType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "recording":
		return TypeRecording, nil
	case "replay":
		return TypeReplay, nil
	default:
		return 0, fmt.Errorf("unknown notification type %q", s)
	}
}

// NotificationState identifies what happened to the output.
type NotificationState int

const (
	StateStarted NotificationState = iota
	StatePaused
	StateUnpaused
	StateSaved
)

// String returns the lowercase name of the state.
func (s NotificationState) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StatePaused:
		return "paused"
	case StateUnpaused:
		return "unpaused"
	case StateSaved:
		return "saved"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ParseNotificationState parses a state name case-insensitively.
func ParseNotificationState(s string) (NotificationState, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "started":
		return StateStarted, nil
	case "paused":
		return StatePaused, nil
	case "unpaused", "resumed":
		return StateUnpaused, nil
	case "saved":
		return StateSaved, nil
	default:
		return 0, fmt.Errorf("unknown notification state %q", s)
	}
}

// ParseRequest builds a request from type and state names. Pairings
// without a dedicated label are accepted.
func ParseRequest(typ, state string) (Request, error) {
	t, err := ParseNotificationType(typ)
	if err != nil {
		return Request{}, err
	}
	st, err := ParseNotificationState(state)
	if err != nil {
		return Request{}, err
	}
	return NewRequest(t, st), nil
}

// FallbackLabel is shown for pairings without a dedicated label.
const FallbackLabel = "Notification"

type pairing struct {
	t NotificationType
	s NotificationState
}

var labels = map[pairing]string{
	{TypeRecording, StateStarted}:  "Recording Started",
	{TypeRecording, StatePaused}:   "Recording Paused",
	{TypeRecording, StateUnpaused}: "Recording Resumed",
	{TypeRecording, StateSaved}:    "Recording Saved",
	{TypeReplay, StateSaved}:       "Replay Saved",
}

// Request is a single notification to be presented by the popup.
type Request struct {
	Type  NotificationType
	State NotificationState

	// ID correlates log lines for one request. It carries no behaviour.
	ID string
}

// NewRequest creates a request with a fresh ULID.
func NewRequest(t NotificationType, s NotificationState) Request {
	r := Request{Type: t, State: s}
	if id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader); err == nil {
		r.ID = id.String()
	}
	return r
}

// Known reports whether the pairing has a dedicated label and glyph.
func (r Request) Known() bool {
	_, ok := labels[pairing{r.Type, r.State}]
	return ok
}

// Label returns the human-readable popup text.
// Unknown pairings never fail; they get FallbackLabel.
func (r Request) Label() string {
	if l, ok := labels[pairing{r.Type, r.State}]; ok {
		return l
	}
	return FallbackLabel
}

// String returns "type/state".
func (r Request) String() string {
	return r.Type.String() + "/" + r.State.String()
}

// Sound describes the audio cue for an event.
// Name is a sound alias; the fallback fields describe the tone sequence
// used when the alias cannot be played.
type Sound struct {
	Name       string
	FallbackHz float64
	FallbackMs int
	Repeats    int
}

// FallbackDuration returns the length of one fallback tone.
func (s Sound) FallbackDuration() time.Duration {
	return time.Duration(s.FallbackMs) * time.Millisecond
}
