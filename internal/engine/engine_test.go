package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/recnotify/internal/model"
)

// fakeLoop is a single-threaded loop driven by a manual clock.
type fakeLoop struct {
	now    time.Duration
	seq    int
	timers []*fakeTimer
	posted []func()

	// maxPhaseTimers is the highest number of non-poll timers pending at once.
	maxPhaseTimers int
}

type fakeTimer struct {
	at        time.Duration
	d         time.Duration
	seq       int
	f         func()
	fired     bool
	cancelled bool
}

func (t *fakeTimer) Cancel() { t.cancelled = true }

func (t *fakeTimer) pending() bool { return !t.fired && !t.cancelled }

func (l *fakeLoop) Post(f func()) {
	l.posted = append(l.posted, f)
}

func (l *fakeLoop) After(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: l.now + d, d: d, seq: l.seq, f: f}
	l.seq++
	l.timers = append(l.timers, t)
	return t
}

func (l *fakeLoop) flush() {
	for len(l.posted) > 0 {
		f := l.posted[0]
		l.posted = l.posted[1:]
		f()
		l.record()
	}
}

// Advance runs every callback due within d, in time order.
func (l *fakeLoop) Advance(d time.Duration) {
	end := l.now + d
	l.flush()
	for {
		t := l.next(end)
		if t == nil {
			break
		}
		l.now = t.at
		t.fired = true
		t.f()
		l.record()
		l.flush()
	}
	l.now = end
}

func (l *fakeLoop) next(end time.Duration) *fakeTimer {
	var best *fakeTimer
	for _, t := range l.timers {
		if !t.pending() || t.at > end {
			continue
		}
		if best == nil || t.at < best.at || (t.at == best.at && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (l *fakeLoop) phaseTimers() int {
	n := 0
	for _, t := range l.timers {
		if t.pending() && t.d != PollInterval {
			n++
		}
	}
	return n
}

func (l *fakeLoop) pendingTimers() int {
	n := 0
	for _, t := range l.timers {
		if t.pending() {
			n++
		}
	}
	return n
}

func (l *fakeLoop) record() {
	if n := l.phaseTimers(); n > l.maxPhaseTimers {
		l.maxPhaseTimers = n
	}
}

type fakeSurface struct {
	presented []model.Request
	opacities []float64
	relayouts int
}

func (s *fakeSurface) Present(r model.Request) { s.presented = append(s.presented, r) }

func (s *fakeSurface) SetOpacity(o float64) { s.opacities = append(s.opacities, o) }

func (s *fakeSurface) Relayout() { s.relayouts++ }

func (s *fakeSurface) opacity() float64 {
	if len(s.opacities) == 0 {
		return 0
	}
	return s.opacities[len(s.opacities)-1]
}

func newTestEngine(t *testing.T) (*Engine, *fakeLoop, *fakeSurface) {
	t.Helper()
	loop := &fakeLoop{}
	surface := &fakeSurface{}
	e := New(loop, surface, nil)
	e.Start()
	return e, loop, surface
}

func TestEngine_IdleSubmitFullTimeline(t *testing.T) {
	e, loop, surface := newTestEngine(t)

	e.Send(Submit{Request: model.NewRequest(model.TypeRecording, model.StateStarted)})
	loop.Advance(0)

	require.Len(t, surface.presented, 1)
	assert.Equal(t, "Recording Started", surface.presented[0].Label())
	assert.Equal(t, PhaseFadingIn, e.State().Phase)
	assert.Equal(t, 0.1, surface.opacity())

	// Nine steps of 0.1 every 30ms
	loop.Advance(8 * FadeInterval)
	assert.Equal(t, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9}, surface.opacities)
	assert.Equal(t, 0.9, e.State().Opacity)

	loop.Advance(FadeInterval)
	assert.Equal(t, PhaseHolding, e.State().Phase)

	// Hold for 3000ms at 0.9
	loop.Advance(HoldDuration - time.Millisecond)
	assert.Equal(t, PhaseHolding, e.State().Phase)
	assert.Equal(t, 0.9, surface.opacity())

	loop.Advance(time.Millisecond)
	st := e.State()
	assert.Equal(t, PhaseFadingOut, st.Phase)
	assert.Equal(t, 0.8, st.Opacity)

	// 0.8 down to 0.1 then the snap to 0
	loop.Advance(7 * FadeInterval)
	assert.Equal(t, 0.1, surface.opacity())
	require.NotNil(t, e.State().Request)

	loop.Advance(FadeInterval)
	st = e.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, 0.0, st.Opacity)
	assert.Equal(t, 0.0, surface.opacity())
	assert.Nil(t, st.Request)
	assert.False(t, st.PendingInterrupt)

	// Nothing else happens once idle
	loop.Advance(10 * time.Second)
	assert.Len(t, surface.presented, 1)
	assert.LessOrEqual(t, loop.maxPhaseTimers, 1)
}

func TestEngine_InterruptDuringHold(t *testing.T) {
	e, loop, surface := newTestEngine(t)

	e.Send(Submit{Request: model.NewRequest(model.TypeRecording, model.StateStarted)})
	loop.Advance(500 * time.Millisecond)
	require.Equal(t, PhaseHolding, e.State().Phase)

	e.Send(Submit{Request: model.NewRequest(model.TypeRecording, model.StatePaused)})
	loop.Advance(0)

	st := e.State()
	assert.True(t, st.PendingInterrupt)
	assert.Equal(t, "Recording Started", st.Request.Label())
	assert.Equal(t, "Recording Paused", st.Pending.Label())
	assert.Equal(t, 0.9, st.Opacity)

	// Next poll detects the interrupt
	before := len(surface.opacities)
	loop.Advance(PollInterval)

	require.Len(t, surface.presented, 2)
	assert.Equal(t, "Recording Paused", surface.presented[1].Label())
	assert.Equal(t, []float64{0, 0.1}, surface.opacities[before:])

	loop.Advance(8 * FadeInterval)
	st = e.State()
	assert.Equal(t, 0.9, st.Opacity)
	assert.Equal(t, "Recording Paused", st.Request.Label())
	assert.False(t, st.PendingInterrupt)

	loop.Advance(10 * time.Second)
	st = e.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, 0.0, st.Opacity)
	assert.Nil(t, st.Request)
	assert.LessOrEqual(t, loop.maxPhaseTimers, 1)
}

func TestEngine_InterruptDuringFadeIn(t *testing.T) {
	e, loop, surface := newTestEngine(t)

	e.Send(Submit{Request: model.NewRequest(model.TypeRecording, model.StateStarted)})
	loop.Advance(50 * time.Millisecond)
	require.Equal(t, PhaseFadingIn, e.State().Phase)

	e.Send(Submit{Request: model.NewRequest(model.TypeReplay, model.StateSaved)})
	loop.Advance(50 * time.Millisecond)

	// Opacity never climbs from the old fade after the snap to zero
	require.Len(t, surface.presented, 2)
	idx := -1
	for i, o := range surface.opacities {
		if o == 0 {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, 0.1, surface.opacities[idx+1])

	loop.Advance(10 * time.Second)
	assert.Equal(t, PhaseIdle, e.State().Phase)
	assert.LessOrEqual(t, loop.maxPhaseTimers, 1)
}

func TestEngine_RapidSubmitsShowLast(t *testing.T) {
	e, loop, surface := newTestEngine(t)

	states := []model.NotificationState{
		model.StateStarted,
		model.StatePaused,
		model.StateUnpaused,
		model.StatePaused,
		model.StateSaved,
	}
	for _, s := range states {
		e.Send(Submit{Request: model.NewRequest(model.TypeRecording, s)})
	}
	loop.Advance(0)
	loop.Advance(PollInterval)

	require.Len(t, surface.presented, 2)
	assert.Equal(t, "Recording Started", surface.presented[0].Label())
	assert.Equal(t, "Recording Saved", surface.presented[1].Label())

	loop.Advance(9 * FadeInterval)
	assert.Equal(t, "Recording Saved", e.State().Request.Label())

	loop.Advance(10 * time.Second)
	assert.Len(t, surface.presented, 2)
	assert.Equal(t, PhaseIdle, e.State().Phase)
	assert.LessOrEqual(t, loop.maxPhaseTimers, 1)
}

func TestEngine_InterruptSurvivesFadeOutCompletion(t *testing.T) {
	e, loop, surface := newTestEngine(t)

	e.Send(Submit{Request: model.NewRequest(model.TypeRecording, model.StateStarted)})
	// Fade-out reaches 0.1 at 3480ms and snaps to 0 at 3510ms, between polls
	loop.Advance(3505 * time.Millisecond)
	require.Equal(t, 0.1, surface.opacity())

	e.Send(Submit{Request: model.NewRequest(model.TypeRecording, model.StateSaved)})
	loop.Advance(10 * time.Millisecond)

	st := e.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Nil(t, st.Request)
	require.NotNil(t, st.Pending)
	assert.True(t, st.PendingInterrupt)

	loop.Advance(PollInterval)
	require.Len(t, surface.presented, 2)
	assert.Equal(t, "Recording Saved", surface.presented[1].Label())
	assert.Equal(t, PhaseFadingIn, e.State().Phase)
}

func TestEngine_UnknownPairingStillAnimates(t *testing.T) {
	e, loop, surface := newTestEngine(t)

	e.Send(Submit{Request: model.Request{Type: model.TypeReplay, State: model.StatePaused}})
	loop.Advance(0)

	require.Len(t, surface.presented, 1)
	assert.Equal(t, model.FallbackLabel, surface.presented[0].Label())

	loop.Advance(10 * time.Second)
	assert.Equal(t, PhaseIdle, e.State().Phase)
	assert.Equal(t, 0.0, surface.opacity())
}

func TestEngine_RelayoutLeavesStateAlone(t *testing.T) {
	e, loop, surface := newTestEngine(t)

	e.Send(Submit{Request: model.NewRequest(model.TypeRecording, model.StateStarted)})
	loop.Advance(500 * time.Millisecond)
	before := e.State()

	e.Send(Relayout{})
	loop.Advance(0)

	assert.Equal(t, 1, surface.relayouts)
	assert.Equal(t, before, e.State())

	// Relayout while idle also works
	loop.Advance(10 * time.Second)
	e.Send(Relayout{})
	loop.Advance(0)
	assert.Equal(t, 2, surface.relayouts)
	assert.Equal(t, PhaseIdle, e.State().Phase)
}

func TestEngine_StopCancelsTimers(t *testing.T) {
	e, loop, surface := newTestEngine(t)

	e.Send(Submit{Request: model.NewRequest(model.TypeRecording, model.StateStarted)})
	loop.Advance(100 * time.Millisecond)

	e.Stop()
	assert.Equal(t, 0, loop.pendingTimers())
	assert.Equal(t, PhaseIdle, e.State().Phase)
	assert.Equal(t, 0.0, surface.opacity())

	n := len(surface.opacities)
	loop.Advance(10 * time.Second)
	assert.Len(t, surface.opacities, n)

	// Stop is idempotent
	e.Stop()
}

func TestEngine_CommandsAfterStopAreDropped(t *testing.T) {
	e, loop, surface := newTestEngine(t)
	e.Stop()

	e.Send(Submit{Request: model.NewRequest(model.TypeRecording, model.StateStarted)})
	e.Send(Relayout{})
	loop.Advance(0)

	st := e.State()
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Nil(t, st.Request)
	assert.Equal(t, 0, loop.pendingTimers())
	assert.Empty(t, surface.presented)
	assert.Zero(t, surface.relayouts)

	loop.Advance(10 * time.Second)
	assert.Empty(t, surface.presented)
}

func TestEngine_StartIsIdempotent(t *testing.T) {
	e, loop, _ := newTestEngine(t)
	e.Start()

	polls := 0
	for _, tm := range loop.timers {
		if tm.pending() && tm.d == PollInterval {
			polls++
		}
	}
	assert.Equal(t, 1, polls)
	e.Stop()
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "idle", PhaseIdle.String())
	assert.Equal(t, "fading-in", PhaseFadingIn.String())
	assert.Equal(t, "holding", PhaseHolding.String())
	assert.Equal(t, "fading-out", PhaseFadingOut.String())
	assert.Equal(t, "phase(9)", Phase(9).String())
}
