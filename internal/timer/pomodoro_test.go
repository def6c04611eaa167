package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPomodoroFocusBoundary(t *testing.T) {
	var events []PhaseEvent
	p := NewPomodoro(PomodoroConfig{FocusSeconds: 1, BreakSeconds: 90},
		func(ev PhaseEvent) { events = append(events, ev) })
	require.NoError(t, p.Start())

	// One second left in focus: a single tick must flip to break, bump the
	// cycle count by exactly one, and fire exactly one event.
	p.Tick()

	snap := p.Snapshot()
	assert.Equal(t, PhaseBreak, snap.Phase)
	assert.Equal(t, 90, snap.Remaining)
	assert.Equal(t, 1, snap.Cycles)

	require.Len(t, events, 1)
	assert.Equal(t, PhaseFocus, events[0].Phase)
	assert.Equal(t, 1, events[0].Seconds)
	assert.Equal(t, 1, events[0].Cycle)
}

func TestPomodoroBreakCyclesBackToFocus(t *testing.T) {
	var events []PhaseEvent
	p := NewPomodoro(PomodoroConfig{FocusSeconds: 2, BreakSeconds: 1},
		func(ev PhaseEvent) { events = append(events, ev) })
	require.NoError(t, p.Start())

	p.Tick() // focus 2 -> 1
	p.Tick() // focus boundary -> break(1)
	p.Tick() // break boundary -> focus(2)

	snap := p.Snapshot()
	assert.Equal(t, PhaseFocus, snap.Phase)
	assert.Equal(t, 2, snap.Remaining)
	assert.Equal(t, 1, snap.Cycles, "break completion must not increment cycles")

	require.Len(t, events, 2)
	assert.Equal(t, PhaseFocus, events[0].Phase)
	assert.Equal(t, PhaseBreak, events[1].Phase)
}

func TestPomodoroPausePreservesPhaseAndRemaining(t *testing.T) {
	p := NewPomodoro(PomodoroConfig{FocusSeconds: 10, BreakSeconds: 5}, nil)
	require.NoError(t, p.Start())
	p.Tick()
	p.Tick()

	require.NoError(t, p.Pause())
	for i := 0; i < 4; i++ {
		p.Tick()
	}
	snap := p.Snapshot()
	assert.Equal(t, PhaseFocus, snap.Phase)
	assert.Equal(t, 8, snap.Remaining)
	assert.False(t, snap.Running)

	require.NoError(t, p.Resume())
	p.Tick()
	assert.Equal(t, 7, p.Snapshot().Remaining)
}

func TestPomodoroStopReportsPartialFocus(t *testing.T) {
	p := NewPomodoro(PomodoroConfig{FocusSeconds: 10, BreakSeconds: 5}, nil)
	require.NoError(t, p.Start())
	p.Tick()
	p.Tick()
	p.Tick()

	snap, err := p.Stop()
	require.NoError(t, err)
	assert.True(t, snap.Stopped)
	assert.Equal(t, 3, snap.PhaseElapsed)

	p.Tick()
	assert.Equal(t, 7, p.Snapshot().Remaining, "ticks after stop are ignored")
}

func TestPomodoroStartConflict(t *testing.T) {
	p := NewPomodoro(PomodoroConfig{}, nil)
	require.NoError(t, p.Start())
	assert.ErrorIs(t, p.Start(), ErrAlreadyRunning)
}

func TestPomodoroDefaults(t *testing.T) {
	p := NewPomodoro(PomodoroConfig{}, nil)
	require.NoError(t, p.Start())
	assert.Equal(t, DefaultFocusSeconds, p.Snapshot().Remaining)
}

func TestPomodoroObserverMayCallBack(t *testing.T) {
	// The observer is invoked outside the lock, so reading the machine from
	// inside it must not deadlock.
	var snap PomodoroSnapshot
	var p *Pomodoro
	p = NewPomodoro(PomodoroConfig{FocusSeconds: 1, BreakSeconds: 2},
		func(PhaseEvent) { snap = p.Snapshot() })
	require.NoError(t, p.Start())
	p.Tick()
	assert.Equal(t, PhaseBreak, snap.Phase)
}
