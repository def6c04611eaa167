package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStopwatchLifecycle(t *testing.T) {
	s := NewStopwatch()
	assert.Equal(t, StopwatchIdle, s.State())

	require.NoError(t, s.Start())
	for i := 0; i < 3; i++ {
		s.Tick()
	}
	assert.Equal(t, 3, s.Elapsed())

	got, err := s.Stop()
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, StopwatchStopped, s.State())
}

func TestStopwatchPausedTicksAreNoOps(t *testing.T) {
	s := NewStopwatch()
	require.NoError(t, s.Start())
	s.Tick()
	require.NoError(t, s.Pause())

	// Ticks delivered while paused must not accumulate.
	for i := 0; i < 5; i++ {
		s.Tick()
	}
	assert.Equal(t, 1, s.Elapsed())

	require.NoError(t, s.Resume())
	s.Tick()
	assert.Equal(t, 2, s.Elapsed())
}

func TestStopwatchTickBeforeStartIgnored(t *testing.T) {
	s := NewStopwatch()
	s.Tick()
	s.Tick()
	assert.Equal(t, 0, s.Elapsed())
	assert.Equal(t, StopwatchIdle, s.State())
}

func TestStopwatchTickAfterStopIgnored(t *testing.T) {
	s := NewStopwatch()
	require.NoError(t, s.Start())
	s.Tick()
	_, err := s.Stop()
	require.NoError(t, err)

	s.Tick()
	assert.Equal(t, 1, s.Elapsed())
}

func TestStopwatchStartConflicts(t *testing.T) {
	s := NewStopwatch()
	require.NoError(t, s.Start())
	assert.ErrorIs(t, s.Start(), ErrAlreadyRunning)

	require.NoError(t, s.Pause())
	assert.ErrorIs(t, s.Start(), ErrAlreadyRunning)
}

func TestStopwatchStopBeforeStart(t *testing.T) {
	s := NewStopwatch()
	_, err := s.Stop()
	assert.ErrorIs(t, err, ErrNotStarted)
}
