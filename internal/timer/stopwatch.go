package timer

import "sync"

// StopwatchState identifies where a stopwatch is in its lifecycle.
type StopwatchState int

const (
	StopwatchIdle StopwatchState = iota
	StopwatchRunning
	StopwatchPaused
	StopwatchStopped
)

func (s StopwatchState) String() string {
	switch s {
	case StopwatchIdle:
		return "idle"
	case StopwatchRunning:
		return "running"
	case StopwatchPaused:
		return "paused"
	case StopwatchStopped:
		return "stopped"
	}
	return "unknown"
}

// Stopwatch is the plain count-up study timer:
// Idle -> Running <-> Paused -> Stopped.
type Stopwatch struct {
	mu      sync.Mutex
	state   StopwatchState
	elapsed int
}

// NewStopwatch returns a stopwatch in the Idle state.
func NewStopwatch() *Stopwatch {
	return &Stopwatch{}
}

// Start moves the stopwatch from Idle to Running with a zeroed clock.
// Starting a stopwatch that is already active is a caller conflict and
// fails with ErrAlreadyRunning; the caller must stop the old instance first.
func (s *Stopwatch) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StopwatchIdle {
		return ErrAlreadyRunning
	}
	s.state = StopwatchRunning
	s.elapsed = 0
	return nil
}

// Tick advances the clock by one second. Ignored unless Running.
func (s *Stopwatch) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StopwatchRunning {
		return
	}
	s.elapsed++
}

// Pause freezes the clock, preserving the elapsed time.
func (s *Stopwatch) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StopwatchRunning {
		return ErrNotRunning
	}
	s.state = StopwatchPaused
	return nil
}

// Resume continues a paused stopwatch.
func (s *Stopwatch) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StopwatchPaused {
		return ErrNotRunning
	}
	s.state = StopwatchRunning
	return nil
}

// Stop terminates the stopwatch from any active state and returns the final
// elapsed seconds. Persisting the result is the caller's concern.
func (s *Stopwatch) Stop() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StopwatchIdle {
		return 0, ErrNotStarted
	}
	s.state = StopwatchStopped
	return s.elapsed, nil
}

// Elapsed returns the seconds counted so far.
func (s *Stopwatch) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// State returns the current lifecycle state.
func (s *Stopwatch) State() StopwatchState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
