package timer

import "sync"

// Default phase budgets, in seconds. Overridable via PomodoroConfig.
const (
	DefaultFocusSeconds = 25 * 60
	DefaultBreakSeconds = 5 * 60
)

// Phase is the side of the pomodoro cycle currently counting down.
type Phase int

const (
	PhaseFocus Phase = iota
	PhaseBreak
)

func (p Phase) String() string {
	if p == PhaseBreak {
		return "break"
	}
	return "focus"
}

// PomodoroConfig sets the per-phase budgets. Zero values use the defaults.
type PomodoroConfig struct {
	FocusSeconds int
	BreakSeconds int
}

// PhaseEvent describes a completed phase. It is handed to the machine's
// observer so the surrounding application can notify the user and, for focus
// phases, persist a study session. Seconds is the full budget of the phase
// that just ended; Cycle counts completed focus->break transitions.
type PhaseEvent struct {
	Phase   Phase
	Seconds int
	Cycle   int
}

// Pomodoro cycles between Focus and Break phases of fixed budgets.
// The phase boundary is checked on tick entry, so each tick performs at most
// one transition and the remaining time never decrements past zero.
type Pomodoro struct {
	mu         sync.Mutex
	cfg        PomodoroConfig
	phase      Phase
	remaining  int
	running    bool
	started    bool
	stopped    bool
	cycles     int
	onPhaseEnd func(PhaseEvent)
}

// PomodoroSnapshot is a consistent read of the machine's state.
// PhaseElapsed is how far into the current phase the clock has advanced,
// which callers use to persist a partial focus session on stop.
type PomodoroSnapshot struct {
	Phase        Phase
	Remaining    int
	Running      bool
	Stopped      bool
	Cycles       int
	PhaseElapsed int
}

// NewPomodoro builds a machine with the given budgets and phase observer.
// A nil observer is allowed; non-positive budgets fall back to the defaults.
func NewPomodoro(cfg PomodoroConfig, onPhaseEnd func(PhaseEvent)) *Pomodoro {
	if cfg.FocusSeconds <= 0 {
		cfg.FocusSeconds = DefaultFocusSeconds
	}
	if cfg.BreakSeconds <= 0 {
		cfg.BreakSeconds = DefaultBreakSeconds
	}
	return &Pomodoro{cfg: cfg, onPhaseEnd: onPhaseEnd}
}

// Start begins the first focus phase. Fails with ErrAlreadyRunning if the
// machine was already started; a stopped machine stays stopped.
func (p *Pomodoro) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return ErrAlreadyRunning
	}
	p.started = true
	p.running = true
	p.phase = PhaseFocus
	p.remaining = p.cfg.FocusSeconds
	return nil
}

// Tick advances one second. Ignored unless running. When the remaining time
// hits zero the phase flips: focus completions increment the cycle count and
// are reported to the observer (the caller records them as study sessions);
// break completions are reported but record nothing.
func (p *Pomodoro) Tick() {
	p.mu.Lock()
	if !p.running || p.stopped {
		p.mu.Unlock()
		return
	}
	if p.remaining > 0 {
		p.remaining--
	}
	if p.remaining > 0 {
		p.mu.Unlock()
		return
	}

	ended := p.phase
	var ev PhaseEvent
	if ended == PhaseFocus {
		p.cycles++
		ev = PhaseEvent{Phase: PhaseFocus, Seconds: p.cfg.FocusSeconds, Cycle: p.cycles}
		p.phase = PhaseBreak
		p.remaining = p.cfg.BreakSeconds
	} else {
		ev = PhaseEvent{Phase: PhaseBreak, Seconds: p.cfg.BreakSeconds, Cycle: p.cycles}
		p.phase = PhaseFocus
		p.remaining = p.cfg.FocusSeconds
	}
	fn := p.onPhaseEnd
	p.mu.Unlock()

	// Observer runs outside the lock so it may call back into the machine.
	if fn != nil {
		fn(ev)
	}
}

// Pause suspends the clock without touching phase or remaining time.
func (p *Pomodoro) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started || p.stopped || !p.running {
		return ErrNotRunning
	}
	p.running = false
	return nil
}

// Resume continues a paused cycle.
func (p *Pomodoro) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started || p.stopped || p.running {
		return ErrNotRunning
	}
	p.running = true
	return nil
}

// Stop terminates the cycle and returns the final snapshot. Whether a
// partial focus phase counts as a study session is the caller's policy;
// the snapshot carries the elapsed phase seconds it needs to decide.
func (p *Pomodoro) Stop() (PomodoroSnapshot, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return PomodoroSnapshot{}, ErrNotStarted
	}
	p.stopped = true
	p.running = false
	return p.snapshotLocked(), nil
}

// Snapshot returns a consistent view of the machine.
func (p *Pomodoro) Snapshot() PomodoroSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

func (p *Pomodoro) snapshotLocked() PomodoroSnapshot {
	budget := p.cfg.FocusSeconds
	if p.phase == PhaseBreak {
		budget = p.cfg.BreakSeconds
	}
	return PomodoroSnapshot{
		Phase:        p.phase,
		Remaining:    p.remaining,
		Running:      p.running,
		Stopped:      p.stopped,
		Cycles:       p.cycles,
		PhaseElapsed: budget - p.remaining,
	}
}
