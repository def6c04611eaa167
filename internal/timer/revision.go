package timer

import "sync"

// Revision budgets are clamped, not rejected: anything under 30 seconds or
// over an hour is pulled to the nearest bound at start time.
const (
	MinRevisionBudget = 30
	MaxRevisionBudget = 3600
)

// ClampBudget pulls a requested revision budget into the allowed range.
func ClampBudget(seconds int) int {
	if seconds < MinRevisionBudget {
		return MinRevisionBudget
	}
	if seconds > MaxRevisionBudget {
		return MaxRevisionBudget
	}
	return seconds
}

// CountdownState identifies where a revision countdown is in its lifecycle.
type CountdownState int

const (
	CountdownSetup CountdownState = iota
	CountdownRunning
	CountdownTimedOut
	CountdownCompleted
)

func (s CountdownState) String() string {
	switch s {
	case CountdownSetup:
		return "setup"
	case CountdownRunning:
		return "running"
	case CountdownTimedOut:
		return "timed_out"
	case CountdownCompleted:
		return "completed"
	}
	return "unknown"
}

// Countdown is the revision-mode deadline: a fixed time budget for an entire
// multi-card review session. Reaching zero ends the whole session, not the
// current card. There is no pause; once started it runs until it times out,
// the card queue is exhausted, or the caller abandons it.
type Countdown struct {
	mu        sync.Mutex
	state     CountdownState
	budget    int
	remaining int
}

// NewCountdown returns a countdown in the Setup state.
func NewCountdown() *Countdown {
	return &Countdown{}
}

// Start clamps the requested budget into [MinRevisionBudget,
// MaxRevisionBudget], arms the countdown, and returns the effective budget.
func (c *Countdown) Start(budgetSeconds int) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != CountdownSetup {
		return 0, ErrAlreadyRunning
	}
	c.budget = ClampBudget(budgetSeconds)
	c.remaining = c.budget
	c.state = CountdownRunning
	return c.budget, nil
}

// Tick burns one second of the budget. When it reaches zero the countdown
// moves to TimedOut and stays there; later ticks are ignored.
func (c *Countdown) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != CountdownRunning {
		return
	}
	if c.remaining > 0 {
		c.remaining--
	}
	if c.remaining == 0 {
		c.state = CountdownTimedOut
	}
}

// Complete records that every card was answered before the budget ran out.
// Only the reason for ending differs from TimedOut; reviews already applied
// stand either way.
func (c *Countdown) Complete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != CountdownRunning {
		return ErrNotRunning
	}
	c.state = CountdownCompleted
	return nil
}

// State returns the current lifecycle state.
func (c *Countdown) State() CountdownState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Remaining returns the unspent budget in seconds.
func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

// Budget returns the effective (clamped) budget.
func (c *Countdown) Budget() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.budget
}
