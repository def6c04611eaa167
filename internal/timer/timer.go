// Package timer implements the session timing state machines: a plain
// count-up stopwatch, the pomodoro focus/break cycle, and the time-boxed
// revision countdown.
//
// All three share one driving contract: Tick advances exactly one second of
// simulated time and only while the machine is running. Ticks delivered in
// any other state are silently ignored, which tolerates scheduling jitter
// from the host; a machine never "catches up" missed ticks. Control calls
// and ticks may come from different goroutines, so every machine serializes
// access with a mutex.
package timer

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for state-machine misuse.
// Check with errors.Is.
var (
	ErrAlreadyRunning = errors.New("timer: already started")
	ErrNotRunning     = errors.New("timer: not running")
	ErrNotStarted     = errors.New("timer: not started")
)

// Machine is anything driven by a once-per-second tick.
type Machine interface {
	Tick()
}

// Drive delivers one tick per wall-clock second to the machine until the
// context is cancelled. time.Ticker drops ticks when delivery falls behind,
// so a stalled receiver loses time rather than replaying it.
func Drive(ctx context.Context, m Machine) {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Tick()
		}
	}
}
