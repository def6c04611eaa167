package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/studykit/studykit/internal/domain"
	"github.com/studykit/studykit/internal/timer"
)

// MinPartialFocus is the threshold, in seconds, under which a focus phase
// cut short by Stop is not recorded as a study session.
const MinPartialFocus = 60

// Recorder turns timer results into persisted study sessions. One recorder
// serves one logical session context; create it alongside the machine and
// let it go when the session ends.
type Recorder struct {
	store  Store
	deckID int64
	log    *slog.Logger
	now    func() time.Time
}

// NewRecorder builds a recorder for the given deck (zero for deckless
// sessions). A nil logger uses the default.
func NewRecorder(store Store, deckID int64, log *slog.Logger) *Recorder {
	if log == nil {
		log = slog.Default()
	}
	return &Recorder{store: store, deckID: deckID, log: log, now: time.Now}
}

// OnPhaseEnd is the pomodoro machine's observer. Completed focus phases are
// persisted as pomodoro sessions; break completions only get logged. The
// callback cannot return an error to the machine, so storage failures are
// logged and dropped.
func (r *Recorder) OnPhaseEnd(ev timer.PhaseEvent) {
	if ev.Phase != timer.PhaseFocus {
		r.log.Info("break finished", "cycle", ev.Cycle)
		return
	}
	if err := r.record(domain.SessionPomodoro, ev.Seconds); err != nil {
		r.log.Error("failed to record focus session", "cycle", ev.Cycle, "error", err)
		return
	}
	r.log.Info("focus session recorded", "cycle", ev.Cycle, "seconds", ev.Seconds)
}

// RecordManual persists a stopped stopwatch's elapsed time.
func (r *Recorder) RecordManual(seconds int) error {
	return r.record(domain.SessionManual, seconds)
}

// RecordPartialFocus persists an interrupted focus phase, if long enough to
// count.
func (r *Recorder) RecordPartialFocus(seconds int) error {
	if seconds < MinPartialFocus {
		return nil
	}
	return r.record(domain.SessionPomodoro, seconds)
}

func (r *Recorder) record(kind domain.SessionKind, seconds int) error {
	ended := r.now()
	return r.store.InsertSession(context.Background(), domain.StudySession{
		ID:        NewID(),
		DeckID:    r.deckID,
		Kind:      kind,
		StartedAt: ended.Add(-time.Duration(seconds) * time.Second),
		EndedAt:   ended,
		Seconds:   seconds,
	})
}
