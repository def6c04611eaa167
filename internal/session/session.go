// Package session coordinates study sessions: it owns the timing machine for
// the active session, walks the due-card queue, applies review outcomes, and
// hands finished sessions to storage. Each session is an explicit object
// with create/close lifecycle; nothing here is a package-level singleton.
package session

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/studykit/studykit/internal/domain"
	"github.com/studykit/studykit/internal/srs"
	"github.com/studykit/studykit/internal/timer"
)

// ErrSessionOver is returned when an answer arrives after the session has
// ended, whether by deadline or by exhausting the queue.
var ErrSessionOver = errors.New("session: already over")

// ErrNoCard is returned when there is no current card to answer.
var ErrNoCard = errors.New("session: no card pending")

// Store is the slice of persistence the session layer needs.
type Store interface {
	UpdateCardSchedule(ctx context.Context, c domain.Card) error
	InsertSession(ctx context.Context, s domain.StudySession) error
}

var entropyOnce = sync.OnceValue(func() *ulid.MonotonicEntropy {
	return ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
})

var entropyMu sync.Mutex

// NewID returns a fresh ULID session identifier.
func NewID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropyOnce()).String()
}

// Revision is a time-boxed multi-card review session. The countdown is a
// session-level deadline: when it fires, the whole session ends, but reviews
// already applied stand.
type Revision struct {
	mu        sync.Mutex
	id        string
	deckID    int64
	store     Store
	countdown *timer.Countdown
	queue     []domain.Card
	idx       int
	reviewed  int
	correct   int
	startedAt time.Time
	now       func() time.Time
	recorded  bool
}

// RevisionConfig configures a revision session.
type RevisionConfig struct {
	BudgetSeconds int
	IncludeAll    bool             // study every card, not just the due ones
	Now           func() time.Time // nil -> time.Now; injected in tests
}

// NewRevision builds the due-card queue for the deck and arms the countdown.
// The budget is clamped to the allowed range, never rejected.
func NewRevision(store Store, deckID int64, cards []domain.Card, cfg RevisionConfig) (*Revision, error) {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	r := &Revision{
		id:        NewID(),
		deckID:    deckID,
		store:     store,
		countdown: timer.NewCountdown(),
		queue:     srs.SelectDue(cards, now(), cfg.IncludeAll),
		startedAt: now(),
		now:       now,
	}
	if _, err := r.countdown.Start(cfg.BudgetSeconds); err != nil {
		return nil, err
	}
	// An empty queue is a session that completes immediately.
	if len(r.queue) == 0 {
		r.countdown.Complete()
	}
	return r, nil
}

// ID returns the session identifier.
func (r *Revision) ID() string { return r.id }

// Tick burns one second of the session budget.
func (r *Revision) Tick() { r.countdown.Tick() }

// Remaining returns the unspent budget in seconds.
func (r *Revision) Remaining() int { return r.countdown.Remaining() }

// Budget returns the effective (clamped) budget in seconds.
func (r *Revision) Budget() int { return r.countdown.Budget() }

// State returns the countdown's lifecycle state.
func (r *Revision) State() timer.CountdownState { return r.countdown.State() }

// Over reports whether the session has ended, for either reason.
func (r *Revision) Over() bool {
	s := r.countdown.State()
	return s == timer.CountdownTimedOut || s == timer.CountdownCompleted
}

// Current returns the card awaiting an answer. ok is false once the session
// is over or the queue is exhausted.
func (r *Revision) Current() (domain.Card, bool) {
	if r.Over() {
		return domain.Card{}, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.idx >= len(r.queue) {
		return domain.Card{}, false
	}
	return r.queue[r.idx], true
}

// Answer applies the review outcome to the current card, persists its new
// schedule, and advances the queue. Exhausting the queue completes the
// session. Answers after the deadline fail with ErrSessionOver; the caller
// shows the summary instead.
func (r *Revision) Answer(ctx context.Context, correct bool) (domain.Card, error) {
	if r.Over() {
		return domain.Card{}, ErrSessionOver
	}
	r.mu.Lock()
	if r.idx >= len(r.queue) {
		r.mu.Unlock()
		return domain.Card{}, ErrNoCard
	}
	card := r.queue[r.idx]
	updated := srs.ApplyReview(card, correct, r.now())
	r.idx++
	r.reviewed++
	if correct {
		r.correct++
	}
	exhausted := r.idx >= len(r.queue)
	r.mu.Unlock()

	if err := r.store.UpdateCardSchedule(ctx, updated); err != nil {
		return domain.Card{}, err
	}
	if exhausted {
		r.countdown.Complete()
	}
	return updated, nil
}

// Close records the session in storage and returns the persisted record.
// Closing twice returns the first record without writing again.
func (r *Revision) Close(ctx context.Context) (domain.StudySession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ended := r.now()
	rec := domain.StudySession{
		ID:        r.id,
		DeckID:    r.deckID,
		Kind:      domain.SessionRevision,
		StartedAt: r.startedAt,
		EndedAt:   ended,
		Seconds:   r.countdown.Budget() - r.countdown.Remaining(),
		Reviewed:  r.reviewed,
		Correct:   r.correct,
	}
	if r.recorded {
		return rec, nil
	}
	if err := r.store.InsertSession(ctx, rec); err != nil {
		return domain.StudySession{}, err
	}
	r.recorded = true
	return rec, nil
}
