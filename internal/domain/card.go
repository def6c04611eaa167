package domain

import "time"

// DateLayout is the storage format for scheduling dates. Due dates are
// calendar days, not instants; time-of-day never participates in scheduling.
const DateLayout = "2006-01-02"

// Card is a single flashcard together with its spaced-repetition record.
type Card struct {
	ID     string `json:"id"`
	DeckID int64  `json:"deck_id"`
	Front  string `json:"front"`
	Back   string `json:"back"`

	// Scheduling state. Interval is whole days until the next review,
	// Repetitions counts consecutive correct answers since the last lapse,
	// EaseFactor is the SM-2 difficulty multiplier (never below 1.3).
	Interval    int     `json:"interval"`
	Repetitions int     `json:"repetitions"`
	EaseFactor  float64 `json:"ease_factor"`

	// DueDate is the day the card becomes reviewable; nil means due now.
	// LastStudied and Known are nil until the card has been reviewed once.
	DueDate     *time.Time `json:"due_date"`
	LastStudied *time.Time `json:"last_studied"`
	Known       *bool      `json:"known"`
}

// Studied reports whether the card has ever been reviewed.
func (c Card) Studied() bool {
	return c.Known != nil
}

// Deck is a named collection of cards, usually mapped to one source file.
type Deck struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SourceID  int64     `json:"source_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Progress summarizes how much of a deck has been learned.
type Progress struct {
	Known   int `json:"known"`
	Studied int `json:"studied"`
	Total   int `json:"total"`
	Percent int `json:"percent"`
}

// SessionKind distinguishes how a study session was driven.
type SessionKind string

const (
	SessionManual   SessionKind = "manual"
	SessionPomodoro SessionKind = "pomodoro"
	SessionRevision SessionKind = "revision"
)

// StudySession is one completed stretch of studying, as persisted.
type StudySession struct {
	ID        string      `json:"id"`
	DeckID    int64       `json:"deck_id"` // zero when not tied to a deck
	Kind      SessionKind `json:"kind"`
	StartedAt time.Time   `json:"started_at"`
	EndedAt   time.Time   `json:"ended_at"`
	Seconds   int         `json:"seconds"`
	Reviewed  int         `json:"reviewed"` // cards answered during the session
	Correct   int         `json:"correct"`
}

// Source is a place decks are synced from: a local directory or a git URL.
type Source struct {
	ID          int64      `json:"id"`
	Path        string     `json:"path"`
	Type        string     `json:"type"` // "local" or "git"
	LastScanned *time.Time `json:"last_scanned"`
}

// DayStats aggregates study activity for one calendar day.
type DayStats struct {
	Day      string `json:"day"` // YYYY-MM-DD
	Sessions int    `json:"sessions"`
	Seconds  int    `json:"seconds"`
	Reviewed int    `json:"reviewed"`
	Correct  int    `json:"correct"`
}
