// Package storage persists decks, cards, sources and study sessions in
// SQLite. It is the only component that touches the database; the scheduler
// and the timers receive and return plain domain values.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // registers the sqlite driver

	"github.com/studykit/studykit/internal/domain"
	"github.com/studykit/studykit/internal/srs"
)

// DB wraps the SQL connection.
type DB struct {
	conn *sql.DB
}

// Open creates the database file (and its directory) if needed and applies
// the schema.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// --- sources ---

// InsertSource registers a new source path and returns its ID.
func (db *DB) InsertSource(ctx context.Context, path, typ string) (int64, error) {
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO sources (path, type) VALUES (?, ?)
	`, path, typ)
	if err != nil {
		return 0, fmt.Errorf("insert source %s: %w", path, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("source insert id: %w", err)
	}
	return id, nil
}

// FindSourceByPath returns the source with the given path, or nil.
func (db *DB) FindSourceByPath(ctx context.Context, path string) (*domain.Source, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, path, type, last_scanned FROM sources WHERE path = ?
	`, path)
	s, err := scanSource(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find source %s: %w", path, err)
	}
	return s, nil
}

// ListSources returns every registered source.
func (db *DB) ListSources(ctx context.Context) ([]domain.Source, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, path, type, last_scanned FROM sources ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []domain.Source
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan source: %w", err)
		}
		sources = append(sources, *s)
	}
	return sources, rows.Err()
}

// DeleteSource removes a source; its decks and cards cascade.
func (db *DB) DeleteSource(ctx context.Context, id int64) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM sources WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete source %d: %w", id, err)
	}
	return nil
}

// TouchSource stamps the source's last_scanned time.
func (db *DB) TouchSource(ctx context.Context, id int64, at time.Time) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE sources SET last_scanned = ? WHERE id = ?
	`, at.UTC().Format(time.RFC3339), id)
	if err != nil {
		return fmt.Errorf("touch source %d: %w", id, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(r rowScanner) (*domain.Source, error) {
	var s domain.Source
	var scanned sql.NullString
	if err := r.Scan(&s.ID, &s.Path, &s.Type, &scanned); err != nil {
		return nil, err
	}
	if scanned.Valid {
		if t, err := time.Parse(time.RFC3339, scanned.String); err == nil {
			s.LastScanned = &t
		}
	}
	return &s, nil
}

// --- decks ---

// EnsureDeck finds the deck by source and name, creating it if missing.
func (db *DB) EnsureDeck(ctx context.Context, sourceID int64, name string) (domain.Deck, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, name, source_id, created_at FROM decks
		WHERE source_id = ? AND name = ?
	`, sourceID, name)
	deck, err := scanDeck(row)
	if err == nil {
		return deck, nil
	}
	if err != sql.ErrNoRows {
		return domain.Deck{}, fmt.Errorf("find deck %s: %w", name, err)
	}

	now := time.Now().UTC()
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO decks (name, source_id, created_at) VALUES (?, ?, ?)
	`, name, sourceID, now.Format(time.RFC3339))
	if err != nil {
		return domain.Deck{}, fmt.Errorf("insert deck %s: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Deck{}, fmt.Errorf("deck insert id: %w", err)
	}
	return domain.Deck{ID: id, Name: name, SourceID: sourceID, CreatedAt: now}, nil
}

// FindDeck returns the deck with the given ID, or nil.
func (db *DB) FindDeck(ctx context.Context, id int64) (*domain.Deck, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT id, name, source_id, created_at FROM decks WHERE id = ?
	`, id)
	deck, err := scanDeck(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find deck %d: %w", id, err)
	}
	return &deck, nil
}

// ListDecks returns every deck.
func (db *DB) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, source_id, created_at FROM decks ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []domain.Deck
	for rows.Next() {
		deck, err := scanDeck(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		decks = append(decks, deck)
	}
	return decks, rows.Err()
}

func scanDeck(r rowScanner) (domain.Deck, error) {
	var d domain.Deck
	var sourceID sql.NullInt64
	var created string
	if err := r.Scan(&d.ID, &d.Name, &sourceID, &created); err != nil {
		return domain.Deck{}, err
	}
	d.SourceID = sourceID.Int64
	if t, err := time.Parse(time.RFC3339, created); err == nil {
		d.CreatedAt = t
	}
	return d, nil
}

// --- cards ---

const cardColumns = `id, deck_id, front, back, interval, repetitions, ease_factor, due_date, last_studied, known`

// InsertCard stores a new card with its scheduling record.
func (db *DB) InsertCard(ctx context.Context, c domain.Card) error {
	c = srs.Hydrate(c)
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.DeckID, c.Front, c.Back,
		c.Interval, c.Repetitions, c.EaseFactor,
		dateOrNil(c.DueDate), dateOrNil(c.LastStudied), boolOrNil(c.Known))
	if err != nil {
		return fmt.Errorf("insert card %s: %w", c.ID, err)
	}
	return nil
}

// FindCard returns the card with the given ID, or nil. The record is
// hydrated, so legacy rows with missing numeric fields come back with
// scheduling defaults.
func (db *DB) FindCard(ctx context.Context, id string) (*domain.Card, error) {
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+cardColumns+` FROM cards WHERE id = ?
	`, id)
	c, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find card %s: %w", id, err)
	}
	return &c, nil
}

// ListCards returns a deck's cards, hydrated, in insertion order.
func (db *DB) ListCards(ctx context.Context, deckID int64) ([]domain.Card, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT `+cardColumns+` FROM cards WHERE deck_id = ? ORDER BY rowid
	`, deckID)
	if err != nil {
		return nil, fmt.Errorf("list cards for deck %d: %w", deckID, err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// UpdateCardSchedule writes back a card's scheduling record after a review.
func (db *DB) UpdateCardSchedule(ctx context.Context, c domain.Card) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE cards
		SET interval = ?, repetitions = ?, ease_factor = ?,
		    due_date = ?, last_studied = ?, known = ?
		WHERE id = ?
	`, c.Interval, c.Repetitions, c.EaseFactor,
		dateOrNil(c.DueDate), dateOrNil(c.LastStudied), boolOrNil(c.Known), c.ID)
	if err != nil {
		return fmt.Errorf("update card %s: %w", c.ID, err)
	}
	return nil
}

// DeleteCard removes a card.
func (db *DB) DeleteCard(ctx context.Context, id string) error {
	if _, err := db.conn.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete card %s: %w", id, err)
	}
	return nil
}

func scanCard(r rowScanner) (domain.Card, error) {
	var c domain.Card
	var due, studied sql.NullString
	var known sql.NullBool
	err := r.Scan(&c.ID, &c.DeckID, &c.Front, &c.Back,
		&c.Interval, &c.Repetitions, &c.EaseFactor, &due, &studied, &known)
	if err != nil {
		return domain.Card{}, err
	}
	if due.Valid {
		if t, err := time.Parse(domain.DateLayout, due.String); err == nil {
			c.DueDate = &t
		}
	}
	if studied.Valid {
		if t, err := time.Parse(domain.DateLayout, studied.String); err == nil {
			c.LastStudied = &t
		}
	}
	if known.Valid {
		v := known.Bool
		c.Known = &v
	}
	return srs.Hydrate(c), nil
}

func dateOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(domain.DateLayout)
}

func boolOrNil(b *bool) any {
	if b == nil {
		return nil
	}
	return *b
}

// --- study sessions ---

// InsertSession records a completed study stretch.
func (db *DB) InsertSession(ctx context.Context, s domain.StudySession) error {
	var deckID any
	if s.DeckID != 0 {
		deckID = s.DeckID
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO study_sessions (id, deck_id, kind, started_at, ended_at, seconds, reviewed, correct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.ID, deckID, string(s.Kind),
		s.StartedAt.UTC().Format(time.RFC3339), s.EndedAt.UTC().Format(time.RFC3339),
		s.Seconds, s.Reviewed, s.Correct)
	if err != nil {
		return fmt.Errorf("insert session %s: %w", s.ID, err)
	}
	return nil
}

// DailyStats aggregates sessions per calendar day over the last n days,
// most recent first.
func (db *DB) DailyStats(ctx context.Context, days int) ([]domain.DayStats, error) {
	since := time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
	rows, err := db.conn.QueryContext(ctx, `
		SELECT substr(started_at, 1, 10) AS day,
		       COUNT(*), SUM(seconds), SUM(reviewed), SUM(correct)
		FROM study_sessions
		WHERE started_at >= ?
		GROUP BY day
		ORDER BY day DESC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("daily stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.DayStats
	for rows.Next() {
		var d domain.DayStats
		if err := rows.Scan(&d.Day, &d.Sessions, &d.Seconds, &d.Reviewed, &d.Correct); err != nil {
			return nil, fmt.Errorf("scan day stats: %w", err)
		}
		stats = append(stats, d)
	}
	return stats, rows.Err()
}
