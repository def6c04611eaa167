package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studykit/studykit/internal/domain"
	"github.com/studykit/studykit/internal/srs"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func seedDeck(t *testing.T, db *DB) domain.Deck {
	t.Helper()
	ctx := context.Background()
	srcID, err := db.InsertSource(ctx, t.TempDir(), "local")
	require.NoError(t, err)
	deck, err := db.EnsureDeck(ctx, srcID, "Test Deck")
	require.NoError(t, err)
	return deck
}

func TestEnsureDeckIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	srcID, err := db.InsertSource(ctx, "/tmp/decks", "local")
	require.NoError(t, err)

	a, err := db.EnsureDeck(ctx, srcID, "Biology")
	require.NoError(t, err)
	b, err := db.EnsureDeck(ctx, srcID, "Biology")
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestCardRoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	deck := seedDeck(t, db)

	due := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	known := true
	in := domain.Card{
		ID: "abc123", DeckID: deck.ID, Front: "q", Back: "a",
		Interval: 6, Repetitions: 2, EaseFactor: 2.6,
		DueDate: &due, Known: &known,
	}
	require.NoError(t, db.InsertCard(ctx, in))

	got, err := db.FindCard(ctx, "abc123")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 6, got.Interval)
	assert.Equal(t, 2, got.Repetitions)
	assert.InDelta(t, 2.6, got.EaseFactor, 1e-9)
	require.NotNil(t, got.DueDate)
	assert.True(t, got.DueDate.Equal(due))
	require.NotNil(t, got.Known)
	assert.True(t, *got.Known)
}

func TestFindCardMissing(t *testing.T) {
	db := newTestDB(t)
	got, err := db.FindCard(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListCardsHydratesLegacyRows(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	deck := seedDeck(t, db)

	// Row written without scheduling fields, as an old app version did.
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO cards (id, deck_id, front, back, interval, repetitions, ease_factor)
		VALUES ('legacy', ?, 'q', 'a', 0, 0, 0)
	`, deck.ID)
	require.NoError(t, err)

	cards, err := db.ListCards(ctx, deck.ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, 1, cards[0].Interval)
	assert.Equal(t, srs.InitialEase, cards[0].EaseFactor)
	assert.Nil(t, cards[0].DueDate)
	assert.Nil(t, cards[0].Known)
}

func TestUpdateCardSchedule(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	deck := seedDeck(t, db)

	card := domain.Card{ID: "c1", DeckID: deck.ID, Front: "q", Back: "a"}
	require.NoError(t, db.InsertCard(ctx, card))

	updated := srs.ApplyReview(srs.Hydrate(card), true, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC))
	require.NoError(t, db.UpdateCardSchedule(ctx, updated))

	got, err := db.FindCard(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, got.Repetitions)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, "2026-04-02", got.DueDate.Format(domain.DateLayout))
}

func TestDeleteSourceCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	deck := seedDeck(t, db)
	require.NoError(t, db.InsertCard(ctx, domain.Card{ID: "c1", DeckID: deck.ID, Front: "q"}))

	require.NoError(t, db.DeleteSource(ctx, deck.SourceID))

	decks, err := db.ListDecks(ctx)
	require.NoError(t, err)
	assert.Empty(t, decks)
	card, err := db.FindCard(ctx, "c1")
	require.NoError(t, err)
	assert.Nil(t, card)
}

func TestDailyStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i, kind := range []domain.SessionKind{domain.SessionManual, domain.SessionRevision} {
		require.NoError(t, db.InsertSession(ctx, domain.StudySession{
			ID:        "s" + string(rune('1'+i)),
			Kind:      kind,
			StartedAt: now.Add(-time.Hour),
			EndedAt:   now,
			Seconds:   600,
			Reviewed:  10,
			Correct:   8,
		}))
	}

	stats, err := db.DailyStats(ctx, 7)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, 2, stats[0].Sessions)
	assert.Equal(t, 1200, stats[0].Seconds)
	assert.Equal(t, 20, stats[0].Reviewed)
	assert.Equal(t, 16, stats[0].Correct)
}
