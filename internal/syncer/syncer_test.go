package syncer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studykit/studykit/internal/storage"
)

func writeDeck(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func setup(t *testing.T) (*storage.DB, string) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, t.TempDir()
}

func TestRunInsertsNewCards(t *testing.T) {
	db, dir := setup(t)
	ctx := context.Background()
	writeDeck(t, dir, "caps.md", "# Deck: Capitals\n\nQ: France?\nA: Paris\n---\nQ: Japan?\nA: Tokyo\n")

	_, err := db.InsertSource(ctx, dir, "local")
	require.NoError(t, err)
	require.NoError(t, Run(ctx, db, t.TempDir()))

	decks, err := db.ListDecks(ctx)
	require.NoError(t, err)
	require.Len(t, decks, 1)
	assert.Equal(t, "Capitals", decks[0].Name)

	cards, err := db.ListCards(ctx, decks[0].ID)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	for _, c := range cards {
		assert.Equal(t, 1, c.Interval)
		assert.NotNil(t, c.DueDate, "new cards are due the day they are authored")
		assert.Nil(t, c.Known)
	}
}

func TestRunPreservesScheduleOnResync(t *testing.T) {
	db, dir := setup(t)
	ctx := context.Background()
	writeDeck(t, dir, "deck.md", "Q: q1\nA: a1\n")

	_, err := db.InsertSource(ctx, dir, "local")
	require.NoError(t, err)
	require.NoError(t, Run(ctx, db, t.TempDir()))

	decks, err := db.ListDecks(ctx)
	require.NoError(t, err)
	cards, err := db.ListCards(ctx, decks[0].ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)

	// Simulate a review, then re-sync the unchanged file.
	reviewed := cards[0]
	reviewed.Repetitions = 3
	reviewed.Interval = 16
	require.NoError(t, db.UpdateCardSchedule(ctx, reviewed))
	require.NoError(t, Run(ctx, db, t.TempDir()))

	after, err := db.ListCards(ctx, decks[0].ID)
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, 16, after[0].Interval, "re-sync must not reset earned schedule")
}

func TestRunDeletesOrphans(t *testing.T) {
	db, dir := setup(t)
	ctx := context.Background()
	writeDeck(t, dir, "deck.md", "Q: keep\nA: k\n---\nQ: drop\nA: d\n")

	_, err := db.InsertSource(ctx, dir, "local")
	require.NoError(t, err)
	require.NoError(t, Run(ctx, db, t.TempDir()))

	writeDeck(t, dir, "deck.md", "Q: keep\nA: k\n")
	require.NoError(t, Run(ctx, db, t.TempDir()))

	decks, err := db.ListDecks(ctx)
	require.NoError(t, err)
	cards, err := db.ListCards(ctx, decks[0].ID)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "keep", cards[0].Front)
}

func TestIsGitPath(t *testing.T) {
	assert.True(t, IsGitPath("https://example.com/decks.git"))
	assert.True(t, IsGitPath("git@example.com:me/decks.git"))
	assert.True(t, IsGitPath("https://example.com/decks"))
	assert.False(t, IsGitPath("/home/me/decks"))
	assert.False(t, IsGitPath("decks"))
}

func TestGitURLToLocalPath(t *testing.T) {
	got, err := gitURLToLocalPath("repos", "https://example.com/me/decks.git")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("repos", "example.com", "me", "decks"), got)

	got, err = gitURLToLocalPath("repos", "git@example.com:me/decks.git")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("repos", "example.com", "me", "decks"), got)

	_, err = gitURLToLocalPath("repos", "::::")
	assert.Error(t, err)
}
