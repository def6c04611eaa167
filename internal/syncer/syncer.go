// Package syncer reconciles deck sources with storage. Each source (a local
// directory or a mirrored git repository) is walked for deck files; new
// cards are inserted with fresh scheduling records, cards whose content
// disappeared from the source are deleted, and cards that still exist keep
// the schedule they have earned.
package syncer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/studykit/studykit/internal/cardid"
	"github.com/studykit/studykit/internal/domain"
	"github.com/studykit/studykit/internal/gitsource"
	"github.com/studykit/studykit/internal/parser"
	"github.com/studykit/studykit/internal/srs"
	"github.com/studykit/studykit/internal/storage"
)

// IsGitPath reports whether a source path looks like a git remote rather
// than a local directory.
func IsGitPath(path string) bool {
	return strings.HasSuffix(path, ".git") ||
		strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "http://")
}

// Run reconciles every registered source. Git sources are cloned or pulled
// under reposDir first. Failures on one source are logged and do not stop
// the others.
func Run(ctx context.Context, db *storage.DB, reposDir string) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return fmt.Errorf("list sources: %w", err)
	}
	if len(sources) == 0 {
		slog.Info("no sources configured; add one with `studykit source add`")
		return nil
	}

	if err := os.MkdirAll(reposDir, 0o755); err != nil {
		return fmt.Errorf("create repos dir: %w", err)
	}

	for _, src := range sources {
		slog.Info("syncing source", "id", src.ID, "type", src.Type, "path", src.Path)

		dir := src.Path
		if src.Type == "git" {
			local, err := gitURLToLocalPath(reposDir, src.Path)
			if err != nil {
				slog.Error("bad git source path", "url", src.Path, "error", err)
				continue
			}
			if err := gitsource.Sync(ctx, src.Path, local); err != nil {
				slog.Error("git sync failed", "url", src.Path, "error", err)
				continue
			}
			dir = local
		}

		if err := reconcile(ctx, db, src, dir); err != nil {
			slog.Error("reconcile failed", "path", src.Path, "error", err)
		}
	}
	return nil
}

// reconcile walks one source directory, mirroring its deck files into
// storage.
func reconcile(ctx context.Context, db *storage.DB, src domain.Source, dir string) error {
	today := time.Now()
	found := make(map[string]bool)
	var inserted, parsed int

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		fileDeck, err := parser.ParseFile(path)
		if err != nil {
			slog.Warn("skipping unreadable deck file", "path", path, "error", err)
			return nil
		}
		if len(fileDeck.Cards) == 0 {
			return nil
		}

		deck, err := db.EnsureDeck(ctx, src.ID, fileDeck.Name)
		if err != nil {
			return err
		}

		for _, pc := range fileDeck.Cards {
			parsed++
			id := cardid.Hash(pc.Front, pc.Back)
			found[id] = true

			existing, err := db.FindCard(ctx, id)
			if err != nil {
				return err
			}
			if existing != nil {
				continue
			}

			due := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
			card := srs.Hydrate(domain.Card{
				ID:      id,
				DeckID:  deck.ID,
				Front:   pc.Front,
				Back:    pc.Back,
				DueDate: &due,
			})
			if err := db.InsertCard(ctx, card); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("walk %s: %w", dir, walkErr)
	}

	orphaned, err := deleteOrphans(ctx, db, src, found)
	if err != nil {
		return err
	}

	if err := db.TouchSource(ctx, src.ID, time.Now()); err != nil {
		slog.Warn("failed to stamp source", "source_id", src.ID, "error", err)
	}

	slog.Info("reconciliation complete",
		"path", src.Path,
		"parsed", parsed,
		"inserted", inserted,
		"orphans_deleted", orphaned,
	)
	return nil
}

// deleteOrphans removes cards that no longer appear in the source files.
// Their scheduling history goes with them; an edited card is a new card.
func deleteOrphans(ctx context.Context, db *storage.DB, src domain.Source, found map[string]bool) (int, error) {
	decks, err := db.ListDecks(ctx)
	if err != nil {
		return 0, err
	}

	var deleted int
	for _, deck := range decks {
		if deck.SourceID != src.ID {
			continue
		}
		cards, err := db.ListCards(ctx, deck.ID)
		if err != nil {
			return deleted, err
		}
		for _, c := range cards {
			if found[c.ID] {
				continue
			}
			slog.Info("deleting orphaned card", "id", c.ID, "deck", deck.Name)
			if err := db.DeleteCard(ctx, c.ID); err != nil {
				return deleted, err
			}
			deleted++
		}
	}
	return deleted, nil
}

// gitURLToLocalPath maps a git remote to a checkout path under baseDir,
// handling both https and scp-style ssh remotes.
func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsed, err := url.Parse(repoURL)
	if err == nil && (parsed.Scheme == "https" || parsed.Scheme == "http") {
		return filepath.Join(baseDir, parsed.Host, strings.TrimSuffix(parsed.Path, ".git")), nil
	}

	// git@host:user/repo.git
	if at := strings.Index(repoURL, "@"); at >= 0 {
		if colon := strings.Index(repoURL, ":"); colon > at {
			host := repoURL[at+1 : colon]
			repoPath := strings.TrimSuffix(repoURL[colon+1:], ".git")
			return filepath.Join(baseDir, host, repoPath), nil
		}
	}
	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}
