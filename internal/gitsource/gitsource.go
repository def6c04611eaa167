// Package gitsource mirrors git-hosted deck repositories into a local
// checkout that the syncer can walk like any other directory.
package gitsource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	git "github.com/go-git/go-git/v5"
)

// Sync clones the repository if no checkout exists at localPath, otherwise
// pulls the latest changes. Already-up-to-date is not an error.
func Sync(ctx context.Context, url, localPath string) error {
	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		slog.Info("cloning deck repository", "url", url, "path", localPath)
		if _, err := git.PlainCloneContext(ctx, localPath, false, &git.CloneOptions{URL: url}); err != nil {
			return fmt.Errorf("clone %s: %w", url, err)
		}
	case err == nil:
		slog.Info("pulling deck repository", "path", localPath)
		repo, err := git.PlainOpen(localPath)
		if err != nil {
			return fmt.Errorf("open checkout %s: %w", localPath, err)
		}
		wt, err := repo.Worktree()
		if err != nil {
			return fmt.Errorf("worktree %s: %w", localPath, err)
		}
		err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin"})
		if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
			return fmt.Errorf("pull %s: %w", localPath, err)
		}
	default:
		return fmt.Errorf("stat %s: %w", localPath, err)
	}
	return nil
}
