// Package cli implements the studykit commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/studykit/studykit/internal/config"
	"github.com/studykit/studykit/internal/storage"
)

var (
	cfgPath string
	cfg     config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "studykit",
	Short: "Local-first study backend: decks, spaced repetition, session timers",
	Long: "studykit syncs flashcard decks from markdown sources, schedules reviews\n" +
		"with spaced repetition, runs study timers, and serves a review API.",
	SilenceUsage: true,
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.StringVar(&cfgPath, "config", "studykit.yaml", "Config file path")

	d := config.Default()
	pf.String("db", d.DB, "SQLite database path")
	pf.String("repos", d.Repos, "Directory for git deck checkouts")
	pf.String("listen", d.Listen, "Review API listen address")
	pf.Int("focus", d.Focus, "Pomodoro focus budget in seconds")
	pf.Int("break", d.Break, "Pomodoro break budget in seconds")
	pf.Int("budget", d.Budget, "Default revision budget in seconds")

	RootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load(cfgPath, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = c
		return nil
	}
}

func openDB() (*storage.DB, error) {
	return storage.Open(cfg.DB)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
