package cli

import (
	"github.com/spf13/cobra"

	"github.com/studykit/studykit/internal/syncer"
)

func init() {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Reconcile all deck sources with the database",
		Run:   runSync,
	}
	RootCmd.AddCommand(cmd)
}

func runSync(cmd *cobra.Command, _ []string) {
	db, err := openDB()
	if err != nil {
		exitErr("open database", err)
	}
	defer db.Close()

	if err := syncer.Run(cmd.Context(), db, cfg.Repos); err != nil {
		exitErr("sync", err)
	}
}
