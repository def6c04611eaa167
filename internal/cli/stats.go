package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var statsDays int

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show per-day study statistics",
		Run:   runStats,
	}
	cmd.Flags().IntVar(&statsDays, "days", 30, "How many days back to aggregate")
	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, _ []string) {
	db, err := openDB()
	if err != nil {
		exitErr("open database", err)
	}
	defer db.Close()

	stats, err := db.DailyStats(cmd.Context(), statsDays)
	if err != nil {
		exitErr("stats", err)
	}
	b, _ := json.MarshalIndent(stats, "", "  ")
	fmt.Println(string(b))
}
