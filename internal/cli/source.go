package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/studykit/studykit/internal/syncer"
)

func init() {
	sourceCmd := &cobra.Command{
		Use:   "source",
		Short: "Manage deck sources",
	}

	addCmd := &cobra.Command{
		Use:   "add <path-or-git-url>",
		Short: "Register a local directory or git repository as a deck source",
		Args:  cobra.ExactArgs(1),
		Run:   runSourceAdd,
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered sources",
		Run:   runSourceList,
	}
	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Remove a source and its decks",
		Args:  cobra.ExactArgs(1),
		Run:   runSourceRm,
	}

	sourceCmd.AddCommand(addCmd, listCmd, rmCmd)
	RootCmd.AddCommand(sourceCmd)
}

func runSourceAdd(cmd *cobra.Command, args []string) {
	db, err := openDB()
	if err != nil {
		exitErr("open database", err)
	}
	defer db.Close()
	ctx := cmd.Context()

	path := args[0]
	typ := "local"
	if syncer.IsGitPath(path) {
		typ = "git"
	} else {
		abs, err := filepath.Abs(path)
		if err != nil {
			exitErr("resolve path", err)
		}
		path = abs
	}

	existing, err := db.FindSourceByPath(ctx, path)
	if err != nil {
		exitErr("check source", err)
	}
	if existing != nil {
		fmt.Printf("source already registered with id %d\n", existing.ID)
		return
	}

	id, err := db.InsertSource(ctx, path, typ)
	if err != nil {
		exitErr("add source", err)
	}
	fmt.Printf("added %s source %d: %s\n", typ, id, path)
}

func runSourceList(cmd *cobra.Command, _ []string) {
	db, err := openDB()
	if err != nil {
		exitErr("open database", err)
	}
	defer db.Close()

	sources, err := db.ListSources(cmd.Context())
	if err != nil {
		exitErr("list sources", err)
	}
	b, _ := json.MarshalIndent(sources, "", "  ")
	fmt.Println(string(b))
}

func runSourceRm(cmd *cobra.Command, args []string) {
	db, err := openDB()
	if err != nil {
		exitErr("open database", err)
	}
	defer db.Close()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		exitErr("parse id", err)
	}
	if err := db.DeleteSource(cmd.Context(), id); err != nil {
		exitErr("remove source", err)
	}
	fmt.Printf("removed source %d\n", id)
}
