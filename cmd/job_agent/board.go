package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-agent/internal/board"
	"github.com/jonathan/job-agent/internal/observability"
)

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Print saved jobs as a five-column status board",
	RunE:  runBoard,
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

func runBoard(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()
	trk, store, err := openTracker(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	jobs, err := trk.ListAll(ctx)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintBoard(board.Project(jobs, time.Now()))
	return nil
}
