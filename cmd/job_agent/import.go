package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-agent/internal/observability"
	"github.com/jonathan/job-agent/internal/tracker"
)

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import saved jobs from a JSON file",
	Long: "Import a job object, an array of jobs, or {\"jobs\": [...]} from a JSON file. " +
		"Jobs are matched by URL, else by title, company and location; matches are updated.",
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	postings, err := tracker.ParseImport(data)
	if err != nil {
		return err
	}

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

	result, err := trk.Import(ctx, postings)
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintImportResult(result)
	return nil
}
