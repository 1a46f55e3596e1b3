package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-agent/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the database schema",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Open migrates before returning
	store, err := db.Open(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	store.Close()

	fmt.Fprintf(cmd.OutOrStdout(), "Database schema is up to date (%s)\n", redactURL(cfg.DatabaseURL))
	return nil
}
