// Package main provides the entry point for the job agent CLI and HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	databaseURL string
)

var rootCmd = &cobra.Command{
	Use:   "job_agent",
	Short: "Personal job-search assistant",
	Long: "Job agent searches job boards, tracks saved applications on a five-column board, " +
		"and drafts fit analyses, cover letters, outreach emails, tailored CVs and mock interviews.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON config file overlaid on the environment")
	rootCmd.PersistentFlags().StringVar(&databaseURL, "db", "", "Database URL (sqlite://path or postgres://...); overrides DATABASE_URL")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
