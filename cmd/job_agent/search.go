package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-agent/internal/observability"
	"github.com/jonathan/job-agent/internal/search"
)

var searchLocation string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the configured job board",
	Long:  "Search the configured provider. Results already saved are starred and, when the profile lists skills, ranked by skill overlap.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchLocation, "location", "l", "", "Location filter")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
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

	provider, err := search.NewProvider(searchProviderConfig(cfg))
	if err != nil {
		return err
	}
	profile, err := trk.Profile(ctx)
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	results, err := search.NewService(provider, trk.Index()).Search(ctx, query, searchLocation, profile.SkillList())
	if err != nil {
		return err
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintSearchResults(query, results)
	return nil
}
