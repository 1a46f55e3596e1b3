package main

import (
	"context"
	"fmt"

	"github.com/jonathan/job-agent/internal/config"
	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/llm"
	"github.com/jonathan/job-agent/internal/search"
	"github.com/jonathan/job-agent/internal/tracker"
)

// loadConfig reads the environment and --config file, applies --db and
// validates the result.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if databaseURL != "" {
		cfg.DatabaseURL = databaseURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// openTracker opens the store and warms the saved-URL index. The caller
// closes the returned store.
func openTracker(ctx context.Context, cfg *config.Config) (*tracker.Service, db.Store, error) {
	store, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	svc := tracker.NewService(store)
	if err := svc.Reload(ctx); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("failed to load saved jobs: %w", err)
	}
	return svc, store, nil
}

// llmConfig maps application config onto the provider's model config
func llmConfig(cfg *config.Config) *llm.Config {
	var out *llm.Config
	switch cfg.LLMProvider {
	case config.ProviderOpenAI:
		out = llm.DefaultOpenAIConfig()
		out.BaseURL = cfg.LLMAPIBase
		out.FallbackKeys = cfg.LLMKeyFallback
	default:
		out = llm.DefaultGeminiConfig()
	}
	out.Temperature = cfg.LLMTemperature
	if cfg.LLMMaxTokens > 0 {
		out.MaxTokens = cfg.LLMMaxTokens
	}
	if cfg.LLMModel != "" {
		out = out.WithAllModels(cfg.LLMModel)
	}
	return out
}

func searchProviderConfig(cfg *config.Config) search.ProviderConfig {
	return search.ProviderConfig{
		Name: cfg.SearchProvider,
		Adzuna: search.AdzunaConfig{
			AppID:             cfg.AdzunaAppID,
			AppKey:            cfg.AdzunaAppKey,
			Country:           cfg.AdzunaCountry,
			ResultsPerPage:    cfg.SearchResults,
			RequestsPerSecond: cfg.SearchRPS,
		},
		GreenhouseBoards: cfg.GreenhouseBoards,
	}
}
