package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/config"
	"github.com/jonathan/job-agent/internal/fetch"
	"github.com/jonathan/job-agent/internal/llm"
	"github.com/jonathan/job-agent/internal/rendering"
	"github.com/jonathan/job-agent/internal/search"
	"github.com/jonathan/job-agent/internal/server"
	"github.com/jonathan/job-agent/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing saved jobs, search, profile, AI generation and mock interview endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on; overrides PORT")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}

	if cfg.LLMKey() == "" {
		if cfg.LLMProvider == config.ProviderGemini {
			return fmt.Errorf("GEMINI_API_KEY environment variable is required")
		}
		return fmt.Errorf("LLM_API_KEY environment variable is required")
	}

	ctx := context.Background()
	trk, store, err := openTracker(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.LLMKey())
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	defer client.Close()

	provider, err := search.NewProvider(searchProviderConfig(cfg))
	if err != nil {
		return err
	}

	srvCfg, err := serverConfig(cfg)
	if err != nil {
		return err
	}

	srv, err := server.New(srvCfg, server.Deps{
		Tracker:   trk,
		Search:    search.NewService(provider, trk.Index()),
		Assistant: assistant.New(client, assistant.WithTimeout(cfg.AITimeout)),
		Fetcher:   fetch.NewCachedFetcher(fetch.DefaultOptions(), cfg.FetchBrowser),
		Renderer:  rendering.NewPDFRenderer(),
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	log.Printf("[serve] llm=%s search=%s database=%s", cfg.LLMProvider, provider.Name(), redactURL(cfg.DatabaseURL))
	return srv.Start()
}

// serverConfig builds rate limiting and optional owner authentication
func serverConfig(cfg *config.Config) (server.Config, error) {
	out := server.Config{
		Port:        cfg.Port,
		CORSOrigins: cfg.CORSOrigins,
	}
	if cfg.RateLimitEnabled {
		out.RateLimit = ratelimit.LoadConfig(true)
	}
	if !cfg.AuthEnabled() {
		return out, nil
	}

	jwtCfg, err := cfg.JWT()
	if err != nil {
		return out, err
	}
	passwords, err := config.NewPasswordConfig()
	if err != nil {
		return out, err
	}
	hash, err := passwords.OwnerHash(cfg)
	if err != nil {
		return out, err
	}
	out.Auth = &server.AuthConfig{JWT: jwtCfg, Passwords: passwords, OwnerHash: hash}
	return out, nil
}
