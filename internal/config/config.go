// Package config provides configuration loading and validation for the
// job agent. Values come from the environment (after .env loading in main),
// optionally overlaid by a JSON config file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go-kit/env"
)

// Config represents the application configuration.
type Config struct {
	// Server
	Port             int      `json:"port,omitempty"`
	DatabaseURL      string   `json:"database_url,omitempty"`
	CORSOrigins      []string `json:"cors_origins,omitempty"`
	RateLimitEnabled bool     `json:"rate_limit_enabled,omitempty"`

	// AI provider
	LLMProvider    string        `json:"llm_provider,omitempty"` // gemini | openai
	GeminiAPIKey   string        `json:"gemini_api_key,omitempty"`
	LLMAPIBase     string        `json:"llm_api_base,omitempty"`
	LLMAPIKey      string        `json:"llm_api_key,omitempty"`
	LLMKeyFallback []string      `json:"llm_api_key_fallbacks,omitempty"`
	LLMModel       string        `json:"llm_model,omitempty"` // overrides every tier when set
	LLMTemperature float64       `json:"llm_temperature,omitempty"`
	LLMMaxTokens   int           `json:"llm_max_tokens,omitempty"`
	AITimeout      time.Duration `json:"-"`

	// Job search
	SearchProvider   string   `json:"search_provider,omitempty"` // adzuna | greenhouse | sample
	AdzunaAppID      string   `json:"adzuna_app_id,omitempty"`
	AdzunaAppKey     string   `json:"adzuna_app_key,omitempty"`
	AdzunaCountry    string   `json:"adzuna_country,omitempty"`
	SearchResults    int      `json:"search_results,omitempty"`
	SearchRPS        float64  `json:"search_rps,omitempty"`
	GreenhouseBoards []string `json:"greenhouse_boards,omitempty"`
	FetchBrowser     bool     `json:"fetch_browser,omitempty"`

	// Owner authentication; disabled when JWTSecret is empty
	JWTSecret         string `json:"-"`
	JWTExpiryHours    int    `json:"jwt_expiry_hours,omitempty"`
	OwnerPassword     string `json:"-"`
	OwnerPasswordHash string `json:"-"`
}

// Provider and search backend names
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"

	SearchAdzuna     = "adzuna"
	SearchGreenhouse = "greenhouse"
	SearchSample     = "sample"
)

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() *Config {
	return &Config{
		Port:             env.Int("PORT", 8080),
		DatabaseURL:      env.Str("DATABASE_URL", "sqlite://job-agent.db"),
		CORSOrigins:      list("CORS_ORIGINS"),
		RateLimitEnabled: !boolean("RATE_LIMIT_DISABLED", false),

		LLMProvider:    strings.ToLower(env.Str("LLM_PROVIDER", ProviderGemini)),
		GeminiAPIKey:   env.Str("GEMINI_API_KEY", ""),
		LLMAPIBase:     env.Str("LLM_API_BASE", "https://api.openai.com/v1"),
		LLMAPIKey:      env.Str("LLM_API_KEY", ""),
		LLMKeyFallback: list("LLM_API_KEY_FALLBACKS"),
		LLMModel:       env.Str("LLM_MODEL", ""),
		LLMTemperature: env.Float("LLM_TEMPERATURE", 0.7),
		LLMMaxTokens:   env.Int("LLM_MAX_TOKENS", 4000),
		AITimeout:      env.Duration("AI_TIMEOUT", 90*time.Second),

		SearchProvider:   strings.ToLower(env.Str("SEARCH_PROVIDER", SearchAdzuna)),
		AdzunaAppID:      env.Str("ADZUNA_APP_ID", ""),
		AdzunaAppKey:     env.Str("ADZUNA_APP_KEY", ""),
		AdzunaCountry:    env.Str("ADZUNA_COUNTRY", "gb"),
		SearchResults:    env.Int("SEARCH_RESULTS", 10),
		SearchRPS:        env.Float("SEARCH_RPS", 1),
		GreenhouseBoards: list("GREENHOUSE_BOARDS"),
		FetchBrowser:     boolean("FETCH_BROWSER", true),

		JWTSecret:         env.Str("JWT_SECRET", ""),
		JWTExpiryHours:    env.Int("JWT_EXPIRY_HOURS", 24),
		OwnerPassword:     env.Str("OWNER_PASSWORD", ""),
		OwnerPasswordHash: env.Str("OWNER_PASSWORD_HASH", ""),
	}
}

// list reads a comma-separated variable, dropping empty entries.
func list(key string) []string {
	var out []string
	for _, item := range env.List(key, "") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func boolean(key string, def bool) bool {
	v, err := strconv.ParseBool(env.Str(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return v
}

// LoadConfig reads environment defaults and overlays the JSON file at path.
// An empty path returns the environment configuration unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := FromEnv()
	if path == "" {
		return cfg, nil
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var file Config
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	merged := file.MergeWithDefaults(*cfg)
	return &merged, nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Booleans and secrets always come from defaults since a file
// cannot distinguish false from unset and never carries secrets.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := defaults

	if c.Port != 0 {
		result.Port = c.Port
	}
	if c.DatabaseURL != "" {
		result.DatabaseURL = c.DatabaseURL
	}
	if len(c.CORSOrigins) > 0 {
		result.CORSOrigins = c.CORSOrigins
	}
	if c.LLMProvider != "" {
		result.LLMProvider = strings.ToLower(c.LLMProvider)
	}
	if c.GeminiAPIKey != "" {
		result.GeminiAPIKey = c.GeminiAPIKey
	}
	if c.LLMAPIBase != "" {
		result.LLMAPIBase = c.LLMAPIBase
	}
	if c.LLMAPIKey != "" {
		result.LLMAPIKey = c.LLMAPIKey
	}
	if len(c.LLMKeyFallback) > 0 {
		result.LLMKeyFallback = c.LLMKeyFallback
	}
	if c.LLMModel != "" {
		result.LLMModel = c.LLMModel
	}
	if c.LLMTemperature != 0 {
		result.LLMTemperature = c.LLMTemperature
	}
	if c.LLMMaxTokens != 0 {
		result.LLMMaxTokens = c.LLMMaxTokens
	}
	if c.SearchProvider != "" {
		result.SearchProvider = strings.ToLower(c.SearchProvider)
	}
	if c.AdzunaAppID != "" {
		result.AdzunaAppID = c.AdzunaAppID
	}
	if c.AdzunaAppKey != "" {
		result.AdzunaAppKey = c.AdzunaAppKey
	}
	if c.AdzunaCountry != "" {
		result.AdzunaCountry = c.AdzunaCountry
	}
	if c.SearchResults != 0 {
		result.SearchResults = c.SearchResults
	}
	if c.SearchRPS != 0 {
		result.SearchRPS = c.SearchRPS
	}
	if len(c.GreenhouseBoards) > 0 {
		result.GreenhouseBoards = c.GreenhouseBoards
	}
	if c.JWTExpiryHours != 0 {
		result.JWTExpiryHours = c.JWTExpiryHours
	}

	return result
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535, got %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required")
	}

	switch c.LLMProvider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("config error: unknown llm_provider %q (want gemini or openai)", c.LLMProvider)
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("config error: 'llm_temperature' must be between 0 and 2")
	}
	if c.LLMMaxTokens < 0 {
		return fmt.Errorf("config error: 'llm_max_tokens' must be non-negative")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("config error: AI_TIMEOUT must be positive")
	}

	switch c.SearchProvider {
	case SearchAdzuna, SearchGreenhouse, SearchSample:
	default:
		return fmt.Errorf("config error: unknown search_provider %q", c.SearchProvider)
	}
	if c.SearchResults < 1 || c.SearchResults > 50 {
		return fmt.Errorf("config error: 'search_results' must be between 1 and 50")
	}
	if c.SearchRPS < 0 {
		return fmt.Errorf("config error: 'search_rps' must be non-negative")
	}

	if c.AuthEnabled() && c.OwnerPassword == "" && c.OwnerPasswordHash == "" {
		return fmt.Errorf("config error: JWT_SECRET is set but neither OWNER_PASSWORD nor OWNER_PASSWORD_HASH is")
	}
	return nil
}

// AuthEnabled reports whether owner authentication guards the API.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// LLMKey returns the API key for the configured provider.
func (c *Config) LLMKey() string {
	if c.LLMProvider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.LLMAPIKey
}
