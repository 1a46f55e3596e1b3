// Package llm provides centralized LLM configuration and client abstractions.
// Two providers are supported: Google Gemini through the genai SDK, and any
// OpenAI-compatible chat completions endpoint.
package llm

// ModelTier represents the complexity/capability level of a model
type ModelTier string

const (
	// TierLite is for short outputs: skill lists, single interview questions
	TierLite ModelTier = "lite"
	// TierStandard is for structured output: gap analysis, emails, scoring
	TierStandard ModelTier = "standard"
	// TierAdvanced is for long-form generation: cover letters, tailored CVs
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
	// ProviderOpenAI is any OpenAI-compatible chat completions API
	ProviderOpenAI Provider = "openai"
)

// Config holds the model configuration for the application
type Config struct {
	Provider     Provider
	Models       map[ModelTier]string
	Temperature  float64
	MaxTokens    int
	BaseURL      string   // OpenAI-compatible endpoint base
	FallbackKeys []string // extra API keys tried in order by the OpenAI client
}

// DefaultConfig returns the default configuration (Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: 0.7,
		MaxTokens:   4000,
	}
}

// DefaultOpenAIConfig returns the default OpenAI configuration
func DefaultOpenAIConfig() *Config {
	return &Config{
		Provider: ProviderOpenAI,
		Models: map[ModelTier]string{
			TierLite:     "gpt-4o-mini",
			TierStandard: "gpt-4o",
			TierAdvanced: "gpt-4o",
		},
		Temperature: 0.7,
		MaxTokens:   4000,
		BaseURL:     "https://api.openai.com/v1",
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return "" // No model configured
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := *c
	newConfig.Models = make(map[ModelTier]string, len(c.Models)+1)
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return &newConfig
}

// WithAllModels returns a new Config that uses model for every tier
func (c *Config) WithAllModels(model string) *Config {
	out := c
	for _, tier := range []ModelTier{TierLite, TierStandard, TierAdvanced} {
		out = out.WithModel(tier, model)
	}
	return out
}
