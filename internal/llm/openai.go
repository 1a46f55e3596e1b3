package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	kitllm "github.com/anatolykoptev/go-kit/llm"
)

const jsonSystemPrompt = "You are a JSON API. Respond with a single valid JSON object and nothing else."

type completeFunc func(ctx context.Context, system, prompt string) (string, error)

// OpenAIClient implements Client for OpenAI-compatible chat completion APIs
// (OpenAI, Gemini's OpenAI endpoint, local gateways).
type OpenAIClient struct {
	config   *Config
	complete map[string]completeFunc // keyed by model name
}

// NewOpenAIClient creates a client with one underlying connection per distinct model
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required for provider %s", config.Provider)
	}

	httpClient := &http.Client{Timeout: 120 * time.Second}
	c := &OpenAIClient{config: config, complete: make(map[string]completeFunc)}
	for _, model := range config.Models {
		if _, ok := c.complete[model]; ok || model == "" {
			continue
		}
		kc := kitllm.NewClient(config.BaseURL, apiKey, model,
			kitllm.WithFallbackKeys(config.FallbackKeys),
			kitllm.WithMaxTokens(config.MaxTokens),
			kitllm.WithTemperature(config.Temperature),
			kitllm.WithHTTPClient(httpClient),
		)
		c.complete[model] = func(ctx context.Context, system, prompt string) (string, error) {
			return kc.Complete(ctx, system, prompt)
		}
	}
	return c, nil
}

func (c *OpenAIClient) call(ctx context.Context, system, prompt string, tier ModelTier) (string, error) {
	model := c.config.GetModel(tier)
	complete, ok := c.complete[model]
	if !ok {
		return "", fmt.Errorf("no model configured for tier %s", tier)
	}
	text, err := complete(ctx, system, prompt)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if text == "" {
		return "", fmt.Errorf("no content in response")
	}
	return text, nil
}

// GenerateContent generates text content using the specified model tier
func (c *OpenAIClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.call(ctx, "", prompt, tier)
}

// GenerateJSON generates JSON content using the specified model tier
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	return c.call(ctx, jsonSystemPrompt, prompt, tier)
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no long-lived resources
func (c *OpenAIClient) Close() error {
	return nil
}
