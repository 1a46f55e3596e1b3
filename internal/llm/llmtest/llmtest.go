// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"errors"
	"sync"

	"github.com/jonathan/job-agent/internal/llm"
)

// Call records one request made to the client
type Call struct {
	Prompt string
	Tier   llm.ModelTier
	JSON   bool
}

// Response is one scripted reply
type Response struct {
	Text string
	Err  error
}

// Client replays scripted responses in order. When the script runs out it
// repeats Default, or fails if Default is empty. If Route is set it answers
// every call instead, which suits concurrent callers.
type Client struct {
	mu        sync.Mutex
	responses []Response
	Default   string
	Route     func(prompt string) (string, error)
	Calls     []Call
}

// New returns a client that answers with the given texts in order
func New(texts ...string) *Client {
	c := &Client{}
	for _, t := range texts {
		c.responses = append(c.responses, Response{Text: t})
	}
	return c
}

// Push appends a scripted response
func (c *Client) Push(text string, err error) *Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses = append(c.responses, Response{Text: text, Err: err})
	return c
}

// CallCount returns the number of requests made so far
func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}

// LastPrompt returns the most recent prompt, or "" if none
func (c *Client) LastPrompt() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Calls) == 0 {
		return ""
	}
	return c.Calls[len(c.Calls)-1].Prompt
}

func (c *Client) next(ctx context.Context, prompt string, tier llm.ModelTier, json bool) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Calls = append(c.Calls, Call{Prompt: prompt, Tier: tier, JSON: json})
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if c.Route != nil {
		return c.Route(prompt)
	}
	if len(c.responses) == 0 {
		if c.Default == "" {
			return "", errors.New("llmtest: no scripted response")
		}
		return c.Default, nil
	}
	r := c.responses[0]
	c.responses = c.responses[1:]
	return r.Text, r.Err
}

// GenerateContent implements llm.Client
func (c *Client) GenerateContent(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return c.next(ctx, prompt, tier, false)
}

// GenerateJSON implements llm.Client
func (c *Client) GenerateJSON(ctx context.Context, prompt string, tier llm.ModelTier) (string, error) {
	return c.next(ctx, prompt, tier, true)
}

// GetModel implements llm.Client
func (c *Client) GetModel(tier llm.ModelTier) string {
	return "scripted-" + string(tier)
}

// Close implements llm.Client
func (c *Client) Close() error {
	return nil
}

var _ llm.Client = (*Client)(nil)
