// Package assistant wraps the AI completion provider with the job-search tasks:
// gap analysis, cover letters, cold emails, gap-fill questions, tailored CVs
// and interview questions and scoring. Every task is one request/response.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/llm"
	"github.com/jonathan/job-agent/internal/prompts"
	"github.com/jonathan/job-agent/internal/schemas"
)

// DefaultTimeout bounds a single provider call
const DefaultTimeout = 90 * time.Second

const (
	assistantPrompts = "assistant.json"
	interviewPrompts = "interview.json"
)

// Assistant is the AI task façade. It is safe for concurrent use.
type Assistant struct {
	client  llm.Client
	timeout time.Duration
}

// Option configures an Assistant
type Option func(*Assistant)

// WithTimeout sets the per-call timeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(a *Assistant) { a.timeout = d }
}

// New creates an Assistant over client
func New(client llm.Client, opts ...Option) *Assistant {
	a := &Assistant{client: client, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// generate renders a prompt and sends it to the provider. Provider errors are
// classified; an empty response is an UpstreamError.
func (a *Assistant) generate(ctx context.Context, op, file, key string, data map[string]string, tier llm.ModelTier, asJSON bool) (string, error) {
	prompt, err := prompts.Render(file, key, data)
	if err != nil {
		return "", fmt.Errorf("failed to build %s prompt: %w", op, err)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	var text string
	if asJSON {
		text, err = a.client.GenerateJSON(ctx, prompt, tier)
	} else {
		text, err = a.client.GenerateContent(ctx, prompt, tier)
	}
	if err != nil {
		log.Printf("[assistant] %s failed after %v: %v", op, time.Since(start).Round(time.Millisecond), err)
		return "", classify(op, err)
	}
	if strings.TrimSpace(text) == "" {
		return "", &UpstreamError{Op: op, Cause: errors.New("empty response")}
	}
	return text, nil
}

// decodeStructured validates raw provider output against the named schema
// and decodes it into out. It reports false when the output is not usable.
func decodeStructured(raw, schema string, out any) bool {
	cleaned := llm.CleanJSONBlock(raw)
	if err := schemas.Validate(schema, cleaned); err != nil {
		return false
	}
	return json.Unmarshal([]byte(cleaned), out) == nil
}

func requireResume(profile *db.Profile) error {
	if !profile.HasResume() {
		return &ValidationError{Field: "resume", Message: "no resume uploaded, upload your resume first"}
	}
	return nil
}

// jobText is the description the prompts see for a saved posting
func jobText(job db.JobPosting) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\nCompany: %s\n", job.Title, job.Company)
	if job.Location != "" {
		fmt.Fprintf(&sb, "Location: %s\n", job.Location)
	}
	if job.Snippet != "" {
		sb.WriteString("\n")
		sb.WriteString(job.Snippet)
	}
	return sb.String()
}

func jobFields(job db.JobPosting) map[string]string {
	return map[string]string{
		"Title":   job.Title,
		"Company": job.Company,
		"JobText": jobText(job),
	}
}

func clampScore(v float64) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	}
	return int(v + 0.5)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
