// Package search queries job-search providers and annotates results with
// their saved state and relevance to the owner's skills.
package search

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/tracker"
)

// Provider searches an upstream job source. Empty results are not an error.
type Provider interface {
	Name() string
	Search(ctx context.Context, query, location string) ([]db.JobPosting, error)
}

// ProviderError wraps a failure from an upstream provider
type ProviderError struct {
	Provider string
	Message  string
	Cause    error
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s search failed: %s: %v", e.Provider, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s search failed: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Result is a search hit annotated for display
type Result struct {
	db.JobPosting
	Saved    bool    `json:"saved"`
	Saveable bool    `json:"saveable"`
	Score    float64 `json:"score"`
}

// Service runs searches and annotates results against the saved-URL index.
type Service struct {
	provider Provider
	index    *tracker.SavedURLIndex
}

// NewService creates a search service. index may be nil, in which case no
// result is reported as saved.
func NewService(provider Provider, index *tracker.SavedURLIndex) *Service {
	return &Service{provider: provider, index: index}
}

// Provider returns the configured provider
func (s *Service) Provider() Provider {
	return s.provider
}

// Search queries the provider and returns normalized, annotated results.
// When skills are given, results are ordered by keyword score (stable).
// Results whose URL cannot be saved are kept with Saveable=false.
func (s *Service) Search(ctx context.Context, query, location string, skills []string) ([]Result, error) {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if query == "" {
		return nil, &tracker.ValidationError{Field: "query", Message: "is required"}
	}

	postings, err := s.provider.Search(ctx, query, location)
	if err != nil {
		return nil, err
	}
	log.Printf("[search] %s returned %d results for %q in %q", s.provider.Name(), len(postings), query, location)

	results := make([]Result, 0, len(postings))
	for _, p := range postings {
		p = Normalize(p)
		r := Result{
			JobPosting: p,
			Saveable:   tracker.IsSaveableURL(p.URL),
		}
		if r.Saveable && s.index != nil {
			r.Saved = s.index.IsSaved(p.URL)
		}
		if len(skills) > 0 {
			r.Score = KeywordScore(p.Title+" "+p.Snippet, skills)
		}
		results = append(results, r)
	}

	if len(skills) > 0 {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
	}
	return results, nil
}

// Normalize trims a transient posting and fills descriptive sentinels. The
// URL is untouched; ID, status and tracking fields are cleared.
func Normalize(p db.JobPosting) db.JobPosting {
	p = p.WithDefaults()
	p.Snippet = strings.TrimSpace(p.Snippet)
	p.ID = 0
	p.Status = ""
	p.Notes = ""
	p.DueDate = nil
	return p
}

// KeywordScore is the fraction of keywords found in text, case-insensitive,
// in [0, 1].
func KeywordScore(text string, keywords []string) float64 {
	if text == "" || len(keywords) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	hits := 0
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" && strings.Contains(lower, k) {
			hits++
		}
	}
	score := float64(hits) / float64(len(keywords))
	if score > 1 {
		score = 1
	}
	return score
}

// matches reports whether every query word appears in text
func matches(text, query string) bool {
	lower := strings.ToLower(text)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(lower, w) {
			return false
		}
	}
	return true
}

// locationMatches treats an empty filter and "remote" as permissive.
func locationMatches(jobLocation, filter string) bool {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return true
	}
	loc := strings.ToLower(jobLocation)
	if filter == "remote" {
		return loc == "" || strings.Contains(loc, "remote")
	}
	return strings.Contains(loc, filter)
}
