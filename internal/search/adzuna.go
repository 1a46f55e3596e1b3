package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/jonathan/job-agent/internal/db"
)

// DefaultAdzunaBaseURL is the Adzuna jobs API root
const DefaultAdzunaBaseURL = "https://api.adzuna.com/v1/api/jobs"

// AdzunaConfig configures the Adzuna provider
type AdzunaConfig struct {
	AppID          string
	AppKey         string
	Country        string
	ResultsPerPage int
	// RequestsPerSecond throttles outbound calls; 0 disables throttling.
	RequestsPerSecond float64
	BaseURL           string
	HTTPClient        *http.Client
}

// Adzuna searches the Adzuna job API
type Adzuna struct {
	cfg     AdzunaConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewAdzuna creates an Adzuna provider
func NewAdzuna(cfg AdzunaConfig) *Adzuna {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultAdzunaBaseURL
	}
	if cfg.Country == "" {
		cfg.Country = "gb"
	}
	if cfg.ResultsPerPage <= 0 {
		cfg.ResultsPerPage = 10
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	a := &Adzuna{cfg: cfg, client: client}
	if cfg.RequestsPerSecond > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return a
}

// Name implements Provider
func (a *Adzuna) Name() string { return "adzuna" }

type adzunaResponse struct {
	Results []struct {
		Title   string `json:"title"`
		Company struct {
			DisplayName string `json:"display_name"`
		} `json:"company"`
		Location struct {
			DisplayName string `json:"display_name"`
		} `json:"location"`
		RedirectURL string `json:"redirect_url"`
		Description string `json:"description"`
	} `json:"results"`
}

// Search implements Provider
func (a *Adzuna) Search(ctx context.Context, query, location string) ([]db.JobPosting, error) {
	if a.cfg.AppID == "" || a.cfg.AppKey == "" {
		return nil, &ProviderError{Provider: a.Name(), Message: "ADZUNA_APP_ID and ADZUNA_APP_KEY are required"}
	}
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, &ProviderError{Provider: a.Name(), Message: "rate limiter", Cause: err}
		}
	}

	params := url.Values{}
	params.Set("app_id", a.cfg.AppID)
	params.Set("app_key", a.cfg.AppKey)
	params.Set("results_per_page", strconv.Itoa(a.cfg.ResultsPerPage))
	params.Set("what", query)
	if location != "" {
		params.Set("where", location)
	}
	params.Set("content-type", "application/json")
	endpoint := fmt.Sprintf("%s/%s/search/1?%s", strings.TrimRight(a.cfg.BaseURL, "/"), url.PathEscape(a.cfg.Country), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create adzuna request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: a.Name(), Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ProviderError{Provider: a.Name(), Message: fmt.Sprintf("HTTP status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var decoded adzunaResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ProviderError{Provider: a.Name(), Message: "invalid response", Cause: err}
	}

	postings := make([]db.JobPosting, 0, len(decoded.Results))
	for _, r := range decoded.Results {
		postings = append(postings, db.JobPosting{
			Title:    stripTags(r.Title),
			Company:  r.Company.DisplayName,
			Location: r.Location.DisplayName,
			URL:      r.RedirectURL,
			Snippet:  stripTags(r.Description),
		})
	}
	return postings, nil
}

// stripTags removes the <strong> highlighting Adzuna puts in titles and
// descriptions.
func stripTags(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
