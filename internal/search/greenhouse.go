package search

import (
	"context"
	"log"
	"net/http"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/fetch"
)

// DefaultGreenhouseBaseURL hosts public Greenhouse job boards
const DefaultGreenhouseBaseURL = "https://boards.greenhouse.io"

// GreenhouseUnspecifiedLocation is used when an opening lists no location
const GreenhouseUnspecifiedLocation = "Remote/Unspecified"

const greenhouseSnippet = "Direct application via Greenhouse."

// Greenhouse scrapes public Greenhouse job boards. With Boards set, each
// board is scraped and openings are filtered by the query words; without
// it, the query is taken as a single board slug.
type Greenhouse struct {
	Boards  []string
	BaseURL string
	Client  *http.Client
}

// NewGreenhouse creates a Greenhouse provider for the given board slugs
func NewGreenhouse(boards []string) *Greenhouse {
	return &Greenhouse{Boards: boards, BaseURL: DefaultGreenhouseBaseURL}
}

// Name implements Provider
func (g *Greenhouse) Name() string { return "greenhouse" }

// Search implements Provider. A board that fails to load is logged and
// skipped unless every board fails.
func (g *Greenhouse) Search(ctx context.Context, query, location string) ([]db.JobPosting, error) {
	boards := g.Boards
	filter := query
	if len(boards) == 0 {
		boards = []string{strings.ToLower(strings.TrimSpace(query))}
		filter = ""
	}

	var (
		out     []db.JobPosting
		lastErr error
		failed  int
	)
	for _, slug := range boards {
		openings, err := g.scrapeBoard(ctx, slug)
		if err != nil {
			log.Printf("[search] greenhouse board %s: %v", slug, err)
			lastErr = err
			failed++
			continue
		}
		for _, p := range openings {
			if filter != "" && !matches(p.Title, filter) {
				continue
			}
			if !locationMatches(p.Location, location) && p.Location != GreenhouseUnspecifiedLocation {
				continue
			}
			out = append(out, p)
		}
	}
	if failed == len(boards) && lastErr != nil {
		return nil, &ProviderError{Provider: g.Name(), Message: "no board could be loaded", Cause: lastErr}
	}
	return out, nil
}

func (g *Greenhouse) scrapeBoard(ctx context.Context, slug string) ([]db.JobPosting, error) {
	base := strings.TrimRight(g.BaseURL, "/")
	if base == "" {
		base = DefaultGreenhouseBaseURL
	}
	opts := fetch.DefaultOptions()
	opts.Client = g.Client

	result, err := fetch.URL(ctx, base+"/"+slug, opts)
	if err != nil {
		return nil, err
	}
	return ParseGreenhouseBoard(result.HTML, slug, base)
}

// ParseGreenhouseBoard extracts openings from a board page. Relative links
// are resolved against base.
func ParseGreenhouseBoard(html, slug, base string) ([]db.JobPosting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	openings := doc.Find("div.opening")
	if openings.Length() == 0 {
		openings = doc.Find("tr.job-post")
	}

	company := capitalize(slug)
	var postings []db.JobPosting
	openings.Each(func(_ int, s *goquery.Selection) {
		anchor := s.Find("a").First()
		if anchor.Length() == 0 {
			return
		}
		href, _ := anchor.Attr("href")
		if href != "" && !strings.HasPrefix(href, "http") {
			href = base + href
		}

		title := strings.TrimSpace(anchor.Find("p.body--medium").First().Text())
		if title == "" {
			title = strings.TrimSpace(anchor.Text())
		}
		title = strings.Join(strings.Fields(title), " ")

		location := strings.TrimSpace(s.Find(".location").First().Text())
		if location == "" {
			location = GreenhouseUnspecifiedLocation
		}

		postings = append(postings, db.JobPosting{
			Title:    title,
			Company:  company,
			Location: location,
			URL:      href,
			Snippet:  greenhouseSnippet,
		})
	})
	return postings, nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
