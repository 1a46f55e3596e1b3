package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/job-agent/internal/search"
)

// SearchResponse represents the response for a job search
type SearchResponse struct {
	Query    string          `json:"query"`
	Location string          `json:"location"`
	Provider string          `json:"provider"`
	Results  []search.Result `json:"results"`
	Count    int             `json:"count"`
}

// handleSearch queries the configured provider, ranking by profile skills
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	location := strings.TrimSpace(r.URL.Query().Get("location"))

	profile, err := s.tracker.Profile(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	results, err := s.search.Search(r.Context(), query, location, profile.SkillList())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if results == nil {
		results = []search.Result{}
	}

	s.jsonResponse(w, http.StatusOK, SearchResponse{
		Query:    query,
		Location: location,
		Provider: s.search.Provider().Name(),
		Results:  results,
		Count:    len(results),
	})
}
