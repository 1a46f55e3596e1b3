package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/schemas"
)

// importPosting mirrors db.JobPosting plus the description alias some
// exporters use in place of snippet.
type importPosting struct {
	db.JobPosting
	Description string `json:"description"`
}

// ParseImport decodes an import payload: a single posting object, an array
// of postings, or {"jobs": [...]}.
func ParseImport(data []byte) ([]db.JobPosting, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, &ValidationError{Field: "body", Message: "import payload is empty"}
	}
	if err := schemas.Validate(schemas.JobImport, string(data)); err != nil {
		return nil, &ValidationError{Field: "body", Message: fmt.Sprintf("expected a job object, an array of jobs, or {\"jobs\": [...]}: %v", err)}
	}

	var raw []importPosting
	switch {
	case data[0] == '[':
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, &ValidationError{Field: "body", Message: err.Error()}
		}
	case bytes.Contains(data, []byte(`"jobs"`)):
		var wrapped struct {
			Jobs []importPosting `json:"jobs"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, &ValidationError{Field: "body", Message: err.Error()}
		}
		raw = wrapped.Jobs
	default:
		var single importPosting
		if err := json.Unmarshal(data, &single); err != nil {
			return nil, &ValidationError{Field: "body", Message: err.Error()}
		}
		raw = []importPosting{single}
	}

	postings := make([]db.JobPosting, 0, len(raw))
	for _, p := range raw {
		if p.Snippet == "" {
			p.Snippet = p.Description
		}
		postings = append(postings, p.JobPosting)
	}
	return postings, nil
}
