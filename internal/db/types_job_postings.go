package db

import (
	"strings"
	"time"
)

// Application statuses, in board column order
const (
	StatusSaved        = "Saved"
	StatusApplied      = "Applied"
	StatusInterviewing = "Interviewing"
	StatusOffer        = "Offer"
	StatusRejected     = "Rejected"
)

// Statuses lists every valid status in board column order.
var Statuses = []string{StatusSaved, StatusApplied, StatusInterviewing, StatusOffer, StatusRejected}

// IsValidStatus reports whether s is one of the five statuses (case-sensitive).
func IsValidStatus(s string) bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

// Sentinels used when upstream data leaves a field empty
const (
	DefaultTitle    = "Untitled Role"
	DefaultCompany  = "Unknown Company"
	DefaultLocation = "Remote"
)

// JobPosting is a job listing. Search results are transient (ID == 0);
// saved postings carry a store-assigned ID.
type JobPosting struct {
	ID        int64     `json:"id,omitempty"`
	Title     string    `json:"title"`
	Company   string    `json:"company"`
	Location  string    `json:"location"`
	URL       string    `json:"url"`
	Snippet   string    `json:"snippet"`
	Status    string    `json:"status,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	DueDate   *string   `json:"due_date,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// WithDefaults fills empty descriptive fields with their sentinels. The URL
// is left byte-for-byte as given since it is the identity key.
func (p JobPosting) WithDefaults() JobPosting {
	p.Title = strings.TrimSpace(p.Title)
	p.Company = strings.TrimSpace(p.Company)
	p.Location = strings.TrimSpace(p.Location)
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	if p.Company == "" {
		p.Company = DefaultCompany
	}
	if p.Location == "" {
		p.Location = DefaultLocation
	}
	if p.Status == "" {
		p.Status = StatusSaved
	}
	return p
}

// ImportResult counts the outcome of a bulk import
type ImportResult struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}
