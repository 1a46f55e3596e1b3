package tracker

import (
	"strings"

	"github.com/jonathan/job-agent/internal/board"
	"github.com/jonathan/job-agent/internal/db"
)

// minURLLength filters obviously broken links such as "/" or "http:"
const minURLLength = 5

var placeholderTitles = map[string]bool{
	"#":             true,
	"n/a":           true,
	"untitled role": true,
	"unknown role":  true,
}

// IsSaveableURL reports whether url can identify a saved job: non-empty, not
// the "#" placeholder, and longer than five characters. No normalization is
// applied; identity is exact string equality.
func IsSaveableURL(url string) bool {
	return url != "" && url != "#" && len(url) > minURLLength
}

// ValidateForSave checks the fields a posting needs before it can be saved
func ValidateForSave(p db.JobPosting) error {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return &ValidationError{Field: "title", Message: "is required"}
	}
	if placeholderTitles[strings.ToLower(title)] {
		return &ValidationError{Field: "title", Message: "is a placeholder"}
	}
	if !IsSaveableURL(p.URL) {
		return &ValidationError{Field: "url", Message: "must be a real link"}
	}
	if p.DueDate != nil {
		if err := ValidateDueDate(*p.DueDate); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStatus rejects anything but the five board statuses
func ValidateStatus(status string) error {
	if !db.IsValidStatus(status) {
		return &ValidationError{
			Field:   "status",
			Message: "must be one of " + strings.Join(db.Statuses, ", "),
		}
	}
	return nil
}

// ValidateDueDate accepts an empty string (clears the deadline) or any date
// the board can classify.
func ValidateDueDate(due string) error {
	if strings.TrimSpace(due) == "" {
		return nil
	}
	if _, err := board.ParseDueDate(due); err != nil {
		return &ValidationError{Field: "due_date", Message: err.Error()}
	}
	return nil
}
