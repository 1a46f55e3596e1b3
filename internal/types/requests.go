package types

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/db"
)

var validate = validator.New()

// SaveJobRequest is the body of POST /api/saved-jobs
type SaveJobRequest struct {
	Title    string  `json:"title"`
	Company  string  `json:"company"`
	Location string  `json:"location"`
	URL      string  `json:"url"`
	Snippet  string  `json:"snippet"`
	DueDate  *string `json:"due_date,omitempty"`
}

// Posting converts the request into a posting for the tracker
func (r *SaveJobRequest) Posting() db.JobPosting {
	return db.JobPosting{
		Title:    r.Title,
		Company:  r.Company,
		Location: r.Location,
		URL:      r.URL,
		Snippet:  r.Snippet,
		DueDate:  r.DueDate,
	}
}

// UpdateStatusRequest is the body of PUT /api/saved-jobs/{id}/status.
// Membership in the five statuses is checked by the tracker.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateNotesRequest is the body of PUT /api/saved-jobs/{id}/notes
type UpdateNotesRequest struct {
	Notes string `json:"notes" validate:"max=20000"`
}

// UpdateDeadlineRequest is the body of PUT /api/saved-jobs/{id}/deadline.
// An empty or null due date clears the deadline.
type UpdateDeadlineRequest struct {
	DueDate *string `json:"due_date"`
}

// Value returns the due date, empty when cleared
func (r *UpdateDeadlineRequest) Value() string {
	if r.DueDate == nil {
		return ""
	}
	return strings.TrimSpace(*r.DueDate)
}

// UpdateProfileRequest is the body of PUT /api/profile
type UpdateProfileRequest struct {
	ResumeText string `json:"resume_text" validate:"max=200000"`
	Skills     string `json:"skills" validate:"max=5000"`
}

// GapAnalysisRequest is the body of POST /api/ai/gap-analysis. Exactly one
// of JobText and URL is expected; JobText wins when both are set.
type GapAnalysisRequest struct {
	JobText string `json:"job_text" validate:"required_without=URL"`
	URL     string `json:"url" validate:"omitempty,url"`
}

// JobRequest names a saved job for AI operations
type JobRequest struct {
	JobID int64 `json:"job_id" validate:"required,gt=0"`
}

// TailoredCVRequest is the body of POST /api/ai/tailored-cv
type TailoredCVRequest struct {
	JobID   int64                 `json:"job_id" validate:"required,gt=0"`
	Answers []assistant.GapAnswer `json:"answers" validate:"dive"`
}

// InterviewAnswerRequest is the body of POST /api/interview/answer
type InterviewAnswerRequest struct {
	JobID  int64  `json:"job_id" validate:"required,gt=0"`
	Answer string `json:"answer"`
}

// SavedCheckResponse answers GET /api/saved-jobs/check
type SavedCheckResponse struct {
	URL     string `json:"url"`
	IsSaved bool   `json:"is_saved"`
}

// Validate validates the request using the validator.
func (r *UpdateStatusRequest) Validate() error { return validate.Struct(r) }

// Validate validates the request using the validator.
func (r *UpdateNotesRequest) Validate() error { return validate.Struct(r) }

// Validate validates the request using the validator.
func (r *UpdateProfileRequest) Validate() error { return validate.Struct(r) }

// Validate validates the request using the validator.
func (r *GapAnalysisRequest) Validate() error {
	r.JobText = strings.TrimSpace(r.JobText)
	r.URL = strings.TrimSpace(r.URL)
	return validate.Struct(r)
}

// Validate validates the request using the validator.
func (r *JobRequest) Validate() error { return validate.Struct(r) }

// Validate validates the request using the validator.
func (r *TailoredCVRequest) Validate() error { return validate.Struct(r) }

// Validate validates the request using the validator.
func (r *InterviewAnswerRequest) Validate() error { return validate.Struct(r) }
