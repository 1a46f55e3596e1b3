package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/job-agent/internal/board"
	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/tracker"
	"github.com/jonathan/job-agent/internal/types"
)

// ImportResponse reports the outcome of a bulk import
type ImportResponse struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
}

// ListSavedJobsResponse represents the response for listing saved jobs
type ListSavedJobsResponse struct {
	Jobs  []db.JobPosting `json:"jobs"`
	Count int             `json:"count"`
}

// handleImportJobs bulk-imports a job object, an array of jobs, or {"jobs": [...]}
func (s *Server) handleImportJobs(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxJSONBody))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	postings, err := tracker.ParseImport(body)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.tracker.Import(r.Context(), postings)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, ImportResponse{Imported: result.Added, Updated: result.Updated})
}

// handleSaveJob saves a posting. 201 when created, 200 when already saved.
func (s *Server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	var req types.SaveJobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	result, err := s.tracker.Save(r.Context(), req.Posting())
	if err != nil {
		s.writeError(w, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	s.jsonResponse(w, status, result)
}

// handleListSavedJobs lists saved jobs and rebuilds the saved-URL index
func (s *Server) handleListSavedJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.tracker.ListAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ListSavedJobsResponse{Jobs: nonNilJobs(jobs), Count: len(jobs)})
}

// handleCheckSaved reports whether a URL is saved
func (s *Server) handleCheckSaved(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	s.jsonResponse(w, http.StatusOK, types.SavedCheckResponse{URL: url, IsSaved: s.tracker.IsSaved(url)})
}

// handleDeleteJob removes a saved job
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := s.tracker.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"id": id, "message": "Job deleted"})
}

// handleUpdateStatus moves a saved job to another board column
func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req types.UpdateStatusRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.respondUpdated(w, r, id, s.tracker.UpdateStatus(r.Context(), id, strings.TrimSpace(req.Status)))
}

// handleUpdateNotes replaces a saved job's notes
func (s *Server) handleUpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req types.UpdateNotesRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.respondUpdated(w, r, id, s.tracker.UpdateNotes(r.Context(), id, req.Notes))
}

// handleUpdateDeadline sets or clears a saved job's due date
func (s *Server) handleUpdateDeadline(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathID(w, r, "id")
	if !ok {
		return
	}
	var req types.UpdateDeadlineRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	s.respondUpdated(w, r, id, s.tracker.UpdateDeadline(r.Context(), id, req.Value()))
}

// respondUpdated writes the job after a successful mutation
func (s *Server) respondUpdated(w http.ResponseWriter, r *http.Request, id int64, err error) {
	if err != nil {
		s.writeError(w, err)
		return
	}
	job, err := s.tracker.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

// handleBoard returns the five-column status board with deadline badges
func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	jobs, err := s.tracker.ListAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, board.Project(jobs, s.now()))
}

func nonNilJobs(jobs []db.JobPosting) []db.JobPosting {
	if jobs == nil {
		return []db.JobPosting{}
	}
	return jobs
}
