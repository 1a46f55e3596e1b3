package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/resume"
	"github.com/jonathan/job-agent/internal/types"
)

// handleGetProfile returns the stored profile (empty when none)
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.tracker.Profile(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleUpdateProfile replaces resume text and skills
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req types.UpdateProfileRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	profile, err := s.tracker.SaveProfile(r.Context(), db.Profile{ResumeText: req.ResumeText, Skills: req.Skills})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleUploadResume accepts a multipart PDF in the "file" field and
// replaces the profile with its text and extracted skills
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, resume.MaxUploadBytes+(1<<20))
	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "resume exceeds 10 MB")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "expected a PDF in form field \"file\"")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}

	extracted, err := s.resumes.Ingest(r.Context(), data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	profile, err := s.tracker.SaveProfile(r.Context(), *extracted)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}
