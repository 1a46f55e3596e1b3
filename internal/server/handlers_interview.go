package server

import (
	"net/http"

	"github.com/jonathan/job-agent/internal/types"
)

// handleInterviewStart begins (or restarts) a mock interview for a saved job
func (s *Server) handleInterviewStart(w http.ResponseWriter, r *http.Request) {
	job, profile, ok := s.jobAndProfile(w, r)
	if !ok {
		return
	}
	view, err := s.interviews.Start(r.Context(), *job, profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleInterviewAnswer records an answer and returns the next question
func (s *Server) handleInterviewAnswer(w http.ResponseWriter, r *http.Request) {
	var req types.InterviewAnswerRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	view, err := s.interviews.Answer(r.Context(), req.JobID, req.Answer)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleInterviewFinish ends an interview before the last question
func (s *Server) handleInterviewFinish(w http.ResponseWriter, r *http.Request) {
	var req types.JobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	view, err := s.interviews.Finish(req.JobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, view)
}

// handleInterviewReport scores a completed interview
func (s *Server) handleInterviewReport(w http.ResponseWriter, r *http.Request) {
	var req types.JobRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	report, err := s.interviews.Report(r.Context(), req.JobID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, report)
}

// handleInterviewAbandon discards the session for a job
func (s *Server) handleInterviewAbandon(w http.ResponseWriter, r *http.Request) {
	jobID, ok := s.pathID(w, r, "jobID")
	if !ok {
		return
	}
	if !s.interviews.Abandon(jobID) {
		s.errorResponse(w, http.StatusNotFound, "no interview in progress for this job")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"job_id": jobID, "message": "Interview ended"})
}
