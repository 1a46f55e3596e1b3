package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/types"
)

// CoverLetterResponse carries a generated cover letter
type CoverLetterResponse struct {
	JobID       int64  `json:"job_id"`
	CoverLetter string `json:"cover_letter"`
}

// ColdEmailResponse carries a generated outreach email
type ColdEmailResponse struct {
	JobID int64 `json:"job_id"`
	assistant.Email
}

// TailoredCVResponse carries tailored CV HTML
type TailoredCVResponse struct {
	JobID int64  `json:"job_id"`
	HTML  string `json:"html"`
}

// handleGapAnalysis scores the profile against pasted text or a fetched job URL
func (s *Server) handleGapAnalysis(w http.ResponseWriter, r *http.Request) {
	var req types.GapAnalysisRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}

	jobText := req.JobText
	if jobText == "" {
		if s.fetcher == nil {
			s.errorResponse(w, http.StatusBadRequest, "fetching job pages is disabled, paste the job text instead")
			return
		}
		text, err := s.fetcher.JobText(r.Context(), req.URL)
		if err != nil {
			s.writeError(w, err)
			return
		}
		jobText = text
	}

	profile, err := s.tracker.Profile(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.assistant.AnalyzeGap(r.Context(), jobText, profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handlePack generates fit summary, cover letter and cold email together
func (s *Server) handlePack(w http.ResponseWriter, r *http.Request) {
	job, profile, ok := s.jobAndProfile(w, r)
	if !ok {
		return
	}
	pack, err := s.assistant.GeneratePack(r.Context(), *job, profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, pack)
}

// handleCoverLetter drafts a cover letter for a saved job
func (s *Server) handleCoverLetter(w http.ResponseWriter, r *http.Request) {
	job, profile, ok := s.jobAndProfile(w, r)
	if !ok {
		return
	}
	letter, err := s.assistant.CoverLetter(r.Context(), *job, profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, CoverLetterResponse{JobID: job.ID, CoverLetter: letter})
}

// handleColdEmail drafts an outreach email for a saved job
func (s *Server) handleColdEmail(w http.ResponseWriter, r *http.Request) {
	job, profile, ok := s.jobAndProfile(w, r)
	if !ok {
		return
	}
	email, err := s.assistant.ColdEmail(r.Context(), *job, profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, ColdEmailResponse{JobID: job.ID, Email: email})
}

// handleGapFill lists the skills the job wants that the resume lacks
func (s *Server) handleGapFill(w http.ResponseWriter, r *http.Request) {
	job, profile, ok := s.jobAndProfile(w, r)
	if !ok {
		return
	}
	gaps, err := s.assistant.IdentifyGaps(r.Context(), *job, profile)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, gaps)
}

// handleTailoredCV returns the resume rewritten as HTML for one job
func (s *Server) handleTailoredCV(w http.ResponseWriter, r *http.Request) {
	var req types.TailoredCVRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	job, html, err := s.tailor(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, TailoredCVResponse{JobID: job.ID, HTML: html})
}

// handleTailoredCVPDF returns the tailored CV printed to PDF
func (s *Server) handleTailoredCVPDF(w http.ResponseWriter, r *http.Request) {
	if s.renderer == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "PDF rendering is not available on this server")
		return
	}
	var req types.TailoredCVRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	job, html, err := s.tailor(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	pdf, err := s.renderer.PDF(r.Context(), html)
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="tailored-cv-%d.pdf"`, job.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (s *Server) tailor(ctx context.Context, req types.TailoredCVRequest) (*db.JobPosting, string, error) {
	job, err := s.tracker.Get(ctx, req.JobID)
	if err != nil {
		return nil, "", err
	}
	profile, err := s.tracker.Profile(ctx)
	if err != nil {
		return nil, "", err
	}
	html, err := s.assistant.TailorCV(ctx, *job, profile, req.Answers)
	if err != nil {
		return nil, "", err
	}
	return job, html, nil
}

// jobAndProfile decodes a JobRequest and loads the job and profile. It
// writes the error response itself.
func (s *Server) jobAndProfile(w http.ResponseWriter, r *http.Request) (*db.JobPosting, *db.Profile, bool) {
	var req types.JobRequest
	if !s.decodeJSON(w, r, &req) {
		return nil, nil, false
	}
	job, err := s.tracker.Get(r.Context(), req.JobID)
	if err != nil {
		s.writeError(w, err)
		return nil, nil, false
	}
	profile, err := s.tracker.Profile(r.Context())
	if err != nil {
		s.writeError(w, err)
		return nil, nil, false
	}
	return job, profile, true
}
