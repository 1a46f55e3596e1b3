package assistant

import (
	"context"
	"log"
	"strings"

	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/llm"
	"github.com/jonathan/job-agent/internal/schemas"
)

// Result kinds for GapResult
const (
	KindStructured = "structured"
	KindRaw        = "raw"
)

// GapAnalysis is the structured comparison of a candidate with a job
type GapAnalysis struct {
	MatchScore int      `json:"match_score"`
	Verdict    string   `json:"verdict"`
	Summary    string   `json:"summary"`
	Strengths  []string `json:"strengths"`
	Gaps       []string `json:"gaps"`
}

// GapResult is either a parsed GapAnalysis or the provider's raw text when
// the response did not match the expected structure.
type GapResult struct {
	Kind     string       `json:"kind"`
	Analysis *GapAnalysis `json:"analysis,omitempty"`
	Raw      string       `json:"raw,omitempty"`
}

// Structured reports whether the result carries a parsed analysis
func (r GapResult) Structured() bool {
	return r.Kind == KindStructured && r.Analysis != nil
}

// AnalyzeGap compares pasted job text with the profile. Unparseable provider
// output is returned verbatim as a Raw result, never as an error.
func (a *Assistant) AnalyzeGap(ctx context.Context, jobDescription string, profile *db.Profile) (GapResult, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return GapResult{}, &ValidationError{Field: "job_description", Message: "is required"}
	}

	raw, err := a.generate(ctx, "gap analysis", assistantPrompts, "gap-analysis", map[string]string{
		"JobText":   jobDescription,
		"Candidate": profile.Context(),
	}, llm.TierStandard, true)
	if err != nil {
		return GapResult{}, err
	}
	return ParseGapResult(raw), nil
}

// ParseGapResult tags raw provider output as Structured or Raw
func ParseGapResult(raw string) GapResult {
	var parsed struct {
		MatchScore float64  `json:"match_score"`
		Verdict    string   `json:"verdict"`
		Summary    string   `json:"summary"`
		Strengths  []string `json:"strengths"`
		Gaps       []string `json:"gaps"`
	}
	if !decodeStructured(raw, schemas.GapAnalysis, &parsed) {
		log.Printf("[assistant] gap analysis was not structured, returning raw text (%d chars)", len(raw))
		return GapResult{Kind: KindRaw, Raw: raw}
	}
	return GapResult{
		Kind: KindStructured,
		Analysis: &GapAnalysis{
			MatchScore: clampScore(parsed.MatchScore),
			Verdict:    parsed.Verdict,
			Summary:    parsed.Summary,
			Strengths:  nonNil(parsed.Strengths),
			Gaps:       nonNil(parsed.Gaps),
		},
	}
}

// GapFill lists skills the job needs that the resume lacks. An empty list
// means no significant gaps were found.
type GapFill struct {
	MissingSkills []string `json:"missing_skills"`
	JobTitle      string   `json:"job_title"`
	ParseFailed   bool     `json:"parse_failed,omitempty"`
	Raw           string   `json:"raw,omitempty"`
}

// NoGaps reports a successful analysis that found nothing missing
func (g *GapFill) NoGaps() bool {
	return !g.ParseFailed && len(g.MissingSkills) == 0
}

// IdentifyGaps is the first step of CV tailoring: it finds the skills to ask
// the candidate about.
func (a *Assistant) IdentifyGaps(ctx context.Context, job db.JobPosting, profile *db.Profile) (*GapFill, error) {
	if err := requireResume(profile); err != nil {
		return nil, err
	}

	data := jobFields(job)
	data["Resume"] = profile.ResumeText
	raw, err := a.generate(ctx, "gap fill", assistantPrompts, "gap-fill", data, llm.TierStandard, true)
	if err != nil {
		return nil, err
	}

	var parsed GapFill
	if !decodeStructured(raw, schemas.GapFill, &parsed) {
		return &GapFill{MissingSkills: []string{}, JobTitle: job.Title, ParseFailed: true, Raw: raw}, nil
	}

	skills := make([]string, 0, len(parsed.MissingSkills))
	seen := make(map[string]bool)
	for _, s := range parsed.MissingSkills {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, s)
	}
	parsed.MissingSkills = skills
	if parsed.JobTitle == "" {
		parsed.JobTitle = job.Title
	}
	return &parsed, nil
}
