package assistant

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/llm"
	"github.com/jonathan/job-agent/internal/schemas"
)

// FallbackEmailSubject is used when the provider's email is not structured
const FallbackEmailSubject = "Regarding the Open Position"

// MaxSkills caps the skills extracted from a resume
const MaxSkills = 15

// Email is a subject and body pair. Raw marks a body taken verbatim from
// unstructured provider output.
type Email struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Raw     bool   `json:"raw,omitempty"`
}

// GapAnswer is the candidate's own account of a skill flagged by IdentifyGaps
type GapAnswer struct {
	Skill      string `json:"skill" validate:"required"`
	Experience string `json:"experience"`
}

// Pack bundles the three application documents for one saved job
type Pack struct {
	JobID       int64     `json:"job_id"`
	Fit         GapResult `json:"fit"`
	CoverLetter string    `json:"cover_letter"`
	Email       Email     `json:"email"`
}

// CoverLetter drafts a cover letter for a saved job
func (a *Assistant) CoverLetter(ctx context.Context, job db.JobPosting, profile *db.Profile) (string, error) {
	data := jobFields(job)
	data["Resume"] = profile.Context()
	text, err := a.generate(ctx, "cover letter", assistantPrompts, "cover-letter", data, llm.TierAdvanced, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// ColdEmail drafts an outreach email. Unstructured output becomes the body
// under FallbackEmailSubject.
func (a *Assistant) ColdEmail(ctx context.Context, job db.JobPosting, profile *db.Profile) (Email, error) {
	skills := "General"
	if list := profile.SkillList(); len(list) > 0 {
		skills = strings.Join(list, ", ")
	}
	resumeText := ""
	if profile != nil {
		resumeText = profile.ResumeText
	}

	raw, err := a.generate(ctx, "cold email", assistantPrompts, "cold-email", map[string]string{
		"Title":   job.Title,
		"Company": job.Company,
		"Resume":  resumeText,
		"Skills":  skills,
	}, llm.TierStandard, true)
	if err != nil {
		return Email{}, err
	}
	return ParseEmail(raw), nil
}

// ParseEmail extracts subject and body, falling back to the raw text
func ParseEmail(raw string) Email {
	var email Email
	if decodeStructured(raw, schemas.ColdEmail, &email) {
		email.Subject = strings.TrimSpace(email.Subject)
		email.Body = strings.TrimSpace(email.Body)
		return email
	}
	return Email{Subject: FallbackEmailSubject, Body: strings.TrimSpace(llm.StripCodeFences(raw)), Raw: true}
}

// TailorCV rewrites the resume as HTML for one job, weaving in gap answers.
// The result is HTML with any markdown fences removed.
func (a *Assistant) TailorCV(ctx context.Context, job db.JobPosting, profile *db.Profile, answers []GapAnswer) (string, error) {
	if err := requireResume(profile); err != nil {
		return "", err
	}

	data := jobFields(job)
	data["Resume"] = profile.ResumeText
	data["GapAnswers"] = formatGapAnswers(answers)

	text, err := a.generate(ctx, "tailored cv", assistantPrompts, "tailored-cv", data, llm.TierAdvanced, false)
	if err != nil {
		return "", err
	}
	html := strings.TrimSpace(llm.StripCodeFences(text))
	if html == "" {
		return "", &UpstreamError{Op: "tailored cv", Cause: fmt.Errorf("response contained no HTML")}
	}
	return html, nil
}

func formatGapAnswers(answers []GapAnswer) string {
	var sb strings.Builder
	for _, ans := range answers {
		skill := strings.TrimSpace(ans.Skill)
		exp := strings.TrimSpace(ans.Experience)
		if skill == "" || exp == "" {
			continue
		}
		fmt.Fprintf(&sb, "- %s: %s\n", skill, exp)
	}
	if sb.Len() == 0 {
		return "(none provided)"
	}
	return sb.String()
}

// GeneratePack runs the fit summary, cover letter and cold email for a job
// concurrently. The first failure cancels the others and is returned.
func (a *Assistant) GeneratePack(ctx context.Context, job db.JobPosting, profile *db.Profile) (*Pack, error) {
	pack := &Pack{JobID: job.ID}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fit, err := a.AnalyzeGap(gctx, jobText(job), profile)
		if err != nil {
			return err
		}
		pack.Fit = fit
		return nil
	})
	g.Go(func() error {
		letter, err := a.CoverLetter(gctx, job, profile)
		if err != nil {
			return err
		}
		pack.CoverLetter = letter
		return nil
	})
	g.Go(func() error {
		email, err := a.ColdEmail(gctx, job, profile)
		if err != nil {
			return err
		}
		pack.Email = email
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pack, nil
}

// ExtractSkills asks for the resume's top skills. The result is deduplicated
// case-insensitively and capped at MaxSkills.
func (a *Assistant) ExtractSkills(ctx context.Context, resumeText string) ([]string, error) {
	if strings.TrimSpace(resumeText) == "" {
		return []string{}, nil
	}
	text, err := a.generate(ctx, "skill extraction", assistantPrompts, "extract-skills", map[string]string{
		"Resume": resumeText,
	}, llm.TierLite, false)
	if err != nil {
		return nil, err
	}
	return ParseSkills(text), nil
}

// ParseSkills splits a comma or newline separated skill list
func ParseSkills(text string) []string {
	text = llm.StripCodeFences(text)
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})

	skills := make([]string, 0, len(fields))
	seen := make(map[string]bool)
	for _, f := range fields {
		s := strings.Trim(strings.TrimSpace(f), "-*•. ")
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		skills = append(skills, s)
		if len(skills) == MaxSkills {
			break
		}
	}
	return skills
}
