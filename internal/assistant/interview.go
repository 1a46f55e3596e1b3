package assistant

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/llm"
	"github.com/jonathan/job-agent/internal/schemas"
)

// Transcript roles
const (
	RoleAI   = "ai"
	RoleUser = "user"
)

// PositiveThreshold is the average score above which a report is positive
const PositiveThreshold = 75.0

// Verdict messages
const (
	VerdictPositive = "Strong performance. You are ready for this interview."
	VerdictImprove  = "Keep practicing. Work through the improvements below and try again."
)

// fallbackScore is used for every category when scoring output is unusable
const fallbackScore = 50

// Turn is one message of an interview transcript
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Scores are the four graded categories, each 0-100
type Scores struct {
	TechnicalAccuracy    int `json:"technical_accuracy"`
	CommunicationClarity int `json:"communication_clarity"`
	StarFormatAdherence  int `json:"star_format_adherence"`
	CulturalFit          int `json:"cultural_fit"`
}

// Average returns the mean of the four scores
func (s Scores) Average() float64 {
	return float64(s.TechnicalAccuracy+s.CommunicationClarity+s.StarFormatAdherence+s.CulturalFit) / 4
}

// Feedback holds the coach's written feedback
type Feedback struct {
	Strengths        []string `json:"strengths"`
	Improvements     []string `json:"improvements"`
	SuggestedAnswers []string `json:"suggested_answers"`
}

// Report is the scored result of a practice interview
type Report struct {
	Scores      Scores   `json:"scores"`
	Feedback    Feedback `json:"feedback_points"`
	Average     float64  `json:"average"`
	Positive    bool     `json:"positive"`
	Verdict     string   `json:"verdict"`
	ParseFailed bool     `json:"parse_failed,omitempty"`
}

// OpeningQuestion asks the provider for the first interview question
func (a *Assistant) OpeningQuestion(ctx context.Context, job db.JobPosting, profile *db.Profile) (string, error) {
	data := jobFields(job)
	data["Resume"] = profile.Context()
	text, err := a.generate(ctx, "opening question", interviewPrompts, "opening-question", data, llm.TierLite, false)
	if err != nil {
		return "", err
	}
	return cleanQuestion(text), nil
}

// NextQuestion asks for a follow-up based on the transcript so far
func (a *Assistant) NextQuestion(ctx context.Context, job db.JobPosting, history []Turn) (string, error) {
	text, err := a.generate(ctx, "next question", interviewPrompts, "next-question", map[string]string{
		"Title":      job.Title,
		"Company":    job.Company,
		"Transcript": FormatTranscript(history),
	}, llm.TierLite, false)
	if err != nil {
		return "", err
	}
	return cleanQuestion(text), nil
}

// ScoreInterview grades a transcript. When the provider's answer cannot be
// parsed the report holds neutral scores and ParseFailed is set.
func (a *Assistant) ScoreInterview(ctx context.Context, job db.JobPosting, history []Turn) (*Report, error) {
	raw, err := a.generate(ctx, "interview scoring", interviewPrompts, "score-interview", map[string]string{
		"Title":      job.Title,
		"Company":    job.Company,
		"Transcript": FormatTranscript(history),
	}, llm.TierStandard, true)
	if err != nil {
		return nil, err
	}
	return ParseReport(raw), nil
}

// ParseReport decodes a scoring response, clamping scores to 0-100
func ParseReport(raw string) *Report {
	var parsed struct {
		Scores struct {
			TechnicalAccuracy    float64 `json:"technical_accuracy"`
			CommunicationClarity float64 `json:"communication_clarity"`
			StarFormatAdherence  float64 `json:"star_format_adherence"`
			CulturalFit          float64 `json:"cultural_fit"`
		} `json:"scores"`
		Feedback Feedback `json:"feedback_points"`
	}
	if !decodeStructured(raw, schemas.InterviewReport, &parsed) {
		log.Printf("[assistant] interview scoring was not structured, using neutral scores")
		return FallbackReport()
	}

	r := &Report{
		Scores: Scores{
			TechnicalAccuracy:    clampScore(parsed.Scores.TechnicalAccuracy),
			CommunicationClarity: clampScore(parsed.Scores.CommunicationClarity),
			StarFormatAdherence:  clampScore(parsed.Scores.StarFormatAdherence),
			CulturalFit:          clampScore(parsed.Scores.CulturalFit),
		},
		Feedback: Feedback{
			Strengths:        nonNil(parsed.Feedback.Strengths),
			Improvements:     nonNil(parsed.Feedback.Improvements),
			SuggestedAnswers: nonNil(parsed.Feedback.SuggestedAnswers),
		},
	}
	r.Average = r.Scores.Average()
	r.Positive = r.Average > PositiveThreshold
	r.Verdict = verdict(r.Positive)
	return r
}

// FallbackReport is the neutral report used when scoring output is unusable
func FallbackReport() *Report {
	s := Scores{
		TechnicalAccuracy:    fallbackScore,
		CommunicationClarity: fallbackScore,
		StarFormatAdherence:  fallbackScore,
		CulturalFit:          fallbackScore,
	}
	return &Report{
		Scores: s,
		Feedback: Feedback{
			Strengths:        []string{"Unable to parse"},
			Improvements:     []string{"Try again"},
			SuggestedAnswers: []string{},
		},
		Average:     s.Average(),
		Positive:    false,
		Verdict:     VerdictImprove,
		ParseFailed: true,
	}
}

func verdict(positive bool) string {
	if positive {
		return VerdictPositive
	}
	return VerdictImprove
}

// FormatTranscript renders turns as "Interviewer:"/"Candidate:" lines
func FormatTranscript(history []Turn) string {
	var sb strings.Builder
	for _, t := range history {
		speaker := "Interviewer"
		if t.Role == RoleUser {
			speaker = "Candidate"
		}
		fmt.Fprintf(&sb, "%s: %s\n", speaker, strings.TrimSpace(t.Content))
	}
	return sb.String()
}

func cleanQuestion(text string) string {
	text = strings.TrimSpace(llm.StripCodeFences(text))
	text = strings.TrimPrefix(text, "Interviewer:")
	return strings.Trim(strings.TrimSpace(text), `"`)
}
