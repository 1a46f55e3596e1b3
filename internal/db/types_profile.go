package db

import (
	"strings"
	"time"
)

// Profile holds the owner's resume text and skill list
type Profile struct {
	ResumeText string    `json:"resume_text"`
	Skills     string    `json:"skills"`
	UpdatedAt  time.Time `json:"updated_at,omitzero"`
}

// SkillList splits the comma-separated skills field, dropping blanks.
func (p *Profile) SkillList() []string {
	if p == nil {
		return nil
	}
	var out []string
	for _, s := range strings.Split(p.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// HasResume reports whether resume text has been stored.
func (p *Profile) HasResume() bool {
	return p != nil && strings.TrimSpace(p.ResumeText) != ""
}

// Context returns the text the assistant uses to describe the candidate:
// the resume when present, otherwise the skill list.
func (p *Profile) Context() string {
	if p.HasResume() {
		return p.ResumeText
	}
	if p != nil && strings.TrimSpace(p.Skills) != "" {
		return "Skills: " + p.Skills
	}
	return "Skills: General"
}
