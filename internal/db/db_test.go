package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSQLitePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sqlite://data/jobs.db", "data/jobs.db"},
		{"sqlite:jobs.db", "jobs.db"},
		{"", "job-agent.db"},
		{"/tmp/x.db", "/tmp/x.db"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, sqlitePath(tt.in))
		})
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range Statuses {
		assert.True(t, IsValidStatus(s), s)
	}
	for _, s := range []string{"", "Pending", "saved", "APPLIED", "Interview"} {
		assert.False(t, IsValidStatus(s), s)
	}
}

func TestJobPosting_WithDefaults(t *testing.T) {
	p := JobPosting{URL: "https://example.com/a/"}.WithDefaults()
	assert.Equal(t, DefaultTitle, p.Title)
	assert.Equal(t, DefaultCompany, p.Company)
	assert.Equal(t, DefaultLocation, p.Location)
	assert.Equal(t, "", p.Snippet)
	assert.Equal(t, StatusSaved, p.Status)
	assert.Equal(t, "https://example.com/a/", p.URL)

	kept := JobPosting{Title: "Eng", Company: "Acme", Location: "Berlin", Status: StatusOffer}.WithDefaults()
	assert.Equal(t, "Eng", kept.Title)
	assert.Equal(t, "Acme", kept.Company)
	assert.Equal(t, "Berlin", kept.Location)
	assert.Equal(t, StatusOffer, kept.Status)
}

func TestProfile_Helpers(t *testing.T) {
	var nilProfile *Profile
	assert.False(t, nilProfile.HasResume())
	assert.Nil(t, nilProfile.SkillList())
	assert.Equal(t, "Skills: General", nilProfile.Context())

	p := &Profile{Skills: "Go, SQL , ,Kubernetes"}
	assert.Equal(t, []string{"Go", "SQL", "Kubernetes"}, p.SkillList())
	assert.False(t, p.HasResume())
	assert.Equal(t, "Skills: Go, SQL , ,Kubernetes", p.Context())

	p.ResumeText = "Ten years of Go"
	assert.True(t, p.HasResume())
	assert.Equal(t, "Ten years of Go", p.Context())
}
