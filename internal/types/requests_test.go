package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-agent/internal/assistant"
)

func TestGapAnalysisRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		request GapAnalysisRequest
		wantErr bool
	}{
		{name: "text only", request: GapAnalysisRequest{JobText: "Go engineer wanted"}},
		{name: "url only", request: GapAnalysisRequest{URL: "https://boards.greenhouse.io/acme/jobs/1"}},
		{name: "both", request: GapAnalysisRequest{JobText: "x", URL: "https://example.com/job"}},
		{name: "neither", request: GapAnalysisRequest{}, wantErr: true},
		{name: "whitespace text", request: GapAnalysisRequest{JobText: "   "}, wantErr: true},
		{name: "bad url", request: GapAnalysisRequest{URL: "not a url"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestJobRequest_Validate(t *testing.T) {
	assert.NoError(t, (&JobRequest{JobID: 3}).Validate())
	assert.Error(t, (&JobRequest{}).Validate())
	assert.Error(t, (&JobRequest{JobID: -1}).Validate())
}

func TestTailoredCVRequest_Validate(t *testing.T) {
	ok := TailoredCVRequest{JobID: 1, Answers: []assistant.GapAnswer{{Skill: "Kubernetes", Experience: "ran clusters"}}}
	assert.NoError(t, ok.Validate())

	noAnswers := TailoredCVRequest{JobID: 1}
	assert.NoError(t, noAnswers.Validate())

	blankSkill := TailoredCVRequest{JobID: 1, Answers: []assistant.GapAnswer{{Experience: "x"}}}
	assert.Error(t, blankSkill.Validate())
}

func TestUpdateStatusRequest_Validate(t *testing.T) {
	assert.NoError(t, (&UpdateStatusRequest{Status: "Applied"}).Validate())
	assert.Error(t, (&UpdateStatusRequest{}).Validate())
}

func TestUpdateDeadlineRequest_Value(t *testing.T) {
	assert.Equal(t, "", (&UpdateDeadlineRequest{}).Value())
	d := " 2026-11-01 "
	assert.Equal(t, "2026-11-01", (&UpdateDeadlineRequest{DueDate: &d}).Value())
}

func TestSaveJobRequest_Posting(t *testing.T) {
	due := "2026-11-01"
	req := SaveJobRequest{Title: "Eng", Company: "Acme", URL: "http://ok.com/1", DueDate: &due}
	p := req.Posting()
	assert.Equal(t, "Eng", p.Title)
	assert.Equal(t, "http://ok.com/1", p.URL)
	require.NotNil(t, p.DueDate)
	assert.Equal(t, due, *p.DueDate)
	assert.Zero(t, p.ID)
}

func TestLoginRequest_Validate(t *testing.T) {
	assert.NoError(t, (&LoginRequest{Password: "pw"}).Validate())
	assert.Error(t, (&LoginRequest{}).Validate())
}
