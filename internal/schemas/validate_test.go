package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedSchemas_ValidJSON(t *testing.T) {
	for _, name := range []string{GapAnalysis, GapFill, ColdEmail, InterviewReport, JobImport} {
		t.Run(name, func(t *testing.T) {
			src, err := Load(name)
			require.NoError(t, err)

			var v any
			assert.NoError(t, json.Unmarshal([]byte(src), &v))
		})
	}
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("nope")
	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, err.Error(), "nope.schema.json")
}

func TestValidate_GapAnalysis(t *testing.T) {
	valid := `{"match_score": 82, "verdict": "Strong fit", "summary": "s", "strengths": ["Go"], "gaps": []}`
	assert.NoError(t, Validate(GapAnalysis, valid))

	missing := `{"match_score": 82, "verdict": "Strong fit"}`
	var vErr *ValidationError
	require.ErrorAs(t, Validate(GapAnalysis, missing), &vErr)
	assert.NotEmpty(t, vErr.Errors)

	wrongType := `{"match_score": "high", "verdict": "v", "summary": "s", "strengths": [], "gaps": []}`
	assert.Error(t, Validate(GapAnalysis, wrongType))
}

func TestValidate_InterviewReport(t *testing.T) {
	valid := `{
		"scores": {"technical_accuracy": 80, "communication_clarity": 70, "star_format_adherence": 60, "cultural_fit": 90},
		"feedback_points": {"strengths": ["clear"], "improvements": ["metrics"], "suggested_answers": []}
	}`
	assert.NoError(t, Validate(InterviewReport, valid))

	missingScore := `{
		"scores": {"technical_accuracy": 80, "communication_clarity": 70, "cultural_fit": 90},
		"feedback_points": {"strengths": [], "improvements": []}
	}`
	var vErr *ValidationError
	require.ErrorAs(t, Validate(InterviewReport, missingScore), &vErr)
	assert.Contains(t, vErr.Error(), "star_format_adherence")
}

func TestValidate_GapFillAndColdEmail(t *testing.T) {
	assert.NoError(t, Validate(GapFill, `{"missing_skills": [], "job_title": "Eng"}`))
	assert.Error(t, Validate(GapFill, `{"missing_skills": "Go"}`))

	assert.NoError(t, Validate(ColdEmail, `{"subject": "Hi", "body": "Hello"}`))
	assert.Error(t, Validate(ColdEmail, `{"subject": "", "body": "Hello"}`))
}

func TestValidate_JobImportShapes(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
	}{
		{"array", `[{"title": "Eng", "url": "http://ok.com/1"}]`, true},
		{"wrapped", `{"jobs": [{"title": "Eng"}]}`, true},
		{"single", `{"title": "Eng", "company": "Acme"}`, true},
		{"null due date", `[{"title": "Eng", "due_date": null}]`, true},
		{"wrong field type", `[{"title": 42}]`, false},
		{"scalar", `"hello"`, false},
		{"wrapped non-array", `{"jobs": "x"}`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(JobImport, tt.doc)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateJSONString_Malformed(t *testing.T) {
	err := ValidateJSONString(`{"type": "object"}`, `{not json`)
	assert.Error(t, err)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
}
