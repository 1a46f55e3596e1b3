package tracker

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseImport_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		titles []string
	}{
		{"single object", `{"title": "Go Engineer", "url": "http://ok.com/1"}`, []string{"Go Engineer"}},
		{"array", `[{"title": "A"}, {"title": "B"}]`, []string{"A", "B"}},
		{"wrapped", `{"jobs": [{"title": "A"}]}`, []string{"A"}},
		{"empty array", `[]`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			postings, err := ParseImport([]byte(tt.body))
			require.NoError(t, err)
			titles := make([]string, 0, len(postings))
			for _, p := range postings {
				titles = append(titles, p.Title)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func TestParseImport_DescriptionFallsBackToSnippet(t *testing.T) {
	postings, err := ParseImport([]byte(`[
		{"title": "A", "description": "from description"},
		{"title": "B", "snippet": "own snippet", "description": "ignored"}
	]`))
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "from description", postings[0].Snippet)
	assert.Equal(t, "own snippet", postings[1].Snippet)
}

func TestParseImport_Invalid(t *testing.T) {
	for _, body := range []string{"", "   ", `"hello"`, `{"jobs": "x"}`, `[{"title": 42}]`} {
		_, err := ParseImport([]byte(body))
		var ve *ValidationError
		assert.True(t, errors.As(err, &ve), "body %q", body)
	}
}
