package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-agent/internal/assistant"
)

// buildPDF writes a one-page PDF showing text in Helvetica.
func buildPDF(text string) []byte {
	content := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Contents 4 0 R /Resources << /Font << /F1 5 0 R >> >> >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestExtract_PDF(t *testing.T) {
	text, err := Extract(buildPDF("Jane Doe - Go Engineer"))
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe - Go Engineer")
}

func TestExtract_Failures(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not a pdf", []byte("Jane Doe, Go Engineer")},
		{"truncated pdf", []byte("%PDF-1.4\n1 0 obj << >> endobj")},
		{"garbage after header", append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte{0xff}, 200)...)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract(tt.data)
			var upErr *assistant.UpstreamError
			require.ErrorAs(t, err, &upErr)
			assert.Contains(t, err.Error(), "could not parse resume")
		})
	}
}

func TestCleanText(t *testing.T) {
	in := "Jane   Doe\r\n\r\n\r\n\r\n• Built   APIs\n  Go\t\tSQL  \n"
	assert.Equal(t, "Jane Doe\n\n- Built APIs\nGo SQL", CleanText(in))
	assert.Equal(t, "", CleanText(""))
}

type stubSkills struct {
	skills []string
	err    error
	got    string
}

func (s *stubSkills) ExtractSkills(_ context.Context, text string) ([]string, error) {
	s.got = text
	return s.skills, s.err
}

func TestIngestor(t *testing.T) {
	t.Run("text and skills", func(t *testing.T) {
		skills := &stubSkills{skills: []string{"Go", "SQL"}}
		ing := NewIngestor(skills)
		ing.extract = func([]byte) (string, error) { return "resume text", nil }

		profile, err := ing.Ingest(context.Background(), []byte("%PDF-"))
		require.NoError(t, err)
		assert.Equal(t, "resume text", profile.ResumeText)
		assert.Equal(t, "Go, SQL", profile.Skills)
		assert.Equal(t, "resume text", skills.got)
	})

	t.Run("skill failure keeps text", func(t *testing.T) {
		ing := NewIngestor(&stubSkills{err: errors.New("quota")})
		ing.extract = func([]byte) (string, error) { return "resume text", nil }

		profile, err := ing.Ingest(context.Background(), nil)
		require.NoError(t, err)
		assert.Equal(t, "resume text", profile.ResumeText)
		assert.Empty(t, profile.Skills)
	})

	t.Run("extraction failure", func(t *testing.T) {
		skills := &stubSkills{}
		_, err := NewIngestor(skills).Ingest(context.Background(), []byte("plain text"))
		var upErr *assistant.UpstreamError
		require.ErrorAs(t, err, &upErr)
		assert.Empty(t, skills.got, "skills not requested")
	})

	t.Run("too large", func(t *testing.T) {
		_, err := NewIngestor(nil).Ingest(context.Background(), []byte(strings.Repeat("x", MaxUploadBytes+1)))
		var vErr *assistant.ValidationError
		assert.ErrorAs(t, err, &vErr)
	})
}
