package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/board"
	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/search"
)

func TestPrintBoard(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	due := "2026-03-11"
	b := board.Project([]db.JobPosting{
		{ID: 1, Title: "Backend Developer", Company: "Fabrikam", Status: db.StatusSaved, DueDate: &due},
		{ID: 2, Title: "Data Engineer", Company: "Contoso", Status: db.StatusOffer},
	}, time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))

	p.PrintBoard(b)
	output := buf.String()

	assert.Contains(t, output, "SAVED (1)")
	assert.Contains(t, output, "OFFER (1)")
	assert.Contains(t, output, "APPLIED (0)")
	assert.Contains(t, output, "#1  Backend Developer")
	assert.Contains(t, output, "Fabrikam  [")
	assert.Contains(t, output, "(empty)")
	assert.Equal(t, len(db.Statuses), strings.Count(output, "┌"))
}

func TestPrintSearchResults(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	results := []search.Result{
		{JobPosting: db.JobPosting{Title: "Go Engineer", Company: "Fabrikam", Location: "Remote", URL: "https://fabrikam.example.com/1"}, Saved: true, Saveable: true, Score: 0.5},
		{JobPosting: db.JobPosting{Title: "SRE", Company: "Contoso", Location: "London", URL: "#"}},
	}
	for i := 0; i < 6; i++ {
		results = append(results, search.Result{JobPosting: db.JobPosting{Title: "Filler"}})
	}

	p.PrintSearchResults("go", results)
	output := buf.String()

	assert.Contains(t, output, `8 results for "go"`)
	assert.Contains(t, output, "★ Go Engineer")
	assert.Contains(t, output, "Match: 50%")
	assert.Contains(t, output, "cannot be saved")
	assert.Contains(t, output, "... and 3 more results")
}

func TestPrintGapResult(t *testing.T) {
	t.Run("structured", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintGapResult(assistant.GapResult{
			Kind: assistant.KindStructured,
			Analysis: &assistant.GapAnalysis{
				MatchScore: 72,
				Verdict:    "Good fit",
				Strengths:  []string{"Go"},
				Gaps:       []string{"Kubernetes"},
			},
		})
		output := buf.String()
		assert.Contains(t, output, "FIT ANALYSIS")
		assert.Contains(t, output, "72/100")
		assert.Contains(t, output, "• Kubernetes")
	})

	t.Run("raw", func(t *testing.T) {
		var buf bytes.Buffer
		NewPrinter(&buf).PrintGapResult(assistant.GapResult{Kind: assistant.KindRaw, Raw: "Looks promising"})
		output := buf.String()
		assert.Contains(t, output, "unstructured")
		assert.Contains(t, output, "Looks promising")
	})
}

func TestPrintImportResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintImportResult(db.ImportResult{})
	assert.Contains(t, buf.String(), "NOTHING TO IMPORT")

	buf.Reset()
	p.PrintImportResult(db.ImportResult{Added: 3, Updated: 1})
	assert.Contains(t, buf.String(), "Added:    3")
	assert.Contains(t, buf.String(), "Updated:  1")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ééé...", truncate("éééééééé", 6))
}
