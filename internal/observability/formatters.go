// Package observability provides formatted terminal output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/board"
	"github.com/jonathan/job-agent/internal/db"
	"github.com/jonathan/job-agent/internal/search"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for CLI commands
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most n runes, ending in "..."
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintBoard outputs one box per status column with deadline badges.
func (p *Printer) PrintBoard(b board.Board) {
	for _, col := range b.Columns {
		var sb strings.Builder
		if len(col.Cards) == 0 {
			sb.WriteString("(empty)")
		}
		for i, card := range col.Cards {
			fmt.Fprintf(&sb, "#%d  %s\n", card.Job.ID, card.Job.Title)
			fmt.Fprintf(&sb, "    %s", card.Job.Company)
			if card.Deadline != nil {
				fmt.Fprintf(&sb, "  [%s]", card.Deadline.Label)
			}
			if i < len(col.Cards)-1 {
				sb.WriteString("\n")
			}
		}
		p.printBox(fmt.Sprintf("%s (%d)", strings.ToUpper(col.Status), len(col.Cards)), sb.String())
	}
}

// PrintSearchResults outputs the top search results, marking saved ones.
func (p *Printer) PrintSearchResults(query string, results []search.Result) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d results for %q\n", len(results), query)

	count := min(len(results), maxItemsToShow)
	for i := 0; i < count; i++ {
		r := results[i]
		marker := " "
		if r.Saved {
			marker = "★"
		}
		fmt.Fprintf(&sb, "\n%s %s\n", marker, r.Title)
		fmt.Fprintf(&sb, "  %s · %s\n", r.Company, r.Location)
		if r.Score > 0 {
			fmt.Fprintf(&sb, "  Match: %.0f%%\n", r.Score*100)
		}
		if r.Saveable {
			fmt.Fprintf(&sb, "  %s", r.URL)
		} else {
			sb.WriteString("  (no link, cannot be saved)")
		}
	}

	if len(results) > maxItemsToShow {
		fmt.Fprintf(&sb, "\n\n... and %d more results", len(results)-maxItemsToShow)
	}

	p.printBox("JOB SEARCH", sb.String())
}

// PrintGapResult outputs a fit analysis, or the raw text when the
// provider's answer was unstructured.
func (p *Printer) PrintGapResult(result assistant.GapResult) {
	if !result.Structured() {
		p.printBox("FIT ANALYSIS (unstructured)", strings.TrimSpace(result.Raw))
		return
	}

	a := result.Analysis
	var sb strings.Builder
	fmt.Fprintf(&sb, "Score:    %d/100\n", a.MatchScore)
	fmt.Fprintf(&sb, "Verdict:  %s\n", a.Verdict)
	if a.Summary != "" {
		fmt.Fprintf(&sb, "\n%s\n", a.Summary)
	}
	writeList(&sb, "Strengths", a.Strengths)
	writeList(&sb, "Gaps", a.Gaps)

	p.printBox("FIT ANALYSIS", strings.TrimSuffix(sb.String(), "\n"))
}

func writeList(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n", heading)
	count := min(len(items), maxItemsToShow)
	for i := 0; i < count; i++ {
		fmt.Fprintf(sb, "  • %s\n", items[i])
	}
	if len(items) > maxItemsToShow {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-maxItemsToShow)
	}
}

// PrintImportResult outputs the outcome of a bulk import.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintImportResult(result db.ImportResult) {
	if result.Added == 0 && result.Updated == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "NOTHING TO IMPORT")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}
	p.printBox("IMPORT", fmt.Sprintf("Added:    %d\nUpdated:  %d", result.Added, result.Updated))
}
