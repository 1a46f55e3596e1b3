package resume

import (
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
	bulletStart = regexp.MustCompile(`^[•·▪◦●]\s*`)
)

// CleanText normalizes extracted resume text while keeping its line
// structure: CRLF becomes LF, runs of spaces collapse, bullet glyphs become
// "- ", and at most one blank line separates blocks.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")
	content = strings.ReplaceAll(content, "\u00a0", " ")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		line = strings.TrimSpace(innerSpace.ReplaceAllString(line, " "))
		lines[i] = bulletStart.ReplaceAllString(line, "- ")
	}

	result := strings.Join(lines, "\n")
	result = blankRuns.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}
