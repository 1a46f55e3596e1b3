// Package resume turns an uploaded PDF resume into profile text and skills.
package resume

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/ledongthuc/pdf"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/db"
)

// MaxUploadBytes bounds an uploaded resume
const MaxUploadBytes = 10 << 20

// ErrNotPDF is the cause when the upload is not a PDF document
var ErrNotPDF = errors.New("file is not a PDF")

// parseFailure is the message shown for any extraction failure
const parseFailure = "could not parse resume"

// SkillExtractor derives a skill list from resume text
type SkillExtractor interface {
	ExtractSkills(ctx context.Context, resumeText string) ([]string, error)
}

// Extract returns the cleaned plain text of a PDF. Any failure, including a
// panic inside the PDF parser, is reported as an UpstreamError.
func Extract(data []byte) (text string, err error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return "", &assistant.UpstreamError{Op: parseFailure, Cause: ErrNotPDF}
	}

	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = &assistant.UpstreamError{Op: parseFailure, Cause: fmt.Errorf("pdf parser panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &assistant.UpstreamError{Op: parseFailure, Cause: err}
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", &assistant.UpstreamError{Op: parseFailure, Cause: err}
	}
	raw, err := io.ReadAll(plain)
	if err != nil {
		return "", &assistant.UpstreamError{Op: parseFailure, Cause: err}
	}

	text = CleanText(string(raw))
	if text == "" {
		return "", &assistant.UpstreamError{Op: parseFailure, Cause: errors.New("no text found, the PDF may be scanned images")}
	}
	return text, nil
}

// Ingestor builds a profile from an uploaded resume
type Ingestor struct {
	skills  SkillExtractor
	extract func([]byte) (string, error)
}

// NewIngestor creates an Ingestor. skills may be nil to skip extraction.
func NewIngestor(skills SkillExtractor) *Ingestor {
	return &Ingestor{skills: skills, extract: Extract}
}

// Ingest extracts the resume text and its skills. A skill extraction failure
// is logged and leaves the skills empty; the text is still returned.
func (i *Ingestor) Ingest(ctx context.Context, data []byte) (*db.Profile, error) {
	if len(data) > MaxUploadBytes {
		return nil, &assistant.ValidationError{Field: "file", Message: "resume exceeds 10 MB"}
	}
	text, err := i.extract(data)
	if err != nil {
		return nil, err
	}

	profile := &db.Profile{ResumeText: text}
	if i.skills == nil {
		return profile, nil
	}

	skills, err := i.skills.ExtractSkills(ctx, text)
	if err != nil {
		log.Printf("[resume] skill extraction failed, keeping text only: %v", err)
		return profile, nil
	}
	profile.Skills = joinSkills(skills)
	log.Printf("[resume] extracted %d chars and %d skills", len(text), len(skills))
	return profile, nil
}

func joinSkills(skills []string) string {
	var buf bytes.Buffer
	for n, s := range skills {
		if n > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(s)
	}
	return buf.String()
}
