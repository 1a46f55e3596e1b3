// Package interview runs practice interviews: a fixed number of AI questions,
// one candidate answer each, then a scored report.
package interview

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/db"
)

// MaxQuestions is the number of questions in one interview
const MaxQuestions = 5

// State of a session
type State string

const (
	StateNotStarted State = "not_started"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// Interviewer is the AI side of an interview
type Interviewer interface {
	OpeningQuestion(ctx context.Context, job db.JobPosting, profile *db.Profile) (string, error)
	NextQuestion(ctx context.Context, job db.JobPosting, history []assistant.Turn) (string, error)
	ScoreInterview(ctx context.Context, job db.JobPosting, history []assistant.Turn) (*assistant.Report, error)
}

// StateError is returned when an operation is not valid in the session's
// current state.
type StateError struct {
	State   State
	Message string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("interview %s: %s", e.State, e.Message)
}

// Session is one practice interview for one job. It is safe for concurrent
// use; operations are serialized.
type Session struct {
	mu          sync.Mutex
	id          string
	job         db.JobPosting
	interviewer Interviewer
	state       State
	turn        int
	history     []assistant.Turn
	report      *assistant.Report
	startedAt   time.Time
}

// View is a point-in-time copy of a session for callers
type View struct {
	ID           string           `json:"id"`
	JobID        int64            `json:"job_id"`
	State        State            `json:"state"`
	Turn         int              `json:"turn"`
	MaxQuestions int              `json:"max_questions"`
	Question     string           `json:"question,omitempty"`
	History      []assistant.Turn `json:"history"`
	Completed    bool             `json:"completed"`
	StartedAt    time.Time        `json:"started_at,omitzero"`
}

// NewSession creates a session in StateNotStarted
func NewSession(job db.JobPosting, interviewer Interviewer) *Session {
	return &Session{
		id:          uuid.NewString(),
		job:         job,
		interviewer: interviewer,
		state:       StateNotStarted,
	}
}

// Start resets the session and asks the opening question. On provider
// failure the session stays NotStarted.
func (s *Session) Start(ctx context.Context, profile *db.Profile) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateNotStarted
	s.turn = 0
	s.history = nil
	s.report = nil

	question, err := s.interviewer.OpeningQuestion(ctx, s.job, profile)
	if err != nil {
		return s.view(), err
	}

	s.history = append(s.history, assistant.Turn{Role: assistant.RoleAI, Content: question})
	s.turn = 1
	s.state = StateInProgress
	s.startedAt = time.Now().UTC()
	log.Printf("[interview] session %s started for job %d", s.id, s.job.ID)
	return s.view(), nil
}

// SubmitAnswer records an answer. After the last question the session is
// completed without asking anything further; otherwise the next question is
// requested. On provider failure the answer is discarded so it can be resent.
func (s *Session) SubmitAnswer(ctx context.Context, answer string) (View, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return s.View(), &assistant.ValidationError{Field: "answer", Message: "is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateInProgress {
		return s.view(), &StateError{State: s.state, Message: "no question is awaiting an answer"}
	}

	s.history = append(s.history, assistant.Turn{Role: assistant.RoleUser, Content: answer})
	if s.turn >= MaxQuestions {
		s.state = StateCompleted
		log.Printf("[interview] session %s completed after %d answers", s.id, s.turn)
		return s.view(), nil
	}

	question, err := s.interviewer.NextQuestion(ctx, s.job, s.history)
	if err != nil {
		s.history = s.history[:len(s.history)-1]
		return s.view(), err
	}
	s.history = append(s.history, assistant.Turn{Role: assistant.RoleAI, Content: question})
	s.turn++
	return s.view(), nil
}

// Finish ends an in-progress interview early. At least one answer is
// required so there is something to score.
func (s *Session) Finish() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateCompleted:
		return s.view(), nil
	case StateNotStarted:
		return s.view(), &StateError{State: s.state, Message: "interview has not started"}
	}
	if s.answers() == 0 {
		return s.view(), &StateError{State: s.state, Message: "answer at least one question before finishing"}
	}
	s.state = StateCompleted
	log.Printf("[interview] session %s finished early after %d answers", s.id, s.answers())
	return s.view(), nil
}

// Report scores a completed interview. The first successful report is
// cached and returned on later calls.
func (s *Session) Report(ctx context.Context) (*assistant.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateCompleted {
		return nil, &StateError{State: s.state, Message: "interview is not complete"}
	}
	if s.report != nil {
		return s.report, nil
	}

	report, err := s.interviewer.ScoreInterview(ctx, s.job, s.history)
	if err != nil {
		return nil, err
	}
	s.report = report
	return report, nil
}

// ID returns the session id
func (s *Session) ID() string {
	return s.id
}

// State returns the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View returns a copy of the session
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

func (s *Session) view() View {
	history := make([]assistant.Turn, len(s.history))
	copy(history, s.history)

	v := View{
		ID:           s.id,
		JobID:        s.job.ID,
		State:        s.state,
		Turn:         s.turn,
		MaxQuestions: MaxQuestions,
		History:      history,
		Completed:    s.state == StateCompleted,
		StartedAt:    s.startedAt,
	}
	if s.state == StateInProgress && len(history) > 0 {
		if last := history[len(history)-1]; last.Role == assistant.RoleAI {
			v.Question = last.Content
		}
	}
	return v
}

func (s *Session) answers() int {
	n := 0
	for _, t := range s.history {
		if t.Role == assistant.RoleUser {
			n++
		}
	}
	return n
}
