package interview

import (
	"context"
	"sync"

	"github.com/jonathan/job-agent/internal/assistant"
	"github.com/jonathan/job-agent/internal/db"
)

// Manager holds at most one session per job. Sessions live in memory only.
type Manager struct {
	mu          sync.Mutex
	sessions    map[int64]*Session
	interviewer Interviewer
}

// NewManager creates a Manager whose sessions use interviewer
func NewManager(interviewer Interviewer) *Manager {
	return &Manager{
		sessions:    make(map[int64]*Session),
		interviewer: interviewer,
	}
}

// Start begins a fresh session for job, replacing any existing one. Nothing
// is stored if the opening question cannot be obtained.
func (m *Manager) Start(ctx context.Context, job db.JobPosting, profile *db.Profile) (View, error) {
	s := NewSession(job, m.interviewer)
	view, err := s.Start(ctx, profile)
	if err != nil {
		return view, err
	}

	m.mu.Lock()
	m.sessions[job.ID] = s
	m.mu.Unlock()
	return view, nil
}

// Get returns the active session for a job
func (m *Manager) Get(jobID int64) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[jobID]
	if !ok {
		return nil, &StateError{State: StateNotStarted, Message: "no interview in progress for this job"}
	}
	return s, nil
}

// Answer submits an answer to the job's session
func (m *Manager) Answer(ctx context.Context, jobID int64, answer string) (View, error) {
	s, err := m.Get(jobID)
	if err != nil {
		return View{}, err
	}
	return s.SubmitAnswer(ctx, answer)
}

// Finish ends the job's session early
func (m *Manager) Finish(jobID int64) (View, error) {
	s, err := m.Get(jobID)
	if err != nil {
		return View{}, err
	}
	return s.Finish()
}

// Report scores the job's completed session
func (m *Manager) Report(ctx context.Context, jobID int64) (*assistant.Report, error) {
	s, err := m.Get(jobID)
	if err != nil {
		return nil, err
	}
	return s.Report(ctx)
}

// Abandon discards the job's session. It reports whether one existed.
func (m *Manager) Abandon(jobID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.sessions[jobID]
	delete(m.sessions, jobID)
	return ok
}

// Len returns the number of active sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
