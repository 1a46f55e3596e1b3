package tracker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/jonathan/job-agent/internal/db"
)

// Service is the single save path for job postings. It keeps the store and
// the SavedURLIndex in step: an index patch happens only after the store
// write succeeded, and before the call returns.
type Service struct {
	store db.Store
	index *SavedURLIndex
}

// NewService creates a tracker over store with an empty index. Call ListAll
// (or Reload) to populate the index.
func NewService(store db.Store) *Service {
	return &Service{store: store, index: NewSavedURLIndex()}
}

// Index returns the reconciler shared with search and HTTP handlers
func (s *Service) Index() *SavedURLIndex {
	return s.index
}

// IsSaved reports whether url belongs to a saved job
func (s *Service) IsSaved(url string) bool {
	return s.index.IsSaved(url)
}

// SaveResult is returned by Save
type SaveResult struct {
	Job     *db.JobPosting `json:"job"`
	Created bool           `json:"created"`
	Message string         `json:"message"`
}

// Save validates posting and stores it with status Saved. Saving a URL that
// is already stored returns the existing record with Created=false.
func (s *Service) Save(ctx context.Context, posting db.JobPosting) (*SaveResult, error) {
	if err := ValidateForSave(posting); err != nil {
		return nil, err
	}

	posting = posting.WithDefaults()
	posting.ID = 0
	posting.Status = db.StatusSaved
	if posting.DueDate != nil && strings.TrimSpace(*posting.DueDate) == "" {
		posting.DueDate = nil
	}

	job, created, err := s.store.SaveJob(ctx, posting)
	if err != nil {
		return nil, fmt.Errorf("failed to save job: %w", err)
	}
	s.index.MarkSaved(job.URL)

	msg := "Job saved"
	if !created {
		msg = "Job already saved"
	}
	return &SaveResult{Job: job, Created: created, Message: msg}, nil
}

// Get returns a saved job or a NotFoundError
func (s *Service) Get(ctx context.Context, id int64) (*db.JobPosting, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, &NotFoundError{ID: id}
	}
	return job, nil
}

// UpdateStatus moves a saved job to another board column
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) error {
	if err := ValidateStatus(status); err != nil {
		return err
	}
	return s.mapNotFound(id, s.store.UpdateJobStatus(ctx, id, status))
}

// UpdateNotes replaces the notes of a saved job
func (s *Service) UpdateNotes(ctx context.Context, id int64, notes string) error {
	return s.mapNotFound(id, s.store.UpdateJobNotes(ctx, id, notes))
}

// UpdateDeadline sets the due date; an empty string clears it
func (s *Service) UpdateDeadline(ctx context.Context, id int64, dueDate string) error {
	if err := ValidateDueDate(dueDate); err != nil {
		return err
	}
	var due *string
	if d := strings.TrimSpace(dueDate); d != "" {
		due = &d
	}
	return s.mapNotFound(id, s.store.UpdateJobDeadline(ctx, id, due))
}

// Delete removes a saved job and evicts its URL from the index. An unknown
// id leaves the index untouched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	url, err := s.store.DeleteJob(ctx, id)
	if err != nil {
		return s.mapNotFound(id, err)
	}
	if url != "" {
		s.index.MarkUnsaved(url)
	}
	return nil
}

// ListAll returns every saved job in insertion order and rebuilds the index
// from the same snapshot.
func (s *Service) ListAll(ctx context.Context) ([]db.JobPosting, error) {
	gen := s.index.BeginRebuild()
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		s.index.AbortRebuild()
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	s.index.Rebuild(gen, saveableURLs(jobs))
	return jobs, nil
}

// Reload rebuilds the index from the store's saved URLs
func (s *Service) Reload(ctx context.Context) error {
	gen := s.index.BeginRebuild()
	urls, err := s.store.SavedURLs(ctx)
	if err != nil {
		s.index.AbortRebuild()
		return fmt.Errorf("failed to load saved urls: %w", err)
	}
	saveable := make([]string, 0, len(urls))
	for _, u := range urls {
		if IsSaveableURL(u) {
			saveable = append(saveable, u)
		}
	}
	s.index.Rebuild(gen, saveable)
	return nil
}

// Import bulk-inserts postings with status Saved. Empty descriptive fields get
// their sentinels; postings without a title are skipped.
func (s *Service) Import(ctx context.Context, postings []db.JobPosting) (db.ImportResult, error) {
	batch := make([]db.JobPosting, 0, len(postings))
	skipped := 0
	for _, p := range postings {
		if strings.TrimSpace(p.Title) == "" && strings.TrimSpace(p.URL) == "" {
			skipped++
			continue
		}
		p = p.WithDefaults()
		p.ID = 0
		if !db.IsValidStatus(p.Status) {
			p.Status = db.StatusSaved
		}
		if p.DueDate != nil && ValidateDueDate(*p.DueDate) != nil {
			p.DueDate = nil
		}
		batch = append(batch, p)
	}
	if skipped > 0 {
		log.Printf("[tracker] skipped %d postings with neither title nor url", skipped)
	}
	if len(batch) == 0 {
		return db.ImportResult{}, nil
	}

	result, err := s.store.ImportJobs(ctx, batch)
	if err != nil {
		return db.ImportResult{}, fmt.Errorf("failed to import jobs: %w", err)
	}
	if err := s.Reload(ctx); err != nil {
		return result, err
	}
	log.Printf("[tracker] imported %d new, %d updated", result.Added, result.Updated)
	return result, nil
}

// Profile returns the stored profile, or an empty one
func (s *Service) Profile(ctx context.Context) (*db.Profile, error) {
	p, err := s.store.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return &db.Profile{}, nil
	}
	return p, nil
}

// SaveProfile replaces the stored profile
func (s *Service) SaveProfile(ctx context.Context, p db.Profile) (*db.Profile, error) {
	return s.store.UpsertProfile(ctx, p)
}

func (s *Service) mapNotFound(id int64, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return &NotFoundError{ID: id}
	}
	return err
}

func saveableURLs(jobs []db.JobPosting) []string {
	urls := make([]string, 0, len(jobs))
	for _, j := range jobs {
		if IsSaveableURL(j.URL) {
			urls = append(urls, j.URL)
		}
	}
	return urls
}
