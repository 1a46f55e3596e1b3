package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteDB is the embedded single-file backend used for local runs and tests.
type SQLiteDB struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the SQLite database at path
func OpenSQLite(ctx context.Context, path string) (*SQLiteDB, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	conn.SetMaxOpenConns(1) // single writer
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	return &SQLiteDB{db: conn}, nil
}

// Close closes the database handle
func (s *SQLiteDB) Close() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

// Migrate creates the tables if they do not exist yet
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	for _, stmt := range sqliteSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}

func nowText() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteJob(row rowScanner) (*JobPosting, error) {
	var p JobPosting
	var created, updated string
	err := row.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.URL, &p.Snippet,
		&p.Status, &p.Notes, &p.DueDate, &created, &updated)
	if err != nil {
		return nil, err
	}
	p.CreatedAt = parseTime(created)
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

// GetJob retrieves a saved job by ID. Returns nil, nil when absent.
func (s *SQLiteDB) GetJob(ctx context.Context, id int64) (*JobPosting, error) {
	p, err := scanSQLiteJob(s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM saved_jobs WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return p, nil
}

// GetJobByURL retrieves a saved job by its exact URL. Returns nil, nil when absent.
func (s *SQLiteDB) GetJobByURL(ctx context.Context, url string) (*JobPosting, error) {
	p, err := scanSQLiteJob(s.db.QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM saved_jobs WHERE url = ?`, url))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job by url: %w", err)
	}
	return p, nil
}

// SaveJob inserts a posting unless one with the same URL exists, in which case
// the existing row is returned and created is false.
func (s *SQLiteDB) SaveJob(ctx context.Context, posting JobPosting) (*JobPosting, bool, error) {
	existing, err := s.GetJobByURL(ctx, posting.URL)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	now := nowText()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO saved_jobs (title, company, location, url, snippet, status, notes, due_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(url) WHERE url <> '' DO NOTHING`,
		posting.Title, posting.Company, posting.Location, posting.URL, posting.Snippet,
		posting.Status, posting.Notes, posting.DueDate, now, now,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to save job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read insert result: %w", err)
	}
	if affected == 0 {
		// Lost a race with a concurrent save of the same URL
		existing, err := s.GetJobByURL(ctx, posting.URL)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("failed to save job: url %q conflicted but no row found", posting.URL)
		}
		return existing, false, nil
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, fmt.Errorf("failed to read job id: %w", err)
	}
	p, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, false, err
	}
	return p, true, nil
}

// ImportJobs inserts postings in a single transaction. Postings matching an
// existing row by URL, or by title+company+location when the URL is empty,
// refresh that row's snippet instead.
func (s *SQLiteDB) ImportJobs(ctx context.Context, postings []JobPosting) (result ImportResult, err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin import: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	for _, p := range postings {
		var id int64
		var lookupErr error
		if p.URL != "" {
			lookupErr = tx.QueryRowContext(ctx, `SELECT id FROM saved_jobs WHERE url = ?`, p.URL).Scan(&id)
		} else {
			lookupErr = tx.QueryRowContext(ctx,
				`SELECT id FROM saved_jobs WHERE title = ? AND company = ? AND location = ? ORDER BY id LIMIT 1`,
				p.Title, p.Company, p.Location).Scan(&id)
		}
		now := nowText()
		switch {
		case lookupErr == nil:
			if p.Snippet != "" {
				if _, err := tx.ExecContext(ctx,
					`UPDATE saved_jobs SET snippet = ?, updated_at = ? WHERE id = ?`, p.Snippet, now, id); err != nil {
					return ImportResult{}, fmt.Errorf("failed to update imported job: %w", err)
				}
			}
			result.Updated++
		case errors.Is(lookupErr, sql.ErrNoRows):
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO saved_jobs (title, company, location, url, snippet, status, notes, due_date, created_at, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				p.Title, p.Company, p.Location, p.URL, p.Snippet, p.Status, p.Notes, p.DueDate, now, now); err != nil {
				return ImportResult{}, fmt.Errorf("failed to insert imported job: %w", err)
			}
			result.Added++
		default:
			return ImportResult{}, fmt.Errorf("failed to look up imported job: %w", lookupErr)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportResult{}, fmt.Errorf("failed to commit import: %w", err)
	}
	committed = true
	return result, nil
}

// ListJobs returns all saved jobs in insertion order
func (s *SQLiteDB) ListJobs(ctx context.Context) ([]JobPosting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+jobColumns+` FROM saved_jobs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []JobPosting
	for rows.Next() {
		p, err := scanSQLiteJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *p)
	}
	return jobs, rows.Err()
}

// SavedURLs returns the non-empty URLs of all saved jobs
func (s *SQLiteDB) SavedURLs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT url FROM saved_jobs WHERE url <> '' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved urls: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, fmt.Errorf("failed to scan url: %w", err)
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// UpdateJobStatus sets the status column
func (s *SQLiteDB) UpdateJobStatus(ctx context.Context, id int64, status string) error {
	return s.updateJob(ctx, id, `status`, status)
}

// UpdateJobNotes sets the notes column
func (s *SQLiteDB) UpdateJobNotes(ctx context.Context, id int64, notes string) error {
	return s.updateJob(ctx, id, `notes`, notes)
}

// UpdateJobDeadline sets or clears (nil) the due date
func (s *SQLiteDB) UpdateJobDeadline(ctx context.Context, id int64, dueDate *string) error {
	return s.updateJob(ctx, id, `due_date`, dueDate)
}

func (s *SQLiteDB) updateJob(ctx context.Context, id int64, column string, value any) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE saved_jobs SET `+column+` = ?, updated_at = ? WHERE id = ?`, value, nowText(), id)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", column, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteJob removes a saved job and returns its URL
func (s *SQLiteDB) DeleteJob(ctx context.Context, id int64) (string, error) {
	var url string
	err := s.db.QueryRowContext(ctx, `DELETE FROM saved_jobs WHERE id = ? RETURNING url`, id).Scan(&url)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to delete job: %w", err)
	}
	return url, nil
}

// GetProfile returns the owner profile, or nil, nil if none has been stored
func (s *SQLiteDB) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	var updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT resume_text, skills, updated_at FROM profile WHERE id = ?`, profileRowID,
	).Scan(&p.ResumeText, &p.Skills, &updated)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	p.UpdatedAt = parseTime(updated)
	return &p, nil
}

// UpsertProfile replaces the owner profile
func (s *SQLiteDB) UpsertProfile(ctx context.Context, profile Profile) (*Profile, error) {
	now := nowText()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profile (id, resume_text, skills, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (id) DO UPDATE SET resume_text = excluded.resume_text,
		   skills = excluded.skills, updated_at = excluded.updated_at`,
		profileRowID, profile.ResumeText, profile.Skills, now)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	profile.UpdatedAt = parseTime(now)
	return &profile, nil
}
