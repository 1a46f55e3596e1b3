package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// -----------------------------------------------------------------------------
// Job Posting Methods (PostgreSQL)
// -----------------------------------------------------------------------------

const jobColumns = `id, title, company, location, url, snippet, status, notes, due_date, created_at, updated_at`

func scanPgJob(row pgx.Row) (*JobPosting, error) {
	var p JobPosting
	err := row.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.URL, &p.Snippet,
		&p.Status, &p.Notes, &p.DueDate, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetJob retrieves a saved job by ID. Returns nil, nil when absent.
func (db *DB) GetJob(ctx context.Context, id int64) (*JobPosting, error) {
	p, err := scanPgJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM saved_jobs WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return p, nil
}

// GetJobByURL retrieves a saved job by its exact URL. Returns nil, nil when absent.
func (db *DB) GetJobByURL(ctx context.Context, url string) (*JobPosting, error) {
	p, err := scanPgJob(db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM saved_jobs WHERE url = $1`, url))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job by url: %w", err)
	}
	return p, nil
}

// SaveJob inserts a posting unless one with the same URL exists, in which case
// the existing row is returned and created is false.
func (db *DB) SaveJob(ctx context.Context, posting JobPosting) (*JobPosting, bool, error) {
	existing, err := db.GetJobByURL(ctx, posting.URL)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	p, err := scanPgJob(db.pool.QueryRow(ctx,
		`INSERT INTO saved_jobs (title, company, location, url, snippet, status, notes, due_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+jobColumns,
		posting.Title, posting.Company, posting.Location, posting.URL, posting.Snippet,
		posting.Status, posting.Notes, posting.DueDate,
	))
	if err != nil {
		// A concurrent save of the same URL trips the unique index
		if existing, getErr := db.GetJobByURL(ctx, posting.URL); getErr == nil && existing != nil {
			return existing, false, nil
		}
		return nil, false, fmt.Errorf("failed to save job: %w", err)
	}
	return p, true, nil
}

// ImportJobs inserts postings in a single transaction. Postings matching an
// existing row by URL, or by title+company+location when the URL is empty,
// refresh that row's snippet instead.
func (db *DB) ImportJobs(ctx context.Context, postings []JobPosting) (ImportResult, error) {
	var result ImportResult

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to begin import: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, p := range postings {
		var id int64
		if p.URL != "" {
			err = tx.QueryRow(ctx, `SELECT id FROM saved_jobs WHERE url = $1`, p.URL).Scan(&id)
		} else {
			err = tx.QueryRow(ctx,
				`SELECT id FROM saved_jobs WHERE title = $1 AND company = $2 AND location = $3 ORDER BY id LIMIT 1`,
				p.Title, p.Company, p.Location).Scan(&id)
		}
		switch {
		case err == nil:
			if p.Snippet != "" {
				if _, err := tx.Exec(ctx,
					`UPDATE saved_jobs SET snippet = $1, updated_at = NOW() WHERE id = $2`, p.Snippet, id); err != nil {
					return result, fmt.Errorf("failed to update imported job: %w", err)
				}
			}
			result.Updated++
		case isNoRows(err):
			if _, err := tx.Exec(ctx,
				`INSERT INTO saved_jobs (title, company, location, url, snippet, status, notes, due_date)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				p.Title, p.Company, p.Location, p.URL, p.Snippet, p.Status, p.Notes, p.DueDate); err != nil {
				return result, fmt.Errorf("failed to insert imported job: %w", err)
			}
			result.Added++
		default:
			return result, fmt.Errorf("failed to look up imported job: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return ImportResult{}, fmt.Errorf("failed to commit import: %w", err)
	}
	return result, nil
}

// ListJobs returns all saved jobs in insertion order
func (db *DB) ListJobs(ctx context.Context) ([]JobPosting, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+jobColumns+` FROM saved_jobs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer rows.Close()

	var jobs []JobPosting
	for rows.Next() {
		p, err := scanPgJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *p)
	}
	return jobs, rows.Err()
}

// SavedURLs returns the non-empty URLs of all saved jobs
func (db *DB) SavedURLs(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx, `SELECT url FROM saved_jobs WHERE url <> '' ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved urls: %w", err)
	}
	defer rows.Close()

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
func (db *DB) UpdateJobStatus(ctx context.Context, id int64, status string) error {
	return db.updateJob(ctx, id, `status`, status)
}

// UpdateJobNotes sets the notes column
func (db *DB) UpdateJobNotes(ctx context.Context, id int64, notes string) error {
	return db.updateJob(ctx, id, `notes`, notes)
}

// UpdateJobDeadline sets or clears (nil) the due date
func (db *DB) UpdateJobDeadline(ctx context.Context, id int64, dueDate *string) error {
	return db.updateJob(ctx, id, `due_date`, dueDate)
}

func (db *DB) updateJob(ctx context.Context, id int64, column string, value any) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE saved_jobs SET `+column+` = $1, updated_at = NOW() WHERE id = $2`, value, id)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteJob removes a saved job and returns its URL
func (db *DB) DeleteJob(ctx context.Context, id int64) (string, error) {
	var url string
	err := db.pool.QueryRow(ctx, `DELETE FROM saved_jobs WHERE id = $1 RETURNING url`, id).Scan(&url)
	if err != nil {
		if isNoRows(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to delete job: %w", err)
	}
	return url, nil
}

// -----------------------------------------------------------------------------
// Profile Methods (PostgreSQL)
// -----------------------------------------------------------------------------

// GetProfile returns the owner profile, or nil, nil if none has been stored
func (db *DB) GetProfile(ctx context.Context) (*Profile, error) {
	var p Profile
	err := db.pool.QueryRow(ctx,
		`SELECT resume_text, skills, updated_at FROM profile WHERE id = $1`, profileRowID,
	).Scan(&p.ResumeText, &p.Skills, &p.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// UpsertProfile replaces the owner profile
func (db *DB) UpsertProfile(ctx context.Context, profile Profile) (*Profile, error) {
	var p Profile
	err := db.pool.QueryRow(ctx,
		`INSERT INTO profile (id, resume_text, skills, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (id) DO UPDATE SET resume_text = $2, skills = $3, updated_at = NOW()
		 RETURNING resume_text, skills, updated_at`,
		profileRowID, profile.ResumeText, profile.Skills,
	).Scan(&p.ResumeText, &p.Skills, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save profile: %w", err)
	}
	return &p, nil
}
