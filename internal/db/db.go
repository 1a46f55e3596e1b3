// Package db provides persistence for saved job postings and the owner profile.
//
// Two backends implement Store: PostgreSQL through pgx and an embedded SQLite
// database through modernc.org/sqlite. Open picks one from the URL scheme.
package db

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned by mutating operations that reference an unknown job ID.
var ErrNotFound = errors.New("job not found")

// Store is the persistence contract used by the tracker and the HTTP server.
type Store interface {
	Migrate(ctx context.Context) error
	Close()

	ImportJobs(ctx context.Context, postings []JobPosting) (ImportResult, error)
	SaveJob(ctx context.Context, posting JobPosting) (*JobPosting, bool, error)
	GetJob(ctx context.Context, id int64) (*JobPosting, error)
	GetJobByURL(ctx context.Context, url string) (*JobPosting, error)
	ListJobs(ctx context.Context) ([]JobPosting, error)
	SavedURLs(ctx context.Context) ([]string, error)
	UpdateJobStatus(ctx context.Context, id int64, status string) error
	UpdateJobNotes(ctx context.Context, id int64, notes string) error
	UpdateJobDeadline(ctx context.Context, id int64, dueDate *string) error
	DeleteJob(ctx context.Context, id int64) (string, error)

	GetProfile(ctx context.Context) (*Profile, error)
	UpsertProfile(ctx context.Context, profile Profile) (*Profile, error)
}

// Open connects to the database named by databaseURL and runs migrations.
// postgres:// and postgresql:// URLs use PostgreSQL; sqlite://path, file:path
// and bare paths use SQLite.
func Open(ctx context.Context, databaseURL string) (Store, error) {
	var (
		store Store
		err   error
	)
	switch {
	case strings.HasPrefix(databaseURL, "postgres://"), strings.HasPrefix(databaseURL, "postgresql://"):
		store, err = Connect(ctx, databaseURL)
	default:
		store, err = OpenSQLite(ctx, sqlitePath(databaseURL))
	}
	if err != nil {
		return nil, err
	}
	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func sqlitePath(databaseURL string) string {
	switch {
	case strings.HasPrefix(databaseURL, "sqlite://"):
		return strings.TrimPrefix(databaseURL, "sqlite://")
	case strings.HasPrefix(databaseURL, "sqlite:"):
		return strings.TrimPrefix(databaseURL, "sqlite:")
	case databaseURL == "":
		return "job-agent.db"
	}
	return databaseURL
}

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Migrate creates the tables if they do not exist yet
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range postgresSchema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
