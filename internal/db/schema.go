package db

// A partial unique index on url keeps one row per non-empty URL. Imported
// postings without a URL are deduplicated on title, company and location in code.

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS saved_jobs (
		id         BIGSERIAL PRIMARY KEY,
		title      TEXT NOT NULL,
		company    TEXT NOT NULL DEFAULT '',
		location   TEXT NOT NULL DEFAULT '',
		url        TEXT NOT NULL DEFAULT '',
		snippet    TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'Saved',
		notes      TEXT NOT NULL DEFAULT '',
		due_date   TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS saved_jobs_url_key ON saved_jobs (url) WHERE url <> ''`,
	`CREATE TABLE IF NOT EXISTS profile (
		id          INTEGER PRIMARY KEY,
		resume_text TEXT NOT NULL DEFAULT '',
		skills      TEXT NOT NULL DEFAULT '',
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS saved_jobs (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		title      TEXT NOT NULL,
		company    TEXT NOT NULL DEFAULT '',
		location   TEXT NOT NULL DEFAULT '',
		url        TEXT NOT NULL DEFAULT '',
		snippet    TEXT NOT NULL DEFAULT '',
		status     TEXT NOT NULL DEFAULT 'Saved',
		notes      TEXT NOT NULL DEFAULT '',
		due_date   TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS saved_jobs_url_key ON saved_jobs (url) WHERE url <> ''`,
	`CREATE TABLE IF NOT EXISTS profile (
		id          INTEGER PRIMARY KEY,
		resume_text TEXT NOT NULL DEFAULT '',
		skills      TEXT NOT NULL DEFAULT '',
		updated_at  TEXT NOT NULL
	)`,
}

// profileRowID is the single profile row; the assistant serves one owner.
const profileRowID = 1
