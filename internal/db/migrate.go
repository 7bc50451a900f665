package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent so the
// full list is replayed on each open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

// Timestamps are stored as UTC RFC3339 text so lexical order matches
// chronological order in range queries.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL,
		machine_id         TEXT NOT NULL DEFAULT '',
		login_time         TEXT NOT NULL,
		logout_time        TEXT,
		total_idle_seconds INTEGER NOT NULL DEFAULT 0 CHECK(total_idle_seconds >= 0),
		created_at         TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_login ON sessions(login_time)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id)`,

	`CREATE TABLE IF NOT EXISTS idle_intervals (
		id               TEXT PRIMARY KEY,
		session_id       TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
		idle_start       TEXT NOT NULL,
		duration_seconds INTEGER NOT NULL CHECK(duration_seconds >= 0),
		created_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_idle_session ON idle_intervals(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_idle_start ON idle_intervals(idle_start)`,
}
