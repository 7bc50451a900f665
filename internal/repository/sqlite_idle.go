package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/workweek/internal/db"
	"github.com/alexanderramin/workweek/internal/domain"
)

const idleColumns = `id, session_id, idle_start, duration_seconds`

// SQLiteIdleIntervalRepo implements IdleIntervalRepo using a SQLite database.
type SQLiteIdleIntervalRepo struct {
	db db.DBTX
}

func NewSQLiteIdleIntervalRepo(conn db.DBTX) *SQLiteIdleIntervalRepo {
	return &SQLiteIdleIntervalRepo{db: conn}
}

func (r *SQLiteIdleIntervalRepo) Create(ctx context.Context, iv *domain.IdleInterval) error {
	query := `INSERT INTO idle_intervals (id, session_id, idle_start, duration_seconds, created_at)
		VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		iv.ID,
		iv.SessionID,
		timeToString(iv.IdleStart),
		iv.DurationSeconds,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting idle interval: %w", err)
	}
	return nil
}

func (r *SQLiteIdleIntervalRepo) ListBySession(ctx context.Context, sessionID string) ([]*domain.IdleInterval, error) {
	query := `SELECT ` + idleColumns + ` FROM idle_intervals WHERE session_id = ? ORDER BY idle_start, id`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing idle intervals by session: %w", err)
	}
	defer rows.Close()
	return scanIdleIntervals(rows)
}

func (r *SQLiteIdleIntervalRepo) ListBySessionIDs(ctx context.Context, sessionIDs []string) ([]*domain.IdleInterval, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	marks, args := placeholders(sessionIDs)
	query := `SELECT ` + idleColumns + ` FROM idle_intervals WHERE session_id IN (` + marks + `) ORDER BY idle_start, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing idle intervals by sessions: %w", err)
	}
	defer rows.Close()
	return scanIdleIntervals(rows)
}

// ListStartedBetween returns idle intervals whose start falls in [from, to).
func (r *SQLiteIdleIntervalRepo) ListStartedBetween(ctx context.Context, from, to time.Time) ([]*domain.IdleInterval, error) {
	query := `SELECT ` + idleColumns + ` FROM idle_intervals
		WHERE idle_start >= ? AND idle_start < ?
		ORDER BY idle_start, id`
	rows, err := r.db.QueryContext(ctx, query, timeToString(from), timeToString(to))
	if err != nil {
		return nil, fmt.Errorf("listing idle intervals by start range: %w", err)
	}
	defer rows.Close()
	return scanIdleIntervals(rows)
}

func (r *SQLiteIdleIntervalRepo) SumBySession(ctx context.Context, sessionID string) (int64, error) {
	var total int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(duration_seconds), 0) FROM idle_intervals WHERE session_id = ?`, sessionID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("summing idle intervals: %w", err)
	}
	return total, nil
}

func scanIdleIntervals(rows *sql.Rows) ([]*domain.IdleInterval, error) {
	var out []*domain.IdleInterval
	for rows.Next() {
		var iv domain.IdleInterval
		var startStr string
		if err := rows.Scan(&iv.ID, &iv.SessionID, &startStr, &iv.DurationSeconds); err != nil {
			return nil, fmt.Errorf("scanning idle interval: %w", err)
		}
		start, err := time.Parse(timeLayout, startStr)
		if err != nil {
			return nil, fmt.Errorf("parsing idle_start of interval %s: %w", iv.ID, err)
		}
		iv.IdleStart = start
		out = append(out, &iv)
	}
	if err := wrapRowsErr("idle intervals", rows.Err()); err != nil {
		return nil, err
	}
	return out, nil
}
