package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/workweek/internal/db"
	"github.com/alexanderramin/workweek/internal/domain"
)

const sessionColumns = `id, user_id, machine_id, login_time, logout_time, total_idle_seconds`

// SQLiteSessionRepo implements SessionRepo using a SQLite database.
type SQLiteSessionRepo struct {
	db db.DBTX
}

// NewSQLiteSessionRepo creates a new SQLiteSessionRepo. conn may be a *sql.DB
// or a transaction handed out by a UnitOfWork.
func NewSQLiteSessionRepo(conn db.DBTX) *SQLiteSessionRepo {
	return &SQLiteSessionRepo{db: conn}
}

func (r *SQLiteSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	query := `INSERT INTO sessions (id, user_id, machine_id, login_time, logout_time, total_idle_seconds, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.MachineID,
		timeToString(s.LoginTime),
		nullableTimeToString(s.LogoutTime),
		s.TotalIdleSeconds,
		nowUTC(),
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

func (r *SQLiteSessionRepo) GetByID(ctx context.Context, id string) (*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)
	return r.scanSession(row)
}

func (r *SQLiteSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	query := `UPDATE sessions SET user_id = ?, machine_id = ?, login_time = ?, logout_time = ?, total_idle_seconds = ?
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query,
		s.UserID,
		s.MachineID,
		timeToString(s.LoginTime),
		nullableTimeToString(s.LogoutTime),
		s.TotalIdleSeconds,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	return requireAffected(res, "session")
}

// AddIdleSeconds increments the running idle counter in a single statement.
func (r *SQLiteSessionRepo) AddIdleSeconds(ctx context.Context, id string, seconds int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET total_idle_seconds = total_idle_seconds + ? WHERE id = ?`, seconds, id)
	if err != nil {
		return fmt.Errorf("incrementing idle counter: %w", err)
	}
	return requireAffected(res, "session")
}

func (r *SQLiteSessionRepo) List(ctx context.Context, f SessionFilter) ([]*domain.Session, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, f.UserID)
	}
	if f.MachineID != "" {
		where = append(where, "machine_id = ?")
		args = append(args, f.MachineID)
	}
	if f.OpenOnly {
		where = append(where, "logout_time IS NULL")
	}
	if f.LoginFrom != nil {
		where = append(where, "login_time >= ?")
		args = append(args, timeToString(*f.LoginFrom))
	}
	if f.LoginTo != nil {
		where = append(where, "login_time < ?")
		args = append(args, timeToString(*f.LoginTo))
	}

	query := `SELECT ` + sessionColumns + ` FROM sessions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY login_time DESC, id`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) ListByIDs(ctx context.Context, ids []string) ([]*domain.Session, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	marks, args := placeholders(ids)
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE id IN (` + marks + `) ORDER BY login_time, id`
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions by id: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

// ListLoggedInBetween returns sessions whose login falls in [from, to).
func (r *SQLiteSessionRepo) ListLoggedInBetween(ctx context.Context, from, to time.Time) ([]*domain.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions
		WHERE login_time >= ? AND login_time < ?
		ORDER BY login_time, id`
	rows, err := r.db.QueryContext(ctx, query, timeToString(from), timeToString(to))
	if err != nil {
		return nil, fmt.Errorf("listing sessions by login range: %w", err)
	}
	defer rows.Close()
	return r.scanSessions(rows)
}

func (r *SQLiteSessionRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanSession scans a single session from a *sql.Row.
func (r *SQLiteSessionRepo) scanSession(row *sql.Row) (*domain.Session, error) {
	s, err := r.scanInto(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("session: %w", ErrNotFound)
		}
		return nil, err
	}
	return s, nil
}

// scanSessions scans multiple sessions from *sql.Rows.
func (r *SQLiteSessionRepo) scanSessions(rows *sql.Rows) ([]*domain.Session, error) {
	var sessions []*domain.Session
	for rows.Next() {
		s, err := r.scanInto(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	if err := wrapRowsErr("sessions", rows.Err()); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SQLiteSessionRepo) scanInto(sc rowScanner) (*domain.Session, error) {
	var s domain.Session
	var loginStr string
	var logoutStr sql.NullString

	if err := sc.Scan(&s.ID, &s.UserID, &s.MachineID, &loginStr, &logoutStr, &s.TotalIdleSeconds); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}
	return populateSession(&s, loginStr, logoutStr)
}

// populateSession fills in parsed time fields after scanning raw strings.
func populateSession(s *domain.Session, loginStr string, logoutStr sql.NullString) (*domain.Session, error) {
	var err error
	s.LoginTime, err = time.Parse(timeLayout, loginStr)
	if err != nil {
		return nil, fmt.Errorf("parsing login_time of session %s: %w", s.ID, err)
	}
	s.LogoutTime, err = parseNullableTime(logoutStr)
	if err != nil {
		return nil, fmt.Errorf("parsing logout_time of session %s: %w", s.ID, err)
	}
	return s, nil
}

func requireAffected(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, ErrNotFound)
	}
	return nil
}
