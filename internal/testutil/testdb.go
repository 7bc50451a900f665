package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/workweek/internal/db"
)

// NewTestDB opens a private in-memory database with the sessions and
// idle_intervals schema migrated. It is closed when the test ends.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// CountRows returns the number of rows in table, which must be one of the
// tables created by the migrations.
func CountRows(t *testing.T, q db.DBTX, table string) int {
	t.Helper()
	switch table {
	case "sessions", "idle_intervals":
	default:
		t.Fatalf("CountRows: unknown table %q", table)
	}
	var n int
	if err := q.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM `+table).Scan(&n); err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}
	return n
}
