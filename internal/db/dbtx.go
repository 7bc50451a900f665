package db

import (
	"context"
	"database/sql"
)

// DBTX is what the session and idle-interval repositories run their SQL
// against. A *sql.DB gives autocommit reads for the CLI and HTTP views; a
// *sql.Tx from WithinTx lets an idle insert and the owning session's
// total_idle_seconds increment commit together.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)
