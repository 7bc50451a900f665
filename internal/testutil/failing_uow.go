package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/alexanderramin/workweek/internal/db"
)

// FailOnNthExecUoW fails the FailOn-th write of a transaction with Err. In
// RecordIdle the first write inserts the idle interval and the second bumps
// the session's total_idle_seconds, so FailOn 2 checks that a failed counter
// update also discards the interval. Reads are not counted.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error

	execs atomic.Int32
}

// Execs reports how many writes the most recent transaction attempted,
// including the one that failed.
func (u *FailOnNthExecUoW) Execs() int {
	return int(u.execs.Load())
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	u.execs.Store(0)
	wrapped := &failOnNthExec{DBTX: tx, count: &u.execs, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  *atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.count.Add(1) == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
