package db_test

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/workweek/internal/db"
	"github.com/alexanderramin/workweek/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openUoW(t *testing.T) (*db.SQLiteUnitOfWork, func(string) int) {
	t.Helper()
	database := testutil.NewTestDB(t)
	count := func(table string) int { return testutil.CountRows(t, database, table) }
	return db.NewSQLiteUnitOfWork(database), count
}

func insertSessionWithIdle(ctx context.Context, tx db.DBTX) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO sessions (id, user_id, login_time, created_at)
		VALUES ('s1', 'alice', '2025-01-06T09:00:00Z', '2025-01-06T09:00:00Z')`); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `INSERT INTO idle_intervals (id, session_id, idle_start, duration_seconds, created_at)
		VALUES ('i1', 's1', '2025-01-06T09:30:00Z', 120, '2025-01-06T09:32:00Z')`)
	return err
}

func TestWithinTx_CommitOnSuccess(t *testing.T) {
	uow, count := openUoW(t)

	err := uow.WithinTx(context.Background(), insertSessionWithIdle)
	require.NoError(t, err)

	assert.Equal(t, 1, count("sessions"))
	assert.Equal(t, 1, count("idle_intervals"))
}

func TestWithinTx_RollbackOnError(t *testing.T) {
	uow, count := openUoW(t)
	boom := errors.New("counter update failed")

	err := uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
		if err := insertSessionWithIdle(ctx, tx); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	assert.Equal(t, 0, count("sessions"), "session insert should roll back")
	assert.Equal(t, 0, count("idle_intervals"), "idle insert should roll back")
}

func TestWithinTx_RollbackOnPanic(t *testing.T) {
	uow, count := openUoW(t)

	assert.Panics(t, func() {
		_ = uow.WithinTx(context.Background(), func(ctx context.Context, tx db.DBTX) error {
			_ = insertSessionWithIdle(ctx, tx)
			panic("boom")
		})
	})

	assert.Equal(t, 0, count("sessions"))
}

func TestWithinTx_CancelledContextSkipsWork(t *testing.T) {
	uow, count := openUoW(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		called = true
		return insertSessionWithIdle(ctx, tx)
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
	assert.Equal(t, 0, count("sessions"))
}

func TestWithinTx_SuccessiveUnitsSeeEarlierCommits(t *testing.T) {
	uow, count := openUoW(t)
	ctx := context.Background()

	require.NoError(t, uow.WithinTx(ctx, insertSessionWithIdle))
	err := uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx, `UPDATE sessions SET total_idle_seconds = total_idle_seconds + 120 WHERE id = 's1'`)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count("idle_intervals"))

	var total int64
	err = uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return tx.QueryRowContext(ctx, `SELECT total_idle_seconds FROM sessions WHERE id = 's1'`).Scan(&total)
	})
	require.NoError(t, err)
	assert.Equal(t, int64(120), total)
}
