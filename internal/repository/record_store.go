package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/workweek/internal/db"
	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/alexanderramin/workweek/internal/productivity"
)

// SQLiteRecordStore loads report snapshots from the sessions and
// idle_intervals tables inside a single read transaction.
type SQLiteRecordStore struct {
	uow db.UnitOfWork
}

func NewSQLiteRecordStore(uow db.UnitOfWork) *SQLiteRecordStore {
	return &SQLiteRecordStore{uow: uow}
}

// Snapshot returns every record needed to report on [from, to):
//   - sessions logged in during the range,
//   - all idle intervals of those sessions, wherever they start,
//   - idle intervals starting in the range, and the sessions that own them.
func (s *SQLiteRecordStore) Snapshot(ctx context.Context, from, to time.Time) (productivity.Snapshot, error) {
	var snap productivity.Snapshot
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		sessions := NewSQLiteSessionRepo(tx)
		idle := NewSQLiteIdleIntervalRepo(tx)

		inRange, err := sessions.ListLoggedInBetween(ctx, from, to)
		if err != nil {
			return err
		}
		ids := make([]string, len(inRange))
		have := make(map[string]bool, len(inRange))
		for i, sess := range inRange {
			ids[i] = sess.ID
			have[sess.ID] = true
		}

		owned, err := idle.ListBySessionIDs(ctx, ids)
		if err != nil {
			return err
		}
		started, err := idle.ListStartedBetween(ctx, from, to)
		if err != nil {
			return err
		}

		seen := make(map[string]bool, len(owned)+len(started))
		var missing []string
		for _, iv := range append(owned, started...) {
			if seen[iv.ID] {
				continue
			}
			seen[iv.ID] = true
			snap.Idle = append(snap.Idle, *iv)
			if !have[iv.SessionID] {
				have[iv.SessionID] = true
				missing = append(missing, iv.SessionID)
			}
		}

		owners, err := sessions.ListByIDs(ctx, missing)
		if err != nil {
			return err
		}
		snap.Sessions = make([]domain.Session, 0, len(inRange)+len(owners))
		for _, sess := range append(inRange, owners...) {
			snap.Sessions = append(snap.Sessions, *sess)
		}
		return nil
	})
	if err != nil {
		return productivity.Snapshot{}, fmt.Errorf("loading snapshot: %w", err)
	}
	return snap, nil
}
