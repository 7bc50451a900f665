package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/workweek/internal/db"
	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/alexanderramin/workweek/internal/repository"
	"github.com/google/uuid"
)

type trackingService struct {
	sessions repository.SessionRepo
	idle     repository.IdleIntervalRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
	now      func() time.Time
}

func NewTrackingService(
	sessions repository.SessionRepo,
	idle repository.IdleIntervalRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) TrackingService {
	return &trackingService{
		sessions: sessions,
		idle:     idle,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		now:      time.Now,
	}
}

// stamp normalizes a caller timestamp to whole UTC seconds, defaulting to now.
func (s *trackingService) stamp(at time.Time) time.Time {
	if at.IsZero() {
		at = s.now()
	}
	return at.UTC().Truncate(time.Second)
}

func (s *trackingService) StartSession(ctx context.Context, userID, machineID string, at time.Time) (sess *domain.Session, err error) {
	defer observe(ctx, s.observer, "start-session", map[string]any{"user": userID, "machine": machineID})(&err)

	if userID == "" {
		return nil, fmt.Errorf("starting session: user id is required: %w", domain.ErrInvalidInput)
	}
	sess = &domain.Session{
		ID:        uuid.New().String(),
		UserID:    userID,
		MachineID: machineID,
		LoginTime: s.stamp(at),
	}
	if err = s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// EndSession sets the logout time and replaces the running idle counter with
// the sum of the session's recorded intervals. The logout may not precede
// the login or the end of any recorded idle interval.
func (s *trackingService) EndSession(ctx context.Context, sessionID string, at time.Time) (sess *domain.Session, err error) {
	fields := map[string]any{"session": sessionID}
	defer observe(ctx, s.observer, "end-session", fields)(&err)

	logout := s.stamp(at)
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txIdle := repository.NewSQLiteIdleIntervalRepo(tx)

		found, err := txSessions.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if !found.IsOpen() {
			return fmt.Errorf("ending session %s: %w", sessionID, domain.ErrSessionClosed)
		}
		if logout.Before(found.LoginTime) {
			return fmt.Errorf("ending session %s: logout %s precedes login %s: %w",
				sessionID, logout.Format(time.RFC3339), found.LoginTime.Format(time.RFC3339), domain.ErrDataIntegrity)
		}

		recorded, err := txIdle.ListBySession(ctx, sessionID)
		if err != nil {
			return err
		}
		var total int64
		for _, iv := range recorded {
			if logout.Before(iv.IdleEnd()) {
				return fmt.Errorf("ending session %s: logout %s precedes the end of idle interval %s at %s: %w",
					sessionID, logout.Format(time.RFC3339), iv.ID, iv.IdleEnd().Format(time.RFC3339), domain.ErrDataIntegrity)
			}
			total += iv.DurationSeconds
		}
		fields["counter_drift_seconds"] = total - found.TotalIdleSeconds

		found.LogoutTime = &logout
		found.TotalIdleSeconds = total
		if err := txSessions.Update(ctx, found); err != nil {
			return err
		}
		sess = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sess, nil
}

// RecordIdle stores a closed idle period and adds it to the session's
// running counter in the same transaction. A negative span is recorded as
// zero seconds.
func (s *trackingService) RecordIdle(ctx context.Context, sessionID string, start, end time.Time) (iv *domain.IdleInterval, err error) {
	fields := map[string]any{"session": sessionID}
	defer observe(ctx, s.observer, "record-idle", fields)(&err)

	if start.IsZero() {
		return nil, fmt.Errorf("recording idle for session %s: start: %w", sessionID, domain.ErrInvalidTimestamp)
	}
	start = s.stamp(start)
	end = s.stamp(end)
	duration := max(int64(end.Sub(start)/time.Second), 0)
	fields["duration_seconds"] = duration

	iv = &domain.IdleInterval{
		ID:              uuid.New().String(),
		SessionID:       sessionID,
		IdleStart:       start,
		DurationSeconds: duration,
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		txIdle := repository.NewSQLiteIdleIntervalRepo(tx)

		owner, err := txSessions.GetByID(ctx, sessionID)
		if err != nil {
			return err
		}
		if start.Before(owner.LoginTime) {
			return fmt.Errorf("recording idle for session %s: start precedes login: %w", sessionID, domain.ErrDataIntegrity)
		}
		if owner.LogoutTime != nil && iv.IdleEnd().After(*owner.LogoutTime) {
			return fmt.Errorf("recording idle for session %s: idle ends after logout: %w", sessionID, domain.ErrDataIntegrity)
		}

		if err := txIdle.Create(ctx, iv); err != nil {
			return err
		}
		return txSessions.AddIdleSeconds(ctx, sessionID, duration)
	})
	if err != nil {
		return nil, err
	}
	return iv, nil
}

func (s *trackingService) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	return s.sessions.GetByID(ctx, id)
}

func (s *trackingService) ListSessions(ctx context.Context, f repository.SessionFilter) ([]*domain.Session, error) {
	return s.sessions.List(ctx, f)
}

func (s *trackingService) OpenSessions(ctx context.Context, userID string) ([]*domain.Session, error) {
	return s.sessions.List(ctx, repository.SessionFilter{UserID: userID, OpenOnly: true})
}

// DeleteSession removes a session; its idle intervals go with it.
func (s *trackingService) DeleteSession(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-session", map[string]any{"session": id})(&err)

	return s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txSessions := repository.NewSQLiteSessionRepo(tx)
		if _, err := txSessions.GetByID(ctx, id); err != nil {
			return err
		}
		return txSessions.Delete(ctx, id)
	})
}
