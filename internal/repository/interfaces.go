package repository

import (
	"context"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
)

// SessionFilter narrows SessionRepo.List. Zero values mean "no constraint".
type SessionFilter struct {
	UserID    string
	MachineID string
	OpenOnly  bool
	// LoginFrom and LoginTo bound login_time as the half-open range [from, to).
	LoginFrom *time.Time
	LoginTo   *time.Time
	Limit     int
}

type SessionRepo interface {
	Create(ctx context.Context, s *domain.Session) error
	GetByID(ctx context.Context, id string) (*domain.Session, error)
	Update(ctx context.Context, s *domain.Session) error
	AddIdleSeconds(ctx context.Context, id string, seconds int64) error
	List(ctx context.Context, f SessionFilter) ([]*domain.Session, error)
	ListByIDs(ctx context.Context, ids []string) ([]*domain.Session, error)
	ListLoggedInBetween(ctx context.Context, from, to time.Time) ([]*domain.Session, error)
	Delete(ctx context.Context, id string) error
}

type IdleIntervalRepo interface {
	Create(ctx context.Context, iv *domain.IdleInterval) error
	ListBySession(ctx context.Context, sessionID string) ([]*domain.IdleInterval, error)
	ListBySessionIDs(ctx context.Context, sessionIDs []string) ([]*domain.IdleInterval, error)
	ListStartedBetween(ctx context.Context, from, to time.Time) ([]*domain.IdleInterval, error)
	SumBySession(ctx context.Context, sessionID string) (int64, error)
}
