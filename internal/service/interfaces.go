package service

import (
	"context"
	"time"

	"github.com/alexanderramin/workweek/internal/contract"
	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/alexanderramin/workweek/internal/productivity"
	"github.com/alexanderramin/workweek/internal/repository"
)

// RecordStore loads everything needed to report on the half-open range
// [from, to): sessions logged in during it with all of their idle
// intervals, plus idle intervals starting in it and their owning sessions.
type RecordStore interface {
	Snapshot(ctx context.Context, from, to time.Time) (productivity.Snapshot, error)
}

type ReportService interface {
	WeeklyReport(ctx context.Context, req contract.ReportRequest) (*contract.ReportResponse, error)
}

type TrackingService interface {
	StartSession(ctx context.Context, userID, machineID string, at time.Time) (*domain.Session, error)
	EndSession(ctx context.Context, sessionID string, at time.Time) (*domain.Session, error)
	RecordIdle(ctx context.Context, sessionID string, start, end time.Time) (*domain.IdleInterval, error)
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	ListSessions(ctx context.Context, f repository.SessionFilter) ([]*domain.Session, error)
	OpenSessions(ctx context.Context, userID string) ([]*domain.Session, error)
	DeleteSession(ctx context.Context, id string) error
}
