package app

import (
	"context"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
)

type ReportUseCase interface {
	WeeklyReport(ctx context.Context, req ReportRequest) (*ReportResponse, error)
}

type TrackingUseCase interface {
	StartSession(ctx context.Context, userID, machineID string, at time.Time) (*domain.Session, error)
	EndSession(ctx context.Context, sessionID string, at time.Time) (*domain.Session, error)
	RecordIdle(ctx context.Context, sessionID string, start, end time.Time) (*domain.IdleInterval, error)
}
