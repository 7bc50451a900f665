package app

import (
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
)

// ReportRequest selects one ISO week. Year and Week must be given together;
// when both are nil the week containing Now is reported.
type ReportRequest struct {
	Year   *int
	Week   *int
	Now    *time.Time
	UserID string
}

func NewReportRequest() ReportRequest {
	return ReportRequest{}
}

// ForWeek returns a copy of r pinned to the given ISO week.
func (r ReportRequest) ForWeek(year, week int) ReportRequest {
	r.Year = &year
	r.Week = &week
	return r
}

type ReportResponse struct {
	Week        domain.WeekKey            `json:"week"`
	WeekStart   time.Time                 `json:"week_start"`
	WeekEnd     time.Time                 `json:"week_end"`
	GeneratedAt time.Time                 `json:"generated_at"`
	Summary     []domain.WeeklySummaryRow `json:"summary"`
	Details     []domain.SessionDetailRow `json:"details"`
	Mismatches  []domain.CounterMismatch  `json:"mismatches,omitempty"`
	Warnings    []string                  `json:"warnings,omitempty"`
}

type ReportErrorCode string

const (
	ReportErrInvalidWeek ReportErrorCode = "INVALID_WEEK"
)

type ReportError struct {
	Code    ReportErrorCode
	Message string
}

func (e *ReportError) Error() string {
	return string(e.Code) + ": " + e.Message
}
