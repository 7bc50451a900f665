package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/workweek/internal/app"
	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/alexanderramin/workweek/internal/productivity"
)

type reportService struct {
	store    RecordStore
	loc      *time.Location
	observer UseCaseObserver
}

// NewReportService builds weekly reports from store. Weeks are bucketed in
// loc; a nil loc means UTC.
func NewReportService(store RecordStore, loc *time.Location, observers ...UseCaseObserver) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportService{
		store:    store,
		loc:      loc,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *reportService) WeeklyReport(ctx context.Context, req app.ReportRequest) (resp *app.ReportResponse, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "weekly-report", fields)(&err)

	now := time.Now()
	if req.Now != nil {
		now = *req.Now
	}
	now = now.In(s.loc)

	week, err := resolveWeek(req, now)
	if err != nil {
		return nil, err
	}
	fields["week"] = week.String()

	from, to := productivity.WeekRange(week, s.loc)
	snap, err := s.store.Snapshot(ctx, from, to)
	if err != nil {
		return nil, err
	}
	localize(&snap, s.loc)
	fields["sessions"] = len(snap.Sessions)
	fields["idle_intervals"] = len(snap.Idle)

	report, err := productivity.Compute(snap, now, week)
	if err != nil {
		return nil, fmt.Errorf("computing report for %s: %w", week, err)
	}

	resp = &app.ReportResponse{
		Week:        week,
		WeekStart:   from,
		WeekEnd:     to,
		GeneratedAt: now,
		Summary:     report.Summary,
		Details:     report.Details,
		Mismatches:  report.Mismatches,
	}
	if req.UserID != "" {
		filterByUser(resp, req.UserID)
	}
	if resp.Summary == nil {
		resp.Summary = []domain.WeeklySummaryRow{}
	}
	if resp.Details == nil {
		resp.Details = []domain.SessionDetailRow{}
	}
	for _, m := range resp.Mismatches {
		resp.Warnings = append(resp.Warnings, fmt.Sprintf(
			"session %s: idle counter %ds disagrees with recorded intervals %ds",
			m.SessionID, m.CounterSeconds, m.IntervalSeconds))
	}
	fields["rows"] = len(resp.Summary)
	return resp, nil
}

// resolveWeek picks the requested week, or the week containing now.
func resolveWeek(req app.ReportRequest, now time.Time) (domain.WeekKey, error) {
	if req.Year == nil && req.Week == nil {
		return productivity.WeekOf(now)
	}
	if req.Year == nil || req.Week == nil {
		return domain.WeekKey{}, &app.ReportError{
			Code:    app.ReportErrInvalidWeek,
			Message: "year and week must be given together",
		}
	}
	week := domain.WeekKey{Year: *req.Year, Week: *req.Week}
	if err := productivity.ValidateWeek(week); err != nil {
		return domain.WeekKey{}, &app.ReportError{Code: app.ReportErrInvalidWeek, Message: err.Error()}
	}
	return week, nil
}

// localize moves every timestamp into loc so ISO weeks are evaluated there.
func localize(snap *productivity.Snapshot, loc *time.Location) {
	for i := range snap.Sessions {
		s := &snap.Sessions[i]
		s.LoginTime = s.LoginTime.In(loc)
		if s.LogoutTime != nil {
			out := s.LogoutTime.In(loc)
			s.LogoutTime = &out
		}
	}
	for i := range snap.Idle {
		snap.Idle[i].IdleStart = snap.Idle[i].IdleStart.In(loc)
	}
}

func filterByUser(resp *app.ReportResponse, userID string) {
	summary := resp.Summary[:0:0]
	for _, r := range resp.Summary {
		if r.UserID == userID {
			summary = append(summary, r)
		}
	}
	details := resp.Details[:0:0]
	owned := make(map[string]bool)
	for _, d := range resp.Details {
		if d.UserID == userID {
			details = append(details, d)
			owned[d.SessionID] = true
		}
	}
	var mismatches []domain.CounterMismatch
	for _, m := range resp.Mismatches {
		if owned[m.SessionID] {
			mismatches = append(mismatches, m)
		}
	}
	resp.Summary, resp.Details, resp.Mismatches = summary, details, mismatches
}

// IsInvalidWeek reports whether err came from an impossible year/week request.
func IsInvalidWeek(err error) bool {
	var re *app.ReportError
	return errors.As(err, &re) && re.Code == app.ReportErrInvalidWeek
}
