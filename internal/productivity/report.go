// Package productivity turns session and idle-interval snapshots into weekly
// productivity metrics. Everything here is a pure function of its inputs and
// the evaluation instant; callers fix one "now" per report.
package productivity

import (
	"sort"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
)

// Snapshot is an immutable set of records handed to the engine.
type Snapshot struct {
	Sessions []domain.Session
	Idle     []domain.IdleInterval
}

// Report is the result of computing one ISO week.
type Report struct {
	Week       domain.WeekKey
	Summary    []domain.WeeklySummaryRow
	Details    []domain.SessionDetailRow
	Mismatches []domain.CounterMismatch
}

// Compute validates snap once and derives the summary rows, detail rows and
// counter cross-check for week, all against the same now.
func Compute(snap Snapshot, now time.Time, week domain.WeekKey) (Report, error) {
	if err := ValidateWeek(week); err != nil {
		return Report{}, err
	}
	if err := Validate(snap.Sessions, snap.Idle, now); err != nil {
		return Report{}, err
	}

	summary, err := aggregate(snap.Sessions, snap.Idle, now, &week)
	if err != nil {
		return Report{}, err
	}

	return Report{
		Week:       week,
		Summary:    summary,
		Details:    ProjectDetails(snap.Sessions, now, &week),
		Mismatches: CrossCheck(snap, &week),
	}, nil
}

// CrossCheck compares each closed session's running idle counter with the sum
// of its idle intervals. Open sessions are skipped because their counter only
// settles at logout. When filter is non-nil only sessions logged in during
// that week are checked; their intervals must all be present in snap.
func CrossCheck(snap Snapshot, filter *domain.WeekKey) []domain.CounterMismatch {
	sums := make(map[string]int64, len(snap.Sessions))
	for _, iv := range snap.Idle {
		sums[iv.SessionID] += iv.DurationSeconds
	}

	var out []domain.CounterMismatch
	for i := range snap.Sessions {
		s := &snap.Sessions[i]
		if s.IsOpen() {
			continue
		}
		if filter != nil {
			week, err := WeekOf(s.LoginTime)
			if err != nil || week != *filter {
				continue
			}
		}
		if sum := sums[s.ID]; sum != s.TotalIdleSeconds {
			out = append(out, domain.CounterMismatch{
				SessionID:       s.ID,
				CounterSeconds:  s.TotalIdleSeconds,
				IntervalSeconds: sum,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}
