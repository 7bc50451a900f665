package productivity

import (
	"sort"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
)

// bucketKey groups metrics by user and ISO week.
type bucketKey struct {
	userID string
	week   domain.WeekKey
}

// Aggregate groups sessions and idle intervals into one WeeklySummaryRow per
// (user, ISO week) that has at least one session logged in during that week.
//
// Logged time is bucketed by the session's login instant; open sessions run
// until now. Idle time is bucketed by each interval's own start, which may
// land in a different week than its session. The two sides are left-joined
// on the logged buckets: a bucket with no idle reports zero idle, and idle
// buckets without logged time are dropped.
//
// When filter is non-nil only that week is reported. Passing a snapshot that
// was already restricted to the week yields the same rows.
func Aggregate(sessions []domain.Session, idle []domain.IdleInterval, now time.Time, filter *domain.WeekKey) ([]domain.WeeklySummaryRow, error) {
	if err := Validate(sessions, idle, now); err != nil {
		return nil, err
	}
	return aggregate(sessions, idle, now, filter)
}

// aggregate assumes the snapshot has passed Validate.
func aggregate(sessions []domain.Session, idle []domain.IdleInterval, now time.Time, filter *domain.WeekKey) ([]domain.WeeklySummaryRow, error) {
	owners := make(map[string]string, len(sessions))
	logged := make(map[bucketKey]int64)
	for i := range sessions {
		s := &sessions[i]
		owners[s.ID] = s.UserID

		week, err := WeekOf(s.LoginTime)
		if err != nil {
			return nil, err
		}
		if filter != nil && week != *filter {
			continue
		}
		logged[bucketKey{userID: s.UserID, week: week}] += s.LoggedSeconds(now)
	}

	idleSecs := make(map[bucketKey]int64)
	for _, iv := range idle {
		week, err := WeekOf(iv.IdleStart)
		if err != nil {
			return nil, err
		}
		if filter != nil && week != *filter {
			continue
		}
		idleSecs[bucketKey{userID: owners[iv.SessionID], week: week}] += iv.DurationSeconds
	}

	rows := make([]domain.WeeklySummaryRow, 0, len(logged))
	for key, loggedSecs := range logged {
		rows = append(rows, summaryRow(key, loggedSecs, idleSecs[key]))
	}
	SortSummary(rows)
	return rows, nil
}

func summaryRow(key bucketKey, logged, idle int64) domain.WeeklySummaryRow {
	productive := logged - idle
	return domain.WeeklySummaryRow{
		UserID:            key.userID,
		Year:              key.week.Year,
		Week:              key.week.Week,
		LoggedSeconds:     logged,
		IdleSeconds:       idle,
		ProductiveSeconds: productive,
		LoggedHours:       Hours(logged),
		IdleHours:         Hours(idle),
		ProductiveHours:   Hours(productive),
		IdleRatio:         Ratio(idle, logged),
	}
}

// SortSummary orders rows by the canonical report rules:
// 1. Idle ratio: highest first
// 2. User ID: lexical ascending
// 3. ISO week: oldest first
func SortSummary(rows []domain.WeeklySummaryRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.IdleRatio != b.IdleRatio {
			return a.IdleRatio > b.IdleRatio
		}
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		return a.Key().Less(b.Key())
	})
}
