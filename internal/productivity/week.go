package productivity

import (
	"fmt"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
)

// WeekOf returns the ISO-8601 week containing t, evaluated in t's own
// location. Weeks start on Monday and week 1 is the week holding the year's
// first Thursday, so late-December and early-January dates can belong to the
// neighbouring ISO year.
func WeekOf(t time.Time) (domain.WeekKey, error) {
	if t.IsZero() {
		return domain.WeekKey{}, fmt.Errorf("bucketing timestamp: %w", domain.ErrInvalidTimestamp)
	}
	year, week := t.ISOWeek()
	return domain.WeekKey{Year: year, Week: week}, nil
}

// WeeksInYear returns 52 or 53, the number of ISO weeks in the given ISO year.
func WeeksInYear(year int) int {
	// December 28 always falls in the last ISO week of its year.
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// ValidateWeek rejects week numbers outside the range of the given ISO year.
func ValidateWeek(k domain.WeekKey) error {
	if k.Year < 1 || k.Year > 9999 {
		return fmt.Errorf("year %d out of range: %w", k.Year, domain.ErrInvalidWeek)
	}
	if k.Week < 1 || k.Week > WeeksInYear(k.Year) {
		return fmt.Errorf("week %d of %d: %w", k.Week, k.Year, domain.ErrInvalidWeek)
	}
	return nil
}

// WeekStart returns Monday 00:00 of week k in loc.
func WeekStart(k domain.WeekKey, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	// January 4 is always in week 1.
	jan4 := time.Date(k.Year, time.January, 4, 0, 0, 0, 0, loc)
	sinceMonday := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -sinceMonday+(k.Week-1)*7)
}

// WeekRange returns the half-open interval [start, end) covered by week k in loc.
func WeekRange(k domain.WeekKey, loc *time.Location) (time.Time, time.Time) {
	start := WeekStart(k, loc)
	return start, start.AddDate(0, 0, 7)
}
