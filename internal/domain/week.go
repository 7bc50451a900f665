package domain

import "fmt"

// WeekKey identifies an ISO-8601 week. Year is the ISO week-numbering year,
// which differs from the calendar year around January 1.
type WeekKey struct {
	Year int `json:"iso_year"`
	Week int `json:"iso_week"`
}

func (k WeekKey) String() string {
	return fmt.Sprintf("%04d-W%02d", k.Year, k.Week)
}

// Less orders week keys chronologically.
func (k WeekKey) Less(o WeekKey) bool {
	if k.Year != o.Year {
		return k.Year < o.Year
	}
	return k.Week < o.Week
}
