package domain

import "time"

// WeeklySummaryRow holds one user's productivity metrics for one ISO week.
// The second counts are exact; the hour fields are rounded to two decimals.
// IdleRatio is kept unrounded.
type WeeklySummaryRow struct {
	UserID            string  `json:"user_id"`
	Year              int     `json:"iso_year"`
	Week              int     `json:"iso_week"`
	LoggedSeconds     int64   `json:"logged_seconds"`
	IdleSeconds       int64   `json:"idle_seconds"`
	ProductiveSeconds int64   `json:"productive_seconds"`
	LoggedHours       float64 `json:"logged_hours"`
	IdleHours         float64 `json:"idle_hours"`
	ProductiveHours   float64 `json:"productive_hours"`
	IdleRatio         float64 `json:"idle_ratio"`
}

// Key returns the row's ISO week.
func (r WeeklySummaryRow) Key() WeekKey {
	return WeekKey{Year: r.Year, Week: r.Week}
}

// SessionDetailRow holds the metrics of a single session. LogoutTime stays
// nil for open sessions.
type SessionDetailRow struct {
	SessionID         string     `json:"session_id"`
	UserID            string     `json:"user_id"`
	MachineID         string     `json:"machine_id"`
	LoginTime         time.Time  `json:"login_time"`
	LogoutTime        *time.Time `json:"logout_time"`
	LoggedSeconds     int64      `json:"logged_seconds"`
	IdleSeconds       int64      `json:"idle_seconds"`
	ProductiveSeconds int64      `json:"productive_seconds"`
	LoggedHours       float64    `json:"logged_hours"`
	IdleHours         float64    `json:"idle_hours"`
	ProductiveHours   float64    `json:"productive_hours"`
}

// CounterMismatch records a closed session whose running idle counter
// disagrees with the sum of its idle intervals.
type CounterMismatch struct {
	SessionID       string `json:"session_id"`
	CounterSeconds  int64  `json:"counter_seconds"`
	IntervalSeconds int64  `json:"interval_seconds"`
}
