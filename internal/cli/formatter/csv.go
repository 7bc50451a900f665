package formatter

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
)

var (
	summaryCSVHeader = []string{
		"user_id", "iso_year", "iso_week",
		"logged_hours", "idle_hours", "productive_hours", "idle_ratio",
		"logged_seconds", "idle_seconds", "productive_seconds",
	}
	detailsCSVHeader = []string{
		"session_id", "user_id", "machine_id", "login_time", "logout_time",
		"logged_hours", "idle_hours", "productive_hours",
	}
)

// WriteSummaryCSV writes the weekly summary with a header row. Ratios keep
// four decimals; hours keep the two already applied.
func WriteSummaryCSV(w io.Writer, rows []domain.WeeklySummaryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.UserID,
			strconv.Itoa(r.Year),
			strconv.Itoa(r.Week),
			FormatHours(r.LoggedHours),
			FormatHours(r.IdleHours),
			FormatHours(r.ProductiveHours),
			strconv.FormatFloat(r.IdleRatio, 'f', 4, 64),
			strconv.FormatInt(r.LoggedSeconds, 10),
			strconv.FormatInt(r.IdleSeconds, 10),
			strconv.FormatInt(r.ProductiveSeconds, 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDetailsCSV writes one row per session. Open sessions have an empty
// logout_time.
func WriteDetailsCSV(w io.Writer, rows []domain.SessionDetailRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(detailsCSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		logout := ""
		if r.LogoutTime != nil {
			logout = r.LogoutTime.Format(time.RFC3339)
		}
		rec := []string{
			r.SessionID,
			r.UserID,
			r.MachineID,
			r.LoginTime.Format(time.RFC3339),
			logout,
			FormatHours(r.LoggedHours),
			FormatHours(r.IdleHours),
			FormatHours(r.ProductiveHours),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
