package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/workweek/internal/contract"
	"github.com/alexanderramin/workweek/internal/domain"
)

// ReportOptions controls FormatWeeklyReport. HighlightRatio is used as
// given; zero highlights every row with any idle time.
type ReportOptions struct {
	HighlightRatio float64
	HideDetails    bool
}

var (
	summaryHeaders = []string{"USER", "LOGGED", "IDLE", "PRODUCTIVE", "IDLE %"}
	summaryAlign   = []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight}
	detailHeaders  = []string{"SESSION", "USER", "MACHINE", "LOGIN", "LOGOUT", "LOGGED", "IDLE", "PRODUCTIVE"}
	detailAlign    = []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight}
)

// FormatWeeklyReport renders the summary box, the session table and any
// counter warnings for one week.
func FormatWeeklyReport(resp *contract.ReportResponse, opts ReportOptions) string {
	var b strings.Builder

	b.WriteString(Header("Week " + resp.Week.String()))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("%s to %s, generated %s",
		resp.WeekStart.Format("Mon Jan 2"),
		resp.WeekEnd.AddDate(0, 0, -1).Format("Mon Jan 2 2006"),
		resp.GeneratedAt.Format("2006-01-02 15:04 MST"))))
	b.WriteString("\n\n")

	if len(resp.Summary) == 0 {
		b.WriteString(Dim(fmt.Sprintf("No activity recorded for week %s.", resp.Week)))
		b.WriteString("\n")
	} else {
		b.WriteString(RenderBox("Summary", strings.TrimSuffix(FormatSummaryTable(resp.Summary, opts.HighlightRatio), "\n")))
		b.WriteString("\n")
	}

	if !opts.HideDetails {
		b.WriteString("\n")
		b.WriteString(Header("Sessions"))
		b.WriteString("\n")
		if len(resp.Details) == 0 {
			b.WriteString(Dim(fmt.Sprintf("No sessions logged in during week %s.", resp.Week)))
			b.WriteString("\n")
		} else {
			b.WriteString(FormatDetailsTable(resp.Details))
		}
	}

	if len(resp.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range resp.Warnings {
			b.WriteString(StyleYellow.Render("! " + w))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// FormatSummaryTable renders one line per user and week. Rows whose idle
// ratio exceeds highlight are drawn in red.
func FormatSummaryTable(rows []domain.WeeklySummaryRow, highlight float64) string {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		user := r.UserID
		ratio := FormatRatio(r.IdleRatio)
		if r.IdleRatio > highlight {
			user = StyleRed.Render(user)
			ratio = StyleRed.Render(ratio)
		}
		cells = append(cells, []string{
			user,
			FormatHours(r.LoggedHours),
			FormatHours(r.IdleHours),
			FormatHours(r.ProductiveHours),
			ratio,
		})
	}
	return RenderAlignedTable(summaryHeaders, summaryAlign, cells)
}

// FormatDetailsTable renders one line per session, newest first as given.
func FormatDetailsTable(rows []domain.SessionDetailRow) string {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		logout := StyleGreen.Render("open")
		if r.LogoutTime != nil {
			logout = FormatClock(*r.LogoutTime)
		}
		machine := r.MachineID
		if machine == "" {
			machine = "-"
		}
		cells = append(cells, []string{
			TruncID(r.SessionID),
			r.UserID,
			machine,
			FormatClock(r.LoginTime),
			logout,
			FormatHours(r.LoggedHours),
			FormatHours(r.IdleHours),
			FormatHours(r.ProductiveHours),
		})
	}
	return RenderAlignedTable(detailHeaders, detailAlign, cells)
}
