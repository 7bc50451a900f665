package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/workweek/internal/contract"
	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/stretchr/testify/assert"
)

var reportOpts = ReportOptions{HighlightRatio: 0.20}

func sampleResponse() *contract.ReportResponse {
	return &contract.ReportResponse{
		Week:        domain.WeekKey{Year: 2025, Week: 2},
		WeekStart:   time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC),
		WeekEnd:     time.Date(2025, time.January, 13, 0, 0, 0, 0, time.UTC),
		GeneratedAt: time.Date(2025, time.January, 10, 12, 0, 0, 0, time.UTC),
		Summary:     goldenSummaryRows(),
		Details:     goldenDetailRows(),
	}
}

func TestFormatWeeklyReport_Sections(t *testing.T) {
	out := stripANSI(FormatWeeklyReport(sampleResponse(), reportOpts))

	assert.Contains(t, out, "WEEK 2025-W02")
	assert.Contains(t, out, "Mon Jan 6 to Sun Jan 12 2025")
	assert.Contains(t, out, "SUMMARY")
	assert.Contains(t, out, "PRODUCTIVE")
	assert.Contains(t, out, "25.0%")
	assert.Contains(t, out, "SESSIONS")
	assert.Contains(t, out, "open")
	assert.NotContains(t, out, "No activity")
	assert.NotContains(t, out, "!")
}

func TestFormatWeeklyReport_HideDetails(t *testing.T) {
	out := stripANSI(FormatWeeklyReport(sampleResponse(), ReportOptions{HighlightRatio: 0.20, HideDetails: true}))
	assert.Contains(t, out, "SUMMARY")
	assert.NotContains(t, out, "SESSIONS")
	assert.NotContains(t, out, "3f2a9c1e")
}

func TestFormatWeeklyReport_EmptyWeek(t *testing.T) {
	resp := sampleResponse()
	resp.Summary = nil
	resp.Details = nil

	out := stripANSI(FormatWeeklyReport(resp, reportOpts))
	assert.Contains(t, out, "No activity recorded for week 2025-W02.")
	assert.Contains(t, out, "No sessions logged in during week 2025-W02.")
	assert.NotContains(t, out, "SUMMARY")
}

func TestFormatWeeklyReport_Warnings(t *testing.T) {
	resp := sampleResponse()
	resp.Warnings = []string{"session s1: idle counter 900s disagrees with recorded intervals 600s"}

	out := stripANSI(FormatWeeklyReport(resp, reportOpts))
	assert.Contains(t, out, "! session s1: idle counter 900s disagrees with recorded intervals 600s")
}

func TestFormatSummaryTable_HighlightThreshold(t *testing.T) {
	rows := goldenSummaryRows()

	// Only the rendered cells of rows over the threshold differ from plain
	// text, so compare the styled and stripped forms line by line.
	out := FormatSummaryTable(rows, 0.20)
	lines := strings.Split(out, "\n")
	assert.Contains(t, stripANSI(lines[2]), "bob")
	assert.Contains(t, stripANSI(lines[3]), "carol")

	tight := stripANSI(FormatSummaryTable(rows, 0.01))
	assert.Equal(t, stripANSI(out), tight, "highlighting never changes layout")
}

func TestRatioStyle_ZeroThresholdFlagsAnyIdle(t *testing.T) {
	assert.Equal(t, StyleRed, RatioStyle(0.01, 0))
	assert.Equal(t, StyleGreen, RatioStyle(0, 0))
}

func TestRatioStyle(t *testing.T) {
	assert.Equal(t, StyleRed, RatioStyle(0.25, 0.2))
	assert.Equal(t, StyleYellow, RatioStyle(0.15, 0.2))
	assert.Equal(t, StyleGreen, RatioStyle(0.05, 0.2))
	assert.Equal(t, StyleGreen, RatioStyle(0.2/2, 0.2))
}
