package formatter

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSummaryCSV(t *testing.T) {
	rows := goldenSummaryRows()
	rows[0].LoggedSeconds, rows[0].IdleSeconds, rows[0].ProductiveSeconds = 28800, 7200, 21600

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, summaryCSVHeader, records[0])
	assert.Equal(t, []string{"bob", "2025", "2", "8.00", "2.00", "6.00", "0.2500", "28800", "7200", "21600"}, records[1])
	assert.Equal(t, "alice", records[3][0])
}

func TestWriteDetailsCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDetailsCSV(&buf, goldenDetailRows()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, detailsCSVHeader, records[0])
	assert.Equal(t, []string{"3f2a9c1e-aaaa", "alice", "ws-01", "2025-01-08T09:00:00Z", "", "2.50", "0.25", "2.25"}, records[1])
	assert.Equal(t, "2025-01-07T17:00:00Z", records[2][4])
}

func TestWriteSummaryCSV_HeaderOnlyWhenEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, nil))
	assert.Equal(t, "user_id,iso_year,iso_week,logged_hours,idle_hours,productive_hours,idle_ratio,logged_seconds,idle_seconds,productive_seconds\n", buf.String())
}
