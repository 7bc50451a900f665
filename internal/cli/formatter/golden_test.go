package formatter

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/workweek/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences for stripping before golden comparison.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes from a string so golden files
// are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// goldenTest compares got against a golden file in testdata/<name>.golden.
// Set GOLDEN_UPDATE=1 to regenerate golden files.
func goldenTest(t *testing.T, name, got string) {
	t.Helper()

	goldenDir := filepath.Join("testdata")
	goldenPath := filepath.Join(goldenDir, name+".golden")

	stripped := stripANSI(got)

	if os.Getenv("GOLDEN_UPDATE") == "1" {
		require.NoError(t, os.MkdirAll(goldenDir, 0755))
		require.NoError(t, os.WriteFile(goldenPath, []byte(stripped), 0644))
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		t.Fatalf("golden file %s does not exist; run with GOLDEN_UPDATE=1 to create it", goldenPath)
	}
	require.NoError(t, err)

	assert.Equal(t, string(expected), stripped,
		"output does not match golden file %s; run with GOLDEN_UPDATE=1 to update", goldenPath)
}

func goldenSummaryRows() []domain.WeeklySummaryRow {
	return []domain.WeeklySummaryRow{
		{UserID: "bob", Year: 2025, Week: 2, LoggedHours: 8, IdleHours: 2, ProductiveHours: 6, IdleRatio: 0.25},
		{UserID: "carol", Year: 2025, Week: 2, LoggedHours: 10.5, IdleHours: 1.05, ProductiveHours: 9.45, IdleRatio: 0.1},
		{UserID: "alice", Year: 2025, Week: 2, LoggedHours: 12, IdleHours: 0.6, ProductiveHours: 11.4, IdleRatio: 0.05},
	}
}

func goldenDetailRows() []domain.SessionDetailRow {
	bobOut := time.Date(2025, time.January, 7, 17, 0, 0, 0, time.UTC)
	carolOut := time.Date(2025, time.January, 7, 6, 15, 0, 0, time.UTC)
	return []domain.SessionDetailRow{
		{
			SessionID: "3f2a9c1e-aaaa", UserID: "alice", MachineID: "ws-01",
			LoginTime:   time.Date(2025, time.January, 8, 9, 0, 0, 0, time.UTC),
			LoggedHours: 2.5, IdleHours: 0.25, ProductiveHours: 2.25,
		},
		{
			SessionID: "b71e0d44-bbbb", UserID: "bob",
			LoginTime:   time.Date(2025, time.January, 7, 8, 30, 0, 0, time.UTC),
			LogoutTime:  &bobOut,
			LoggedHours: 8.5, IdleHours: 1, ProductiveHours: 7.5,
		},
		{
			SessionID: "s1", UserID: "carol", MachineID: "ws-03",
			LoginTime:   time.Date(2025, time.January, 6, 22, 0, 0, 0, time.UTC),
			LogoutTime:  &carolOut,
			LoggedHours: 8.25, IdleHours: 0, ProductiveHours: 8.25,
		},
	}
}

func TestFormatSummaryTable_Golden(t *testing.T) {
	goldenTest(t, "summary_table", FormatSummaryTable(goldenSummaryRows(), reportOpts.HighlightRatio))
}

func TestFormatDetailsTable_Golden(t *testing.T) {
	goldenTest(t, "details_table", FormatDetailsTable(goldenDetailRows()))
}
