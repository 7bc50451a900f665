package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// FormatHours renders an already rounded hour value with two decimals.
func FormatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

// FormatRatio renders a ratio as a percentage with one decimal.
func FormatRatio(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100)
}

// FormatSeconds converts a second count into a compact duration such as
// "7h 30m" or "45s".
func FormatSeconds(sec int64) string {
	if sec <= 0 {
		return "0s"
	}
	h := sec / 3600
	m := (sec % 3600) / 60
	s := sec % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	case m > 0 && s > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	case m > 0:
		return fmt.Sprintf("%dm", m)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// FormatClock renders a timestamp as "Mon 01-06 09:00" in its own location.
func FormatClock(t time.Time) string {
	return t.Format("Mon 01-02 15:04")
}

// TruncID returns the first 8 characters of an ID.
func TruncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
