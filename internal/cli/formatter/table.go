package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Align sets how a table column is padded.
type Align int

const (
	AlignLeft Align = iota
	AlignRight
)

const colGap = 2

// RenderTable renders a simple aligned table with a header separator line.
// Headers are rendered with the Header style. Columns are padded to the
// maximum visible width found in each column across both headers and rows.
func RenderTable(headers []string, rows [][]string) string {
	return RenderAlignedTable(headers, nil, rows)
}

// RenderAlignedTable is RenderTable with per-column alignment. Columns
// beyond len(align) are left-aligned. Trailing padding is never emitted.
func RenderAlignedTable(headers []string, align []Align, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	cols := len(headers)

	widths := make([]int, cols)
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < cols && i < len(row); i++ {
			widths[i] = max(widths[i], lipgloss.Width(row[i]))
		}
	}
	alignOf := func(i int) Align {
		if i < len(align) {
			return align[i]
		}
		return AlignLeft
	}

	var b strings.Builder
	writeRow := func(cells []string, style func(string) string) {
		var line strings.Builder
		for i := 0; i < cols; i++ {
			cell := ""
			if i < len(cells) {
				cell = cells[i]
			}
			pad := max(widths[i]-lipgloss.Width(cell), 0)
			if style != nil {
				cell = style(cell)
			}
			if i > 0 {
				line.WriteString(strings.Repeat(" ", colGap))
			}
			if alignOf(i) == AlignRight {
				line.WriteString(strings.Repeat(" ", pad))
				line.WriteString(cell)
			} else {
				line.WriteString(cell)
				if i < cols-1 {
					line.WriteString(strings.Repeat(" ", pad))
				}
			}
		}
		b.WriteString(line.String())
		b.WriteString("\n")
	}

	writeRow(headers, func(s string) string { return StyleHeader.Render(s) })

	for i, w := range widths {
		if i > 0 {
			b.WriteString(strings.Repeat(" ", colGap))
		}
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
	}
	b.WriteString("\n")

	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}
