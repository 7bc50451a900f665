package formatter

import (
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderIdleBar renders the idle share of a span as a compact bar. The
// filled part turns red once ratio exceeds threshold.
func RenderIdleBar(ratio, threshold float64, width int) string {
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	if width < 2 {
		width = 2
	}

	filled := int(ratio * float64(width))
	empty := width - filled

	return RatioStyle(ratio, threshold).Render(strings.Repeat(filledBlock, filled)) +
		StyleDim.Render(strings.Repeat(emptyBlock, empty))
}
