package play

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// formatClock renders d as m:ss, truncating to whole seconds.
func formatClock(d time.Duration) string {
	total := max(0, int(d/time.Second))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// progressBar draws a width cell bar filled to pos/window.
func progressBar(pos, window time.Duration, width int) string {
	if width <= 0 {
		return ""
	}
	filled := 0
	if window > 0 {
		filled = int(float64(width) * float64(min(pos, window)) / float64(window))
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}

// truncate shortens s to at most width terminal cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
