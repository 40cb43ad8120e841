package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

// truncate shortens value to limit terminal cells, adding an ellipsis.
// Wide runes (CJK, emoji) count as two cells.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit <= 3 {
		return runewidth.Truncate(value, limit, "")
	}
	return runewidth.Truncate(value, limit, "...")
}

// truncateMiddle keeps both ends of value, which suits file paths.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit <= 5 {
		return runewidth.Truncate(value, limit, "")
	}
	runes := []rune(value)
	keep := limit - 1
	// More of the end survives: that is where the file name is.
	tail := keep * 2 / 3
	head := keep - tail

	var b strings.Builder
	w := 0
	for _, r := range runes {
		rw := runewidth.RuneWidth(r)
		if w+rw > head {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	b.WriteString("…")

	suffix := make([]rune, 0, tail)
	w = 0
	for i := len(runes) - 1; i >= 0; i-- {
		rw := runewidth.RuneWidth(runes[i])
		if w+rw > tail {
			break
		}
		suffix = append(suffix, runes[i])
		w += rw
	}
	for i := len(suffix) - 1; i >= 0; i-- {
		b.WriteRune(suffix[i])
	}
	return b.String()
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.FillRight(s, width)
}

// countLabel renders "1 follower" or "100 followers".
func countLabel(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}

// humanizeDuration gives a short relative age.
func humanizeDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}
