package ui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
)

// logState holds the Logs view.
type logState struct {
	viewport viewport.Model
	lines    []string
	err      error
	follow   bool

	// Content is only re-rendered when version moves past rendered.
	version  uint64
	rendered uint64
}

// Patterns for the applog line layout:
// "2025-10-08 21:01:05 INFO [fetch] – request finished status=200".
var (
	timestampRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`)
	levelRe     = regexp.MustCompile(`\b(INFO|WARN|ERROR|DEBUG)\b`)
	componentRe = regexp.MustCompile(`^\s*\[([^\]]+)\]`)
	separatorRe = regexp.MustCompile(`\s*–\s*`)
)

// renderLogs renders the log box and the status line below it.
func (m Model) renderLogs() string {
	contentH := m.height - headerHeight
	box := m.renderBox("Log", m.logState.viewport.View(), m.width, contentH-statusLineHeight, true)
	return box + "\n" + m.renderLogStatus()
}

func (m Model) renderLogStatus() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	mode := bg.Render("FOLLOW", styles.SuccessText)
	if !m.logState.follow {
		mode = bg.Render("PAUSED", styles.WarningText.Bold(true))
	}
	parts := []string{
		mode,
		bg.Render(fmt.Sprintf("%d lines", len(m.logState.lines)), styles.MutedText),
	}
	if m.logPath != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.logPath, max(m.width/2, 20)), styles.FaintText))
	}
	if m.logState.err != nil {
		parts = append(parts, bg.Render(truncate(m.logState.err.Error(), 60), styles.DangerText))
	}
	return bg.FillLine(bg.Join(parts, "  "), m.width)
}

// renderLogContent renders numbered, colourised lines.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logState.viewport.Width

	if m.logPath == "" {
		return bg.FillLine(bg.Render("Logging is disabled (log_path is empty)", styles.MutedText), width)
	}
	if len(m.logState.lines) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	var b strings.Builder
	for i, line := range m.logState.lines {
		lineContent := bg.Render(fmt.Sprintf("%4d │ ", i+1), styles.FaintText) +
			colorizeLine(line, styles, bg)
		b.WriteString(bg.FillLine(lipgloss.NewStyle().MaxWidth(width).Render(lineContent), width))
		if i < len(m.logState.lines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// colorizeLine styles the timestamp, level and component of an applog
// line. Lines in any other shape are shown as plain text.
func colorizeLine(line string, styles Styles, bg BgStyle) string {
	if strings.TrimSpace(line) == "" {
		return line
	}

	var result strings.Builder
	remaining := line

	if matches := timestampRe.FindStringSubmatchIndex(remaining); len(matches) > 0 {
		start, end := matches[2], matches[3]
		result.WriteString(bg.Render(remaining[start:end], styles.FaintText))
		remaining = remaining[end:]
	}

	if matches := levelRe.FindStringSubmatchIndex(remaining); len(matches) > 0 && matches[0] <= 1 {
		start, end := matches[2], matches[3]
		level := remaining[start:end]
		result.WriteString(bg.Space())
		result.WriteString(bg.Render(level, levelStyle(level, styles).Bold(true)))
		remaining = remaining[end:]
	}

	if matches := componentRe.FindStringSubmatchIndex(remaining); len(matches) > 0 {
		start, end := matches[2], matches[3]
		result.WriteString(bg.Space())
		result.WriteString(bg.Render("["+remaining[start:end]+"]", styles.AccentText))
		remaining = remaining[matches[1]:]
	}

	if parts := separatorRe.Split(remaining, 2); len(parts) == 2 {
		result.WriteString(bg.Space())
		result.WriteString(bg.Render("–", styles.FaintText))
		result.WriteString(bg.Space())
		result.WriteString(bg.Render(strings.TrimSpace(parts[1]), styles.Text))
	} else {
		if result.Len() > 0 {
			result.WriteString(bg.Space())
		}
		result.WriteString(bg.Render(strings.TrimSpace(remaining), styles.Text))
	}

	return result.String()
}

func levelStyle(level string, styles Styles) lipgloss.Style {
	switch level {
	case "INFO":
		return styles.SuccessText
	case "WARN":
		return styles.WarningText
	case "ERROR":
		return styles.DangerText
	case "DEBUG":
		return styles.InfoText
	default:
		return styles.Text
	}
}
