package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders text on a fixed background. Lipgloss resets styling after
// every segment, so spaces between separately styled words would otherwise
// fall back to the terminal background.
type BgStyle struct {
	bg    lipgloss.Color
	space string
}

// NewBgStyle creates a background helper for bgColor.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render styles text word by word, painting the gaps as well.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	wordStyle := style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return wordStyle.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = wordStyle.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

func (b BgStyle) Space() string {
	return b.space
}

func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Join joins already-rendered parts with a painted separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.bg).Render(sep))
}

// FillLine pads rendered content out to width.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}

// renderBox draws a titled rounded box of the given outer size around
// content. The focused box gets the focus border and background.
func (m Model) renderBox(title, content string, width, height int, focused bool) string {
	bgColor := m.theme.Surface
	borderColor := m.theme.Border
	if focused {
		bgColor = m.theme.FocusBg
		borderColor = m.theme.BorderFocus
	}
	innerW := max(width-2, 1)
	innerH := max(height-2, 1)

	body := lipgloss.NewStyle().
		Background(lipgloss.Color(bgColor)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(innerW).
		Height(innerH).
		MaxHeight(innerH).
		Render(content)

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(borderColor)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Render(body)

	if title == "" {
		return box
	}
	return overlayTitle(box, title, borderColor, m.theme.Background)
}

// overlayTitle writes " title " into the top border after the corner.
func overlayTitle(box, title, fg, bg string) string {
	lines := strings.SplitN(box, "\n", 2)
	if len(lines) == 0 {
		return box
	}
	top := lines[0]
	topWidth := lipgloss.Width(top)
	label := " " + truncate(title, max(topWidth-6, 1)) + " "
	labelWidth := lipgloss.Width(label)
	if topWidth < labelWidth+4 {
		return box
	}
	border := lipgloss.NewStyle().
		Foreground(lipgloss.Color(fg)).
		Background(lipgloss.Color(bg))
	rounded := lipgloss.RoundedBorder()
	newTop := border.Render(rounded.TopLeft+rounded.Top) +
		border.Bold(true).Render(label) +
		border.Render(strings.Repeat(rounded.Top, topWidth-labelWidth-3)+rounded.TopRight)
	if len(lines) == 1 {
		return newTop
	}
	return newTop + "\n" + lines[1]
}
