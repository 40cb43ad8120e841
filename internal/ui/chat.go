package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tunedeck/internal/assistant"
	"github.com/five82/tunedeck/internal/state"
)

const thinkingText = "Consulting music knowledge..."

// renderChat renders the conversation, the quick questions and the field.
func (m Model) renderChat() string {
	contentH := m.height - headerHeight
	boxH := contentH - inputBoxHeight - suggestionHeight

	return m.renderBox("AI Music Assistant", m.chatState.viewport.View(), m.width, boxH, m.browsing) + "\n" +
		m.renderSuggestions() + "\n" +
		m.renderInputBox("Ask", m.chatState.input)
}

func (m Model) renderSuggestions() string {
	styles := m.theme.Styles().WithBackground(m.theme.Background)
	bg := NewBgStyle(m.theme.Background)

	parts := []string{bg.Render("Try:", styles.FaintText)}
	for i, s := range assistant.Suggestions {
		style := styles.MutedText
		if i == m.chatState.suggestion {
			style = styles.AccentText.Bold(true)
		}
		parts = append(parts, bg.Render(s, style))
	}
	line := bg.Join(parts, "  ")
	return bg.FillLine(lipgloss.NewStyle().MaxWidth(m.width).Render(line), m.width)
}

// renderChatBody renders every message oldest first, then the thinking
// indicator while a reply is pending.
func (m *Model) renderChatBody() string {
	styles, bg := m.bodyColors()
	width := max(m.chatState.viewport.Width-2, 20)

	var blocks []string
	for _, msg := range m.chatState.conversation.Messages() {
		blocks = append(blocks, m.renderMessage(msg, width, styles, bg))
	}
	if m.chatState.panel.Snapshot().Phase == state.PhaseLoading {
		blocks = append(blocks,
			bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+bg.Render(thinkingText, styles.MutedText))
	}
	return strings.Join(blocks, "\n\n")
}

func (m *Model) renderMessage(msg assistant.Message, width int, styles Styles, bg BgStyle) string {
	stamp := bg.Render(msg.At.Format("15:04"), styles.FaintText)

	if msg.Sender == assistant.SenderUser {
		label := bg.Render("You", styles.Text.Foreground(lipgloss.Color(m.theme.UserBubble)).Bold(true))
		body := lipgloss.NewStyle().Width(width).Render(msg.Text)
		return label + bg.Space() + stamp + "\n" + bg.Render(body, styles.Text)
	}

	label := bg.Render("♫ Assistant", styles.Text.Foreground(lipgloss.Color(m.theme.AIBubble)).Bold(true))
	return label + bg.Space() + stamp + "\n" + m.renderMarkdown(msg, width)
}

// renderMarkdown renders an assistant reply through glamour, caching the
// result per message. Plain wrapped text is used if glamour fails.
func (m *Model) renderMarkdown(msg assistant.Message, width int) string {
	if out, ok := m.chatState.rendered[msg.ID]; ok && m.chatState.rendererWidth == width {
		return out
	}
	if m.chatState.renderer == nil || m.chatState.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			m.log.Warn().Err(err).Msg("markdown renderer unavailable")
			m.chatState.renderer = nil
		} else {
			m.chatState.renderer = r
		}
		m.chatState.rendererWidth = width
		m.chatState.rendered = make(map[string]string)
	}

	out := lipgloss.NewStyle().Width(width).Render(msg.Text)
	if m.chatState.renderer != nil {
		if rendered, err := m.chatState.renderer.Render(msg.Text); err == nil {
			out = strings.Trim(rendered, "\n")
		}
	}
	m.chatState.rendered[msg.ID] = out
	return out
}
