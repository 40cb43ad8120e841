package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tunedeck/internal/github"
	"github.com/five82/tunedeck/internal/state"
)

const (
	avatarGlyph       = "●"
	avatarPlaceholder = "○"
)

func (m Model) renderGitHub() string {
	contentH := m.height - headerHeight
	title := "Users"
	if snap := m.userState.panel.Snapshot(); snap.Phase != state.PhaseIdle {
		title = "Users · " + snap.Phase.String()
	}
	return m.renderInputBox("GitHub", m.userState.input) + "\n" +
		m.renderBox(title, m.userState.viewport.View(), m.width, contentH-inputBoxHeight, m.browsing)
}

func (m Model) renderUserBody() string {
	styles, bg := m.bodyColors()
	snap := m.userState.panel.Snapshot()

	switch snap.Phase {
	case state.PhaseIdle:
		return bg.Render("Search GitHub users by name or login.", styles.MutedText)
	case state.PhaseLoading:
		return bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() +
			bg.Render("Searching GitHub for "+quoted(snap.Query)+"...", styles.MutedText)
	case state.PhaseEmpty:
		return bg.Render("No users found matching your search.", styles.Text)
	case state.PhaseError:
		return bg.Render("Failed to fetch users. Please try again.", styles.DangerText)
	}

	width := max(m.userState.viewport.Width-2, 24)
	lines := []string{
		bg.Render("Search Results for "+quoted(snap.Query), styles.Text.Bold(true)) + bg.Space() +
			bg.Render(fmt.Sprintf("(%d)", len(snap.Value)), styles.MutedText),
	}
	for _, u := range snap.Value {
		lines = append(lines, m.renderUserCard(u, width, bg))
	}
	return strings.Join(lines, "\n")
}

// renderUserCard renders one profile. Optional fields are left out rather
// than shown blank.
func (m Model) renderUserCard(u github.User, width int, bg BgStyle) string {
	card := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	cbg := NewBgStyle(m.theme.SurfaceAlt)
	inner := width - 4

	glyph := cbg.Render(avatarGlyph, card.AccentText)
	if m.imageFailed(u.AvatarURL) {
		glyph = cbg.Render(avatarPlaceholder, card.FaintText)
	}

	lines := []string{
		glyph + cbg.Space() +
			cbg.Render(truncate(u.DisplayName(), inner/2), card.Text.Bold(true)) + cbg.Spaces(2) +
			cbg.Render("@"+u.Login, card.AccentText),
	}
	if bio := strings.TrimSpace(u.Bio); bio != "" {
		lines = append(lines, cbg.Render(truncate(strings.Join(strings.Fields(bio), " "), inner), card.MutedText))
	}
	lines = append(lines,
		cbg.Render(countLabel(u.Followers, "follower", "followers"), card.Text)+
			cbg.Render(" · ", card.FaintText)+
			cbg.Render(countLabel(u.Following, "following", "following"), card.Text))
	if u.HTMLURL != "" {
		lines = append(lines, cbg.Render(truncate(u.HTMLURL, inner), card.InfoText))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderMuted)).
		BorderBackground(bg.bg).
		Background(lipgloss.Color(m.theme.SurfaceAlt)).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}
