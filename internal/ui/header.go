package ui

import (
	"fmt"
	"strings"
	"time"
)

const logoText = "♫ tunedeck"

// renderHeader renders the logo, view tabs and home feed status.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{
		bg.Render(logoText, styles.Logo),
		m.renderTabs(styles, bg),
		m.renderFeedStatus(styles, bg),
	}
	if ts := m.formatTimestamp(); ts != "" && !compact {
		parts = append(parts, bg.Render(ts, styles.MutedText))
	}
	if m.snapshot.IsOffline() && m.snapshot.LastError != nil && !compact {
		parts = append(parts,
			bg.Render("!", styles.WarningText.Bold(true))+bg.Space()+
				bg.Render(truncate(m.snapshot.LastError.Error(), 60), styles.WarningText))
	}

	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

func (m Model) renderTabs(styles Styles, bg BgStyle) string {
	tabs := make([]string, 0, len(viewOrder))
	for i, v := range viewOrder {
		label := fmt.Sprintf(" %d %s ", i+1, v.Title())
		if v == m.currentView {
			tabs = append(tabs, styles.Selected.Bold(true).Render(label))
			continue
		}
		tabs = append(tabs, bg.Render(label, styles.MutedText))
	}
	return strings.Join(tabs, bg.Space())
}

// renderFeedStatus shows whether the home lists are live, partly static or
// offline.
func (m Model) renderFeedStatus(styles Styles, bg BgStyle) string {
	switch {
	case m.store == nil:
		return ""
	case !m.snapshot.HasFeed:
		return bg.Render(m.spinner.View(), styles.WarningText) + bg.Space() +
			bg.Render("Loading feed...", styles.WarningText.Bold(true))
	case m.snapshot.IsOffline():
		return bg.Render("● OFFLINE", styles.DangerText)
	case m.snapshot.PopularFallback || m.snapshot.AlbumsFallback:
		return bg.Render("● FALLBACK", styles.WarningText.Bold(true))
	default:
		return bg.Render("● LIVE", styles.SuccessText)
	}
}

// formatTimestamp formats the last feed refresh with a relative age.
func (m Model) formatTimestamp() string {
	updated := m.snapshot.LastUpdated
	if updated.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s (%s)", updated.Format("15:04:05"), humanizeDuration(time.Since(updated)))
}

// renderCommandBar renders the key hints for the current view and mode.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	type cmd struct{ key, desc string }
	var commands []cmd

	typing := m.currentView.hasInput() && !m.browsing
	switch {
	case typing && m.currentView == ViewChat:
		commands = []cmd{
			{"enter", "Send"},
			{"ctrl+n/p", "Suggestions"},
			{"esc", "Browse"},
			{"tab", "Next view"},
		}
	case typing:
		commands = []cmd{
			{"enter", "Search"},
			{"esc", "Browse"},
			{"tab", "Next view"},
		}
	case m.currentView == ViewLogs:
		followLabel := "Pause"
		if !m.logState.follow {
			followLabel = "Follow"
		}
		commands = []cmd{
			{"Space", followLabel},
			{"j/k", "Scroll"},
			{"g/G", "Top/Bottom"},
			{"1-4", "Views"},
			{"?", "More"},
			{"q", "Quit"},
		}
	default:
		commands = []cmd{
			{"i", "Type"},
			{"j/k", "Scroll"},
		}
		if m.currentView == ViewMusic {
			label := "View all"
			if m.musicState.showAll {
				label = "Top results"
			}
			commands = append(commands, cmd{"v", label})
		}
		if m.currentView != ViewChat {
			commands = append(commands, cmd{"c", "Clear"})
		}
		commands = append(commands, cmd{"1-4", "Views"}, cmd{"?", "More"}, cmd{"q", "Quit"})
	}

	colon := bg.Render(":", styles.FaintText)
	segments := make([]string, 0, len(commands)+1)
	for _, c := range commands {
		segments = append(segments,
			bg.Render(c.key, styles.AccentText)+colon+bg.Render(c.desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(bg.Join(segments, "  "))
}
