package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"

	"github.com/five82/tunedeck/internal/catalog"
	"github.com/five82/tunedeck/internal/state"
)

const (
	artGlyph         = "◆"
	artPlaceholder   = "♪"
	previewIndicator = "▶ preview"
)

// renderMusic renders the search field above either the home feed or the
// search results.
func (m Model) renderMusic() string {
	contentH := m.height - headerHeight
	title := "Discover"
	if snap := m.musicState.panel.Snapshot(); snap.Phase != state.PhaseIdle {
		title = "Search · " + snap.Phase.String()
	}
	return m.renderInputBox("Music", m.musicState.input) + "\n" +
		m.renderBox(title, m.musicState.viewport.View(), m.width, contentH-inputBoxHeight, m.browsing)
}

// renderInputBox frames a text field. It is focused while typing.
func (m Model) renderInputBox(title string, in textinput.Model) string {
	return m.renderBox(title, in.View(), m.width, inputBoxHeight, !m.browsing)
}

// bodyColors returns the background of the results box and matching styles.
func (m Model) bodyColors() (Styles, BgStyle) {
	color := m.theme.Surface
	if m.browsing {
		color = m.theme.FocusBg
	}
	return m.theme.Styles().WithBackground(color), NewBgStyle(color)
}

func (m Model) renderMusicBody() string {
	styles, bg := m.bodyColors()
	snap := m.musicState.panel.Snapshot()

	switch snap.Phase {
	case state.PhaseIdle:
		return m.renderHomeFeed(styles, bg)
	case state.PhaseLoading:
		return bg.Render(m.spinner.View(), styles.AccentText) + bg.Space() +
			bg.Render("Searching for "+quoted(snap.Query)+"...", styles.MutedText)
	case state.PhaseEmpty:
		return bg.Render("No results found for "+quoted(snap.Query), styles.Text) + "\n" +
			bg.Render("Try a different artist, song or album.", styles.FaintText)
	case state.PhaseError:
		return bg.Render("Search failed. Check your connection and try again.", styles.DangerText)
	}

	tracks := snap.Value
	width := m.musicState.viewport.Width
	lines := []string{
		bg.Render("Search Results for "+quoted(snap.Query), styles.Text.Bold(true)) + bg.Space() +
			bg.Render(fmt.Sprintf("(%d)", len(tracks)), styles.MutedText),
		"",
	}

	shown := tracks
	if !m.musicState.showAll && len(shown) > resultsPreview {
		shown = shown[:resultsPreview]
	}
	for i, t := range shown {
		lines = append(lines, m.trackLine(i+1, t, width, styles, bg))
	}

	if len(tracks) > resultsPreview {
		lines = append(lines, "")
		if m.musicState.showAll {
			lines = append(lines, bg.Render("Showing all results · v for top results", styles.FaintText))
		} else {
			lines = append(lines, bg.Render(fmt.Sprintf("View all %d results", len(tracks)), styles.AccentText)+
				bg.Space()+bg.Render("(v)", styles.FaintText))
		}
	}
	return strings.Join(lines, "\n")
}

// trackLine renders one numbered song or album. The preview marker only
// appears when the track has playable audio.
func (m Model) trackLine(n int, t catalog.Track, width int, styles Styles, bg BgStyle) string {
	glyph := bg.Render(artGlyph, styles.AccentText)
	if m.imageFailed(t.ArtworkURL) {
		glyph = bg.Render(artPlaceholder, styles.FaintText)
	}

	suffix := ""
	suffixWidth := 0
	if t.Genre != "" {
		suffix += bg.Spaces(2) + bg.Render(t.Genre, styles.FaintText)
		suffixWidth += 2 + len([]rune(t.Genre))
	}
	if t.HasPreview() {
		suffix += bg.Spaces(2) + bg.Render(previewIndicator, styles.SuccessText)
		suffixWidth += 2 + len([]rune(previewIndicator))
	}

	avail := max(width-suffixWidth-8, 12)
	title := t.Title()
	artist := t.ArtistName
	titleLimit := max(avail*3/5, 8)
	title = truncate(title, titleLimit)
	artist = truncate(artist, max(avail-len([]rune(title))-3, 6))

	return bg.Render(fmt.Sprintf("%2d", n), styles.FaintText) + bg.Space() + glyph + bg.Space() +
		bg.Render(title, styles.Text) + bg.Render(" · ", styles.FaintText) +
		bg.Render(artist, styles.MutedText) + suffix
}

// renderHomeFeed renders the live lists followed by the curated catalog.
func (m Model) renderHomeFeed(styles Styles, bg BgStyle) string {
	width := m.musicState.viewport.Width
	section := func(title, note string) string {
		out := bg.Render(title, styles.AccentText.Bold(true))
		if note != "" {
			out += bg.Space() + bg.Render(note, styles.WarningText)
		}
		return out
	}

	var lines []string
	switch {
	case m.store != nil && !m.snapshot.HasFeed:
		lines = append(lines,
			section("Popular Right Now", ""),
			bg.Render(m.spinner.View(), styles.AccentText)+bg.Space()+bg.Render("Loading popular songs...", styles.MutedText),
		)
	default:
		note := ""
		if m.snapshot.PopularFallback {
			note = "(offline picks)"
		}
		lines = append(lines, section("Popular Right Now", note))
		for i, t := range m.snapshot.Popular {
			lines = append(lines, m.trackLine(i+1, t, width, styles, bg))
		}
		if len(m.snapshot.Popular) == 0 {
			lines = append(lines, bg.Render("Nothing to show yet.", styles.FaintText))
		}

		note = ""
		if m.snapshot.AlbumsFallback {
			note = "(offline picks)"
		}
		lines = append(lines, "", section("Featured Albums", note))
		for i, t := range m.snapshot.Albums {
			lines = append(lines, m.trackLine(i+1, t, width, styles, bg))
		}
	}

	if len(m.home.FeaturedPlaylists) > 0 {
		lines = append(lines, "", section("Featured Playlists", ""))
		for _, p := range m.home.FeaturedPlaylists {
			glyph := bg.Render(artGlyph, styles.InfoText)
			if m.imageFailed(p.Image) {
				glyph = bg.Render(artPlaceholder, styles.FaintText)
			}
			lines = append(lines, bg.Spaces(3)+glyph+bg.Space()+
				bg.Render(p.Title, styles.Text)+bg.Render(" · ", styles.FaintText)+
				bg.Render(truncate(p.Description, max(width-len([]rune(p.Title))-10, 10)), styles.MutedText))
		}
	}

	if len(m.home.NewReleases) > 0 {
		lines = append(lines, "", section("New Releases", ""))
		tiles := make([]string, 0, len(m.home.NewReleases))
		for _, r := range m.home.NewReleases {
			glyph := bg.Render(artGlyph, styles.InfoText)
			if m.imageFailed(r.Image) {
				glyph = bg.Render(artPlaceholder, styles.FaintText)
			}
			tiles = append(tiles, glyph+bg.Space()+bg.Render(r.Title, styles.Text))
		}
		lines = append(lines, bg.Spaces(3)+bg.Join(tiles, "   "))
	}
	return strings.Join(lines, "\n")
}

func quoted(s string) string {
	return "\"" + s + "\""
}
