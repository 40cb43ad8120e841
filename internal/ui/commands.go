package ui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tunedeck/internal/assistant"
	"github.com/five82/tunedeck/internal/catalog"
	"github.com/five82/tunedeck/internal/fetch"
	"github.com/five82/tunedeck/internal/github"
	"github.com/five82/tunedeck/internal/logtail"
	"github.com/five82/tunedeck/internal/state"
)

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

// debouncedQuery is a query the debouncer let through for target's field.
type debouncedQuery struct {
	target View
	query  string
}

// Results carry the sequence number from Panel.Begin so a late response for
// an older query can be recognised and dropped.
type musicResultMsg struct {
	seq     uint64
	outcome fetch.Outcome[[]catalog.Track]
}

type userResultMsg struct {
	seq     uint64
	outcome fetch.Outcome[[]github.User]
}

type chatReplyMsg struct {
	seq   uint64
	reply assistant.Reply
}

type imageCheckedMsg struct {
	url string
	err error
}

type logLinesMsg struct {
	lines []string
	err   error
}

type logChangedMsg struct{}

var errUnavailable = errors.New("service not configured")

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// waitForQuery blocks until a debouncer fires. Update re-arms it after each
// message.
func waitForQuery(ctx context.Context, queries <-chan debouncedQuery) tea.Cmd {
	return func() tea.Msg {
		select {
		case q := <-queries:
			return q
		case <-ctx.Done():
			return nil
		}
	}
}

func searchMusicCmd(ctx context.Context, music MusicSearcher, query string, limit int, seq uint64) tea.Cmd {
	return func() tea.Msg {
		if music == nil {
			return musicResultMsg{seq: seq, outcome: fetch.Fail[[]catalog.Track](errUnavailable)}
		}
		return musicResultMsg{seq: seq, outcome: music.Search(ctx, query, limit)}
	}
}

func searchUsersCmd(ctx context.Context, users UserSearcher, query string, limit int, seq uint64) tea.Cmd {
	return func() tea.Msg {
		if users == nil {
			return userResultMsg{seq: seq, outcome: fetch.Fail[[]github.User](errUnavailable)}
		}
		return userResultMsg{seq: seq, outcome: users.Search(ctx, query, limit)}
	}
}

func askCmd(ctx context.Context, chat ChatAsker, question string, seq uint64) tea.Cmd {
	return func() tea.Msg {
		if chat == nil {
			return chatReplyMsg{seq: seq, reply: assistant.Reply{Text: assistant.Apology, Tier: assistant.TierApology}}
		}
		return chatReplyMsg{seq: seq, reply: chat.Ask(ctx, question)}
	}
}

func probeImageCmd(ctx context.Context, prober ImageProber, url string) tea.Cmd {
	return func() tea.Msg {
		return imageCheckedMsg{url: url, err: prober.Probe(ctx, url)}
	}
}

func readLogsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return logLinesMsg{}
		}
		lines, err := logtail.Read(path, LogTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}

func waitForLogChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return logChangedMsg{}
	}
}

// probeImage schedules a check of url once per session. Blank URLs need no
// request: they render the placeholder directly.
func (m Model) probeImage(url string) tea.Cmd {
	if m.prober == nil || url == "" || m.images.requested[url] {
		return nil
	}
	m.images.requested[url] = true
	return probeImageCmd(m.ctx, m.prober, url)
}

func (m Model) probeHomeImages() []tea.Cmd {
	var cmds []tea.Cmd
	add := func(url string) {
		if cmd := m.probeImage(url); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	for _, t := range m.snapshot.Popular {
		add(t.ArtworkURL)
	}
	for _, t := range m.snapshot.Albums {
		add(t.ArtworkURL)
	}
	for _, p := range m.home.FeaturedPlaylists {
		add(p.Image)
	}
	for _, r := range m.home.NewReleases {
		add(r.Image)
	}
	return cmds
}

// imageFailed is the declarative flag the renderers consult: true shows the
// placeholder glyph.
func (m Model) imageFailed(url string) bool {
	return url == "" || m.images.failed[url]
}
