package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

const (
	testWidth  = 120
	testHeight = 40
)

// newTestModel builds a sized model whose preferences go to a temp dir.
func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if opts.Context == nil {
		opts.Context = ctx
	}
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	m := New(opts)
	t.Cleanup(m.stop)
	return update(t, m, tea.WindowSizeMsg{Width: testWidth, Height: testHeight})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

// typeText sends one key per rune and drops the resulting cursor commands.
func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = update(t, m, runes(string(r)))
	}
	return m
}

// collect runs cmd and any batch it expands to. Commands that block, such
// as the debounce listener or tea.Tick, are abandoned after a short wait.
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	select {
	case msg := <-done:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(t, c)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// deliver runs cmd, feeds the application messages it produced back into m
// and follows the commands those return, such as image probes. Spinner and
// cursor ticks are dropped.
func deliver(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for round := 0; cmd != nil && round < 4; round++ {
		var next []tea.Cmd
		for _, msg := range collect(t, cmd) {
			if !isAppMsg(msg) {
				continue
			}
			var c tea.Cmd
			m, c = updateCmd(t, m, msg)
			next = append(next, c)
		}
		cmd = tea.Batch(next...)
	}
	return m
}

func isAppMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case musicResultMsg, userResultMsg, chatReplyMsg, imageCheckedMsg, logLinesMsg, snapshotMsg:
		return true
	}
	return false
}

// nextQuery waits for the debouncer to fire want, discarding earlier fires
// for prefixes typed on the way.
func nextQuery(t *testing.T, m Model, want string) debouncedQuery {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case q := <-m.queries:
			if q.query == want {
				return q
			}
		case <-deadline:
			t.Fatalf("debouncer never fired %q", want)
		}
	}
}

// screen is the rendered view without escape codes.
func screen(m Model) string {
	return ansi.Strip(m.View())
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected screen to contain %q\n---\n%s", needle, haystack)
	}
}

func assertNotContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if strings.Contains(haystack, needle) {
		t.Fatalf("expected screen not to contain %q\n---\n%s", needle, haystack)
	}
}
