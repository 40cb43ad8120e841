package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tunedeck/internal/assistant"
	"github.com/five82/tunedeck/internal/debounce"
	"github.com/five82/tunedeck/internal/state"
)

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.ForceQuit):
		m.savePrefs()
		return m, tea.Quit
	case key.Matches(msg, m.keys.NextView):
		cmd := m.switchView(m.cycleView(1))
		return m, cmd
	case key.Matches(msg, m.keys.PrevView):
		cmd := m.switchView(m.cycleView(-1))
		return m, cmd
	case key.Matches(msg, m.keys.Focus):
		if m.currentView.hasInput() {
			m.browsing = !m.browsing
			m.focusInput()
		}
		return m, nil
	}

	if m.currentView.hasInput() && !m.browsing {
		return m.handleInputKey(msg)
	}
	return m.handleBrowseKey(msg)
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.savePrefs()
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.chatState.rendered = make(map[string]string)
		m.logState.version++
		m.savePrefs()
		return m, nil
	case key.Matches(msg, m.keys.ViewMusic):
		cmd := m.switchView(ViewMusic)
		return m, cmd
	case key.Matches(msg, m.keys.ViewChat):
		cmd := m.switchView(ViewChat)
		return m, cmd
	case key.Matches(msg, m.keys.ViewGitHub):
		cmd := m.switchView(ViewGitHub)
		return m, cmd
	case key.Matches(msg, m.keys.ViewLogs):
		cmd := m.switchView(ViewLogs)
		return m, cmd
	}

	switch m.currentView {
	case ViewMusic:
		switch {
		case key.Matches(msg, m.keys.Type):
			return m.startTyping()
		case key.Matches(msg, m.keys.ClearInput):
			m.musicState.input.Reset()
			return m.musicInputChanged()
		case key.Matches(msg, m.keys.ShowAll):
			if m.musicState.panel.Snapshot().Phase == state.PhasePopulated {
				m.musicState.showAll = !m.musicState.showAll
			}
			return m, nil
		}
		scroll(&m.musicState.viewport, msg, m.keys)
	case ViewGitHub:
		switch {
		case key.Matches(msg, m.keys.Type):
			return m.startTyping()
		case key.Matches(msg, m.keys.ClearInput):
			m.userState.input.Reset()
			return m.userInputChanged()
		}
		scroll(&m.userState.viewport, msg, m.keys)
	case ViewChat:
		if key.Matches(msg, m.keys.Type) {
			return m.startTyping()
		}
		scroll(&m.chatState.viewport, msg, m.keys)
	case ViewLogs:
		if key.Matches(msg, m.keys.ToggleFollow) {
			m.logState.follow = !m.logState.follow
			if m.logState.follow {
				return m, readLogsCmd(m.logPath)
			}
			return m, nil
		}
		if scroll(&m.logState.viewport, msg, m.keys) {
			// Manual scrolling pauses follow mode.
			m.logState.follow = m.logState.viewport.AtBottom()
		}
	}
	return m, nil
}

func (m Model) startTyping() (Model, tea.Cmd) {
	m.browsing = false
	m.focusInput()
	return m, nil
}

// scroll applies a navigation key to vp and reports whether it was one.
func scroll(vp *viewport.Model, msg tea.KeyMsg, keys keyMap) bool {
	switch {
	case key.Matches(msg, keys.Up):
		vp.ScrollUp(1)
	case key.Matches(msg, keys.Down):
		vp.ScrollDown(1)
	case key.Matches(msg, keys.PageUp):
		vp.PageUp()
	case key.Matches(msg, keys.PageDown):
		vp.PageDown()
	case key.Matches(msg, keys.Top):
		vp.GotoTop()
	case key.Matches(msg, keys.Bottom):
		vp.GotoBottom()
	default:
		return false
	}
	return true
}

// handleInputKey routes a key while a text field has focus.
func (m Model) handleInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.currentView {
	case ViewMusic:
		if key.Matches(msg, m.keys.Submit) {
			q, ok := m.musicState.debouncer.Submit(m.musicState.input.Value())
			if !ok {
				m.musicState.panel.Clear()
				return m, nil
			}
			return m.beginMusicSearch(q)
		}
		before := m.musicState.input.Value()
		var cmd tea.Cmd
		m, cmd = m.updateActiveInput(msg)
		if m.musicState.input.Value() == before {
			return m, cmd
		}
		var changed tea.Cmd
		m, changed = m.musicInputChanged()
		return m, tea.Batch(cmd, changed)

	case ViewGitHub:
		if key.Matches(msg, m.keys.Submit) {
			q, ok := m.userState.debouncer.Submit(m.userState.input.Value())
			if !ok {
				m.userState.panel.Clear()
				return m, nil
			}
			return m.beginUserSearch(q)
		}
		before := m.userState.input.Value()
		var cmd tea.Cmd
		m, cmd = m.updateActiveInput(msg)
		if m.userState.input.Value() == before {
			return m, cmd
		}
		var changed tea.Cmd
		m, changed = m.userInputChanged()
		return m, tea.Batch(cmd, changed)

	case ViewChat:
		// The field is read-only while a reply is pending.
		if m.chatState.panel.Snapshot().Phase == state.PhaseLoading {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Submit):
			return m.sendChat(m.chatState.input.Value())
		case key.Matches(msg, m.keys.NextSuggestion):
			m.cycleSuggestion(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevSuggestion):
			m.cycleSuggestion(-1)
			return m, nil
		}
		return m.updateActiveInput(msg)
	}
	return m, nil
}

func (m Model) musicInputChanged() (Model, tea.Cmd) {
	value := m.musicState.input.Value()
	switch m.musicState.debouncer.Input(value) {
	case debounce.DecisionClear:
		m.musicState.panel.Clear()
		m.musicState.showAll = false
	case debounce.DecisionSuppress:
		settleEdited(m.musicState.panel, value, true)
	default:
		settleEdited(m.musicState.panel, value, false)
	}
	return m, nil
}

func (m Model) userInputChanged() (Model, tea.Cmd) {
	value := m.userState.input.Value()
	switch m.userState.debouncer.Input(value) {
	case debounce.DecisionClear:
		m.userState.panel.Clear()
	case debounce.DecisionSuppress:
		settleEdited(m.userState.panel, value, true)
	default:
		settleEdited(m.userState.panel, value, false)
	}
	return m, nil
}

// settleEdited drops the in-flight request once the field no longer holds
// its query. A field too short to search again goes back to Idle; otherwise
// the panel keeps loading until the debounced query starts.
func settleEdited[T any](panel *state.Panel[T], value string, tooShort bool) {
	snap := panel.Snapshot()
	if snap.Phase != state.PhaseLoading || strings.TrimSpace(value) == snap.Query {
		return
	}
	if tooShort {
		panel.Clear()
		return
	}
	panel.Invalidate()
}

// handleDebounced starts the search a debouncer let through, unless the
// field has moved on since the timer fired.
func (m Model) handleDebounced(msg debouncedQuery) (Model, tea.Cmd) {
	rearm := waitForQuery(m.ctx, m.queries)

	var cmd tea.Cmd
	switch msg.target {
	case ViewMusic:
		if strings.TrimSpace(m.musicState.input.Value()) != msg.query {
			return m, rearm
		}
		m, cmd = m.beginMusicSearch(msg.query)
		return m, tea.Batch(rearm, cmd)
	case ViewGitHub:
		if strings.TrimSpace(m.userState.input.Value()) != msg.query {
			return m, rearm
		}
		m, cmd = m.beginUserSearch(msg.query)
		return m, tea.Batch(rearm, cmd)
	}
	return m, rearm
}

func (m Model) beginMusicSearch(query string) (Model, tea.Cmd) {
	seq := m.musicState.panel.Begin(query)
	m.musicState.showAll = false
	m.musicState.viewport.GotoTop()
	m.log.Debug().Uint64("seq", seq).Msg("music search started")
	return m, tea.Batch(
		searchMusicCmd(m.ctx, m.music, query, m.search.MusicLimit, seq),
		m.spinner.Tick,
	)
}

func (m Model) beginUserSearch(query string) (Model, tea.Cmd) {
	seq := m.userState.panel.Begin(query)
	m.userState.viewport.GotoTop()
	m.log.Debug().Uint64("seq", seq).Msg("user search started")
	return m, tea.Batch(
		searchUsersCmd(m.ctx, m.users, query, m.search.GitHubLimit, seq),
		m.spinner.Tick,
	)
}

// sendChat appends the user's message and asks for a reply. Blank text and
// a reply already in flight are ignored.
func (m Model) sendChat(text string) (Model, tea.Cmd) {
	text = strings.TrimSpace(text)
	if text == "" || m.chatState.panel.Snapshot().Phase == state.PhaseLoading {
		return m, nil
	}
	m.chatState.conversation.Append(assistant.NewMessage(assistant.SenderUser, text))
	m.chatState.input.Reset()
	m.chatState.suggestion = -1
	m.chatState.scrollPending = true

	seq := m.chatState.panel.Begin(text)
	return m, tea.Batch(askCmd(m.ctx, m.chat, text, seq), m.spinner.Tick)
}

// cycleSuggestion fills the chat field with the next quick question.
func (m *Model) cycleSuggestion(step int) {
	n := len(assistant.Suggestions)
	if n == 0 {
		return
	}
	next := m.chatState.suggestion + step
	if m.chatState.suggestion < 0 && step < 0 {
		next = n - 1
	}
	m.chatState.suggestion = (next%n + n) % n
	m.chatState.input.SetValue(assistant.Suggestions[m.chatState.suggestion])
	m.chatState.input.CursorEnd()
}
