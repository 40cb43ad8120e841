package ui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"

	"github.com/five82/tunedeck/internal/assistant"
	"github.com/five82/tunedeck/internal/catalog"
	"github.com/five82/tunedeck/internal/config"
	"github.com/five82/tunedeck/internal/debounce"
	"github.com/five82/tunedeck/internal/fetch"
	"github.com/five82/tunedeck/internal/github"
	"github.com/five82/tunedeck/internal/prefs"
	"github.com/five82/tunedeck/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewMusic View = iota
	ViewChat
	ViewGitHub
	ViewLogs
)

var viewOrder = []View{ViewMusic, ViewChat, ViewGitHub, ViewLogs}

// String is the name stored in preferences.
func (v View) String() string {
	switch v {
	case ViewChat:
		return "chat"
	case ViewGitHub:
		return "github"
	case ViewLogs:
		return "logs"
	default:
		return "music"
	}
}

// Title is the label shown in the header tabs.
func (v View) Title() string {
	switch v {
	case ViewChat:
		return "Chat"
	case ViewGitHub:
		return "GitHub"
	case ViewLogs:
		return "Logs"
	default:
		return "Music"
	}
}

func (v View) hasInput() bool {
	return v != ViewLogs
}

func parseView(name string) View {
	for _, v := range viewOrder {
		if strings.EqualFold(strings.TrimSpace(name), v.String()) {
			return v
		}
	}
	return ViewMusic
}

// MusicSearcher is satisfied by *itunes.Client.
type MusicSearcher interface {
	Search(ctx context.Context, term string, limit int) fetch.Outcome[[]catalog.Track]
}

// ChatAsker is satisfied by *assistant.Client.
type ChatAsker interface {
	Ask(ctx context.Context, question string) assistant.Reply
}

// UserSearcher is satisfied by *github.Client.
type UserSearcher interface {
	Search(ctx context.Context, query string, limit int) fetch.Outcome[[]github.User]
}

// ImageProber is satisfied by *fetch.Client.
type ImageProber interface {
	Probe(ctx context.Context, rawURL string) error
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Music      MusicSearcher
	Chat       ChatAsker
	Users      UserSearcher
	Prober     ImageProber // nil skips artwork and avatar checks
	Store      *state.Store
	Home       catalog.Home
	Search     config.Search
	PollTick   time.Duration
	ThemeName  string
	StartView  string
	PrefsPath  string
	LogPath    string
	LogChanges <-chan struct{}
	Logger     zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx        context.Context
	music      MusicSearcher
	chat       ChatAsker
	users      UserSearcher
	prober     ImageProber
	store      *state.Store
	search     config.Search
	prefsPath  string
	logPath    string
	logChanges <-chan struct{}
	pollTick   time.Duration
	log        zerolog.Logger

	// UI state
	keys        keyMap
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool
	browsing    bool
	showHelp    bool
	spinner     spinner.Model

	// Home feed
	home        catalog.Home
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Debounced queries arrive here from timer goroutines.
	queries chan debouncedQuery
	images  *imageState

	musicState musicState
	chatState  chatState
	userState  userState
	logState   logState
}

type musicState struct {
	input     textinput.Model
	panel     *state.Panel[[]catalog.Track]
	debouncer *debounce.Debouncer
	showAll   bool
	viewport  viewport.Model
}

type userState struct {
	input     textinput.Model
	panel     *state.Panel[[]github.User]
	debouncer *debounce.Debouncer
	viewport  viewport.Model
}

type chatState struct {
	input         textinput.Model
	conversation  *assistant.Conversation
	panel         *state.Panel[string]
	viewport      viewport.Model
	suggestion    int
	scrollPending bool
	renderer      *glamour.TermRenderer
	rendererWidth int
	rendered      map[string]string
}

// imageState holds the declarative "image failed" flag per URL. It is shared
// by every copy of the Model.
type imageState struct {
	requested map[string]bool
	failed    map[string]bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := opts.Search
	if search.MusicLimit <= 0 {
		search.MusicLimit = defaultMusicLimit
	}
	if search.GitHubLimit <= 0 {
		search.GitHubLimit = defaultGitHubLimit
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:         ctx,
		music:       opts.Music,
		chat:        opts.Chat,
		users:       opts.Users,
		prober:      opts.Prober,
		store:       opts.Store,
		search:      search,
		prefsPath:   prefsPath,
		logPath:     opts.LogPath,
		logChanges:  opts.LogChanges,
		pollTick:    pollTick,
		log:         opts.Logger,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.ThemeName),
		currentView: parseView(opts.StartView),
		spinner:     sp,
		home:        opts.Home,
		queries:     make(chan debouncedQuery, queryBuffer),
		images: &imageState{
			requested: make(map[string]bool),
			failed:    make(map[string]bool),
		},
	}

	m.musicState = musicState{
		input:     newInput("Search songs, artists, albums..."),
		panel:     &state.Panel[[]catalog.Track]{},
		debouncer: debounce.New(search.Debounce, search.MinQueryLength, m.forward(ViewMusic)),
		viewport:  viewport.New(0, 0),
	}
	m.userState = userState{
		input:     newInput("Search GitHub users..."),
		panel:     &state.Panel[[]github.User]{},
		debouncer: debounce.New(search.Debounce, search.MinQueryLength, m.forward(ViewGitHub)),
		viewport:  viewport.New(0, 0),
	}
	m.chatState = chatState{
		input:        newInput("Ask about artists, genres, songs..."),
		conversation: assistant.NewConversation(),
		panel:        &state.Panel[string]{},
		viewport:     viewport.New(0, 0),
		suggestion:   -1,
		rendered:     make(map[string]string),
	}
	m.logState = logState{
		viewport: viewport.New(0, 0),
		follow:   true,
		version:  1,
	}
	m.browsing = !m.currentView.hasInput()
	m.focusInput()
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = "› "
	ti.Placeholder = placeholder
	ti.CharLimit = 200
	return ti
}

// forward returns a debouncer callback that hands the fired query to the UI
// loop. It runs on the timer goroutine.
func (m Model) forward(target View) func(string) {
	queries, ctx := m.queries, m.ctx
	return func(q string) {
		select {
		case queries <- debouncedQuery{target: target, query: q}:
		case <-ctx.Done():
		}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.pollTick),
		waitForQuery(m.ctx, m.queries),
		textinput.Blink,
		m.spinner.Tick,
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.logChanges != nil {
		cmds = append(cmds, waitForLogChange(m.logChanges))
	}
	if m.currentView == ViewLogs {
		cmds = append(cmds, readLogsCmd(m.logPath))
	}
	cmds = append(cmds, m.probeHomeImages()...)
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncViewports()
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.logState.version++
		return m, nil

	case tickMsg:
		var cmds []tea.Cmd
		if m.store != nil {
			cmds = append(cmds, fetchSnapshotCmd(m.store))
		}
		cmds = append(cmds, tickCmd(m.pollTick))
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, tea.Batch(m.probeHomeImages()...)

	case debouncedQuery:
		return m.handleDebounced(msg)

	case musicResultMsg:
		if !m.musicState.panel.Resolve(msg.seq, msg.outcome) {
			m.log.Debug().Uint64("seq", msg.seq).Msg("discarded stale music results")
			return m, nil
		}
		var cmds []tea.Cmd
		for _, t := range msg.outcome.Value {
			cmds = append(cmds, m.probeImage(t.ArtworkURL))
		}
		return m, tea.Batch(cmds...)

	case userResultMsg:
		if !m.userState.panel.Resolve(msg.seq, msg.outcome) {
			m.log.Debug().Uint64("seq", msg.seq).Msg("discarded stale user results")
			return m, nil
		}
		var cmds []tea.Cmd
		for _, u := range msg.outcome.Value {
			cmds = append(cmds, m.probeImage(u.AvatarURL))
		}
		return m, tea.Batch(cmds...)

	case chatReplyMsg:
		if !m.chatState.panel.Resolve(msg.seq, fetch.Success(msg.reply.Text)) {
			return m, nil
		}
		m.chatState.conversation.Append(assistant.NewMessage(assistant.SenderAI, msg.reply.Text))
		m.chatState.scrollPending = true
		m.log.Debug().Str("tier", msg.reply.Tier.String()).Msg("chat reply received")
		return m, nil

	case imageCheckedMsg:
		if msg.err != nil {
			m.images.failed[msg.url] = true
			m.log.Debug().Err(msg.err).Str("url", msg.url).Msg("image unavailable")
		}
		return m, nil

	case logLinesMsg:
		m.logState.lines = msg.lines
		m.logState.err = msg.err
		m.logState.version++
		return m, nil

	case logChangedMsg:
		cmds := []tea.Cmd{waitForLogChange(m.logChanges)}
		if m.currentView == ViewLogs && m.logState.follow {
			cmds = append(cmds, readLogsCmd(m.logPath))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		// Let the tick chain lapse while nothing is loading.
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	// Cursor blink and similar messages belong to the active input.
	return m.updateActiveInput(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewChat:
		return m.renderChat()
	case ViewGitHub:
		return m.renderGitHub()
	case ViewLogs:
		return m.renderLogs()
	default:
		return m.renderMusic()
	}
}

// busy reports whether anything on screen is waiting for the network.
func (m Model) busy() bool {
	return m.musicState.panel.Snapshot().Phase == state.PhaseLoading ||
		m.userState.panel.Snapshot().Phase == state.PhaseLoading ||
		m.chatState.panel.Snapshot().Phase == state.PhaseLoading ||
		(m.store != nil && !m.snapshot.HasFeed)
}

func (m *Model) resize() {
	w := max(m.width-2, 1)
	contentH := max(m.height-headerHeight, 4)

	m.musicState.input.Width = max(m.width-8, 10)
	m.userState.input.Width = max(m.width-8, 10)
	m.chatState.input.Width = max(m.width-8, 10)

	m.musicState.viewport.Width = w
	m.musicState.viewport.Height = max(contentH-inputBoxHeight-2, 1)
	m.userState.viewport.Width = w
	m.userState.viewport.Height = max(contentH-inputBoxHeight-2, 1)
	m.chatState.viewport.Width = w
	m.chatState.viewport.Height = max(contentH-inputBoxHeight-suggestionHeight-2, 1)
	m.logState.viewport.Width = w
	m.logState.viewport.Height = max(contentH-statusLineHeight-2, 1)
}

// syncViewports pushes the current state into the scrollable areas. It runs
// after every Update so View only has to draw.
func (m *Model) syncViewports() {
	if !m.ready {
		return
	}
	m.musicState.viewport.SetContent(m.renderMusicBody())
	m.userState.viewport.SetContent(m.renderUserBody())

	m.chatState.viewport.SetContent(m.renderChatBody())
	if m.chatState.scrollPending {
		m.chatState.viewport.GotoBottom()
		m.chatState.scrollPending = false
	}

	if m.logState.version != m.logState.rendered {
		m.logState.viewport.SetContent(m.renderLogContent())
		m.logState.rendered = m.logState.version
	}
	if m.logState.follow {
		m.logState.viewport.GotoBottom()
	}
}

func (m *Model) activeInput() *textinput.Model {
	switch m.currentView {
	case ViewMusic:
		return &m.musicState.input
	case ViewChat:
		return &m.chatState.input
	case ViewGitHub:
		return &m.userState.input
	default:
		return nil
	}
}

func (m *Model) focusInput() {
	m.musicState.input.Blur()
	m.chatState.input.Blur()
	m.userState.input.Blur()
	if m.browsing {
		return
	}
	if in := m.activeInput(); in != nil {
		in.Focus()
	}
}

func (m Model) updateActiveInput(msg tea.Msg) (Model, tea.Cmd) {
	in := m.activeInput()
	if in == nil {
		return m, nil
	}
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	return m, cmd
}

func (m *Model) switchView(v View) tea.Cmd {
	if v == m.currentView {
		return nil
	}
	m.currentView = v
	m.browsing = !v.hasInput()
	m.focusInput()
	m.savePrefs()
	if v == ViewLogs {
		m.logState.follow = true
		return readLogsCmd(m.logPath)
	}
	return textinput.Blink
}

func (m Model) cycleView(step int) View {
	for i, v := range viewOrder {
		if v == m.currentView {
			n := len(viewOrder)
			return viewOrder[((i+step)%n+n)%n]
		}
	}
	return ViewMusic
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	p := prefs.Prefs{Theme: m.theme.Name, LastView: m.currentView.String()}
	if err := prefs.Save(m.prefsPath, p); err != nil {
		m.log.Warn().Err(err).Msg("save preferences failed")
	}
}

// stop releases the debouncer timers.
func (m Model) stop() {
	m.musicState.debouncer.Stop()
	m.userState.debouncer.Stop()
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	defer m.stop()
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// Cancelled from outside, usually SIGTERM.
		return nil
	}
	return err
}
