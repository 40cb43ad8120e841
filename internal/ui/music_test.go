package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tunedeck/internal/catalog"
	"github.com/five82/tunedeck/internal/config"
	"github.com/five82/tunedeck/internal/fetch"
	"github.com/five82/tunedeck/internal/state"
)

type fakeMusic struct {
	mu      sync.Mutex
	terms   []string
	results map[string]fetch.Outcome[[]catalog.Track]
}

func (f *fakeMusic) Search(ctx context.Context, term string, limit int) fetch.Outcome[[]catalog.Track] {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.terms = append(f.terms, term)
	if out, ok := f.results[term]; ok {
		return out
	}
	return fetch.Empty[[]catalog.Track]()
}

func (f *fakeMusic) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.terms...)
}

type fakeProber struct {
	broken map[string]bool
}

func (f fakeProber) Probe(ctx context.Context, url string) error {
	if f.broken[url] {
		return errors.New("404")
	}
	return nil
}

func song(title, artist string) catalog.Track {
	return catalog.Track{TrackName: title, ArtistName: artist, PreviewURL: catalog.NoPreview}
}

// slowSearch keeps the debouncer out of the way so only Enter starts searches.
var slowSearch = config.Search{Debounce: time.Hour, MinQueryLength: 3}

func newMusicModel(t *testing.T, music MusicSearcher, search config.Search) Model {
	t.Helper()
	return newTestModel(t, Options{Music: music, Search: search})
}

func TestMusic_DebouncedTypingSearchesOnce(t *testing.T) {
	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"adele": fetch.Success([]catalog.Track{song("Hello", "Adele")}),
	}}
	m := newMusicModel(t, music, config.Search{Debounce: 20 * time.Millisecond, MinQueryLength: 3})

	m = typeText(t, m, "adele")
	q := nextQuery(t, m, "adele")
	if q.target != ViewMusic {
		t.Fatalf("target = %v, want music", q.target)
	}

	m, cmd := updateCmd(t, m, q)
	m = deliver(t, m, cmd)

	if got := music.calls(); len(got) != 1 || got[0] != "adele" {
		t.Fatalf("searches = %v, want one for adele", got)
	}
	view := screen(m)
	assertContains(t, view, `Search Results for "adele" (1)`)
	assertContains(t, view, "Hello · Adele")
}

func TestMusic_ShortQueryNeverFires(t *testing.T) {
	m := newMusicModel(t, &fakeMusic{}, config.Search{Debounce: 10 * time.Millisecond, MinQueryLength: 3})

	m = typeText(t, m, "ab")
	select {
	case q := <-m.queries:
		t.Fatalf("unexpected debounced query %q", q.query)
	case <-time.After(60 * time.Millisecond):
	}
	if phase := m.musicState.panel.Snapshot().Phase; phase != state.PhaseIdle {
		t.Fatalf("phase = %v, want idle", phase)
	}
}

func TestMusic_EnterSearchesShortQuery(t *testing.T) {
	music := &fakeMusic{}
	m := newMusicModel(t, music, slowSearch)

	m = typeText(t, m, "ab")
	m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))

	snap := m.musicState.panel.Snapshot()
	if snap.Phase != state.PhaseLoading || snap.Query != "ab" {
		t.Fatalf("snapshot = %+v, want loading for ab", snap)
	}
	assertContains(t, screen(m), `Searching for "ab"...`)

	deliver(t, m, cmd)
	if got := music.calls(); len(got) != 1 || got[0] != "ab" {
		t.Fatalf("searches = %v", got)
	}
}

func TestMusic_StaleResponseIsDiscarded(t *testing.T) {
	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"abc":  fetch.Success([]catalog.Track{song("Old Answer", "Nobody")}),
		"abcd": fetch.Success([]catalog.Track{song("New Answer", "Somebody")}),
	}}

	for _, order := range []string{"newest first", "oldest first"} {
		t.Run(order, func(t *testing.T) {
			m := newMusicModel(t, music, slowSearch)

			m = typeText(t, m, "abc")
			m, first := updateCmd(t, m, keyOf(tea.KeyEnter))
			m = typeText(t, m, "d")
			m, second := updateCmd(t, m, keyOf(tea.KeyEnter))

			if order == "newest first" {
				m = deliver(t, m, second)
				m = deliver(t, m, first)
			} else {
				m = deliver(t, m, first)
				m = deliver(t, m, second)
			}

			snap := m.musicState.panel.Snapshot()
			if snap.Query != "abcd" || len(snap.Value) != 1 || snap.Value[0].TrackName != "New Answer" {
				t.Fatalf("snapshot = %+v", snap)
			}
			view := screen(m)
			assertContains(t, view, "New Answer")
			assertNotContains(t, view, "Old Answer")
		})
	}
}

func TestMusic_DebouncedQueryIgnoredAfterEdit(t *testing.T) {
	music := &fakeMusic{}
	m := newMusicModel(t, music, slowSearch)

	m = typeText(t, m, "queen")
	m, cmd := updateCmd(t, m, debouncedQuery{target: ViewMusic, query: "que"})

	if phase := m.musicState.panel.Snapshot().Phase; phase != state.PhaseIdle {
		t.Fatalf("phase = %v, want idle", phase)
	}
	if cmd == nil {
		t.Fatal("listener was not re-armed")
	}
	if got := music.calls(); len(got) != 0 {
		t.Fatalf("searches = %v, want none", got)
	}
}

func TestMusic_ClearingInputDropsInFlightSearch(t *testing.T) {
	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"abc": fetch.Success([]catalog.Track{song("Late Arrival", "Someone")}),
	}}
	m := newMusicModel(t, music, slowSearch)

	m = typeText(t, m, "abc")
	m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))
	for range 3 {
		m = update(t, m, keyOf(tea.KeyBackspace))
	}
	if phase := m.musicState.panel.Snapshot().Phase; phase != state.PhaseIdle {
		t.Fatalf("phase after clearing = %v, want idle", phase)
	}

	m = deliver(t, m, cmd)
	if phase := m.musicState.panel.Snapshot().Phase; phase != state.PhaseIdle {
		t.Fatalf("late response revived panel: %v", phase)
	}
	view := screen(m)
	assertContains(t, view, "Popular Right Now")
	assertNotContains(t, view, "Late Arrival")
}

func TestMusic_ShorteningBelowMinimumDropsInFlightSearch(t *testing.T) {
	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"abc": fetch.Success([]catalog.Track{song("Late Arrival", "Someone")}),
	}}
	m := newMusicModel(t, music, slowSearch)

	m = typeText(t, m, "abc")
	m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))
	m = update(t, m, keyOf(tea.KeyBackspace))

	m = deliver(t, m, cmd)

	if got := m.musicState.input.Value(); got != "ab" {
		t.Fatalf("input = %q, want ab", got)
	}
	snap := m.musicState.panel.Snapshot()
	if snap.Phase != state.PhaseIdle || snap.Query != "" {
		t.Fatalf("snapshot = %+v, want idle after late response", snap)
	}
	assertNotContains(t, screen(m), "Late Arrival")
}

func TestMusic_EditAfterEnterDropsInFlightSearch(t *testing.T) {
	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"abc": fetch.Success([]catalog.Track{song("Late Arrival", "Someone")}),
	}}
	m := newMusicModel(t, music, slowSearch)

	m = typeText(t, m, "abc")
	m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))
	m = typeText(t, m, "d")

	m = deliver(t, m, cmd)

	snap := m.musicState.panel.Snapshot()
	if snap.Phase != state.PhaseLoading {
		t.Fatalf("phase = %v, want loading until the new query runs", snap.Phase)
	}
	assertNotContains(t, screen(m), "Late Arrival")
}

func TestMusic_CursorMovesKeepInFlightSearch(t *testing.T) {
	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"abc": fetch.Success([]catalog.Track{song("On Time", "Someone")}),
	}}
	m := newMusicModel(t, music, slowSearch)

	m = typeText(t, m, "abc")
	m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))
	m = update(t, m, keyOf(tea.KeyLeft))
	m = deliver(t, m, cmd)

	if phase := m.musicState.panel.Snapshot().Phase; phase != state.PhasePopulated {
		t.Fatalf("phase = %v, want populated", phase)
	}
	assertContains(t, screen(m), "On Time")
}

func TestMusic_ClearKeyInBrowseMode(t *testing.T) {
	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"abba": fetch.Success([]catalog.Track{song("Dancing Queen", "ABBA")}),
	}}
	m := newMusicModel(t, music, slowSearch)

	m = typeText(t, m, "abba")
	m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))
	m = deliver(t, m, cmd)

	m = update(t, m, keyOf(tea.KeyEsc))
	m = update(t, m, runes("c"))

	if got := m.musicState.input.Value(); got != "" {
		t.Fatalf("input = %q, want empty", got)
	}
	if phase := m.musicState.panel.Snapshot().Phase; phase != state.PhaseIdle {
		t.Fatalf("phase = %v, want idle", phase)
	}
}

func TestMusic_EmptyAndErrorMessages(t *testing.T) {
	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"zzzz": fetch.Empty[[]catalog.Track](),
		"boom": fetch.Fail[[]catalog.Track](&fetch.Failure{Kind: fetch.ServiceError, Status: 500}),
	}}

	tests := []struct {
		query string
		want  string
		phase state.Phase
	}{
		{"zzzz", `No results found for "zzzz"`, state.PhaseEmpty},
		{"boom", "Search failed. Check your connection and try again.", state.PhaseError},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			m := newMusicModel(t, music, slowSearch)
			m = typeText(t, m, tt.query)
			m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))
			m = deliver(t, m, cmd)

			if phase := m.musicState.panel.Snapshot().Phase; phase != tt.phase {
				t.Fatalf("phase = %v, want %v", phase, tt.phase)
			}
			assertContains(t, screen(m), tt.want)
		})
	}
}

func TestMusic_UnconfiguredSearcherFails(t *testing.T) {
	m := newMusicModel(t, nil, slowSearch)

	m = typeText(t, m, "abc")
	m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))
	m = deliver(t, m, cmd)

	if phase := m.musicState.panel.Snapshot().Phase; phase != state.PhaseError {
		t.Fatalf("phase = %v, want error", phase)
	}
}

func TestMusic_ViewAllToggle(t *testing.T) {
	var tracks []catalog.Track
	for i := 1; i <= 8; i++ {
		tracks = append(tracks, song(fmt.Sprintf("Song %d", i), "Band"))
	}
	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"band": fetch.Success(tracks),
	}}
	m := newMusicModel(t, music, slowSearch)

	m = typeText(t, m, "band")
	m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))
	m = deliver(t, m, cmd)

	view := screen(m)
	assertContains(t, view, "Song 6")
	assertNotContains(t, view, "Song 7")
	assertContains(t, view, "View all 8 results")

	m = update(t, m, keyOf(tea.KeyEsc))
	m = update(t, m, runes("v"))
	if !m.musicState.showAll {
		t.Fatal("showAll not set")
	}
	view = screen(m)
	assertContains(t, view, "Song 8")
	assertContains(t, view, "Showing all results")

	m = update(t, m, runes("v"))
	assertNotContains(t, screen(m), "Song 8")
}

func TestMusic_ViewAllIgnoredWithoutResults(t *testing.T) {
	m := newMusicModel(t, &fakeMusic{}, slowSearch)

	m = update(t, m, keyOf(tea.KeyEsc))
	m = update(t, m, runes("v"))
	if m.musicState.showAll {
		t.Fatal("showAll toggled on the home feed")
	}
}

func TestMusic_PreviewIndicatorOnlyForPlayableTracks(t *testing.T) {
	playable := song("With Audio", "Singer")
	playable.PreviewURL = "https://audio.test/preview.m4a"
	silent := song("No Audio", "Singer")

	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"singer": fetch.Success([]catalog.Track{playable, silent}),
	}}
	m := newMusicModel(t, music, slowSearch)

	m = typeText(t, m, "singer")
	m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))
	m = deliver(t, m, cmd)

	var withAudio, noAudio string
	for _, line := range strings.Split(screen(m), "\n") {
		switch {
		case strings.Contains(line, "With Audio"):
			withAudio = line
		case strings.Contains(line, "No Audio"):
			noAudio = line
		}
	}
	if !strings.Contains(withAudio, previewIndicator) {
		t.Fatalf("playable line lacks indicator: %q", withAudio)
	}
	if noAudio == "" || strings.Contains(noAudio, previewIndicator) {
		t.Fatalf("silent line = %q", noAudio)
	}
}

func TestMusic_BrokenArtworkShowsPlaceholder(t *testing.T) {
	good := song("Good Cover", "Artist")
	good.ArtworkURL = "https://img.test/good.jpg"
	broken := song("Broken Cover", "Artist")
	broken.ArtworkURL = "https://img.test/broken.jpg"
	bare := song("No Cover", "Artist")

	music := &fakeMusic{results: map[string]fetch.Outcome[[]catalog.Track]{
		"cover": fetch.Success([]catalog.Track{good, broken, bare}),
	}}
	m := newTestModel(t, Options{
		Music:  music,
		Search: slowSearch,
		Prober: fakeProber{broken: map[string]bool{broken.ArtworkURL: true}},
	})

	m = typeText(t, m, "cover")
	m, cmd := updateCmd(t, m, keyOf(tea.KeyEnter))
	m = deliver(t, m, cmd)

	if m.imageFailed(good.ArtworkURL) {
		t.Fatal("good artwork flagged as failed")
	}
	if !m.imageFailed(broken.ArtworkURL) {
		t.Fatal("broken artwork not flagged")
	}
	if !m.imageFailed(bare.ArtworkURL) {
		t.Fatal("missing artwork not flagged")
	}

	view := screen(m)
	assertContains(t, view, artGlyph+" Good Cover")
	assertContains(t, view, artPlaceholder+" Broken Cover")
	assertContains(t, view, artPlaceholder+" No Cover")
}

func TestMusic_ImagesProbedOnce(t *testing.T) {
	m := newTestModel(t, Options{Prober: fakeProber{}})

	url := "https://img.test/once.jpg"
	if m.probeImage(url) == nil {
		t.Fatal("first probe not scheduled")
	}
	if m.probeImage(url) != nil {
		t.Fatal("second probe scheduled")
	}
	if m.probeImage("") != nil {
		t.Fatal("blank url probed")
	}
}
