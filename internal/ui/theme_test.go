package ui

import (
	"testing"

	"github.com/five82/tunedeck/internal/state"
)

func TestGetThemeFallsBackToNightfox(t *testing.T) {
	if got := GetTheme("Solarized").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(unknown) = %q", got)
	}
	if got := GetTheme("Kanagawa").Name; got != "Kanagawa" {
		t.Fatalf("GetTheme(Kanagawa) = %q", got)
	}
}

func TestNextThemeCycles(t *testing.T) {
	names := ThemeNames()
	for i, name := range names {
		want := names[(i+1)%len(names)]
		if got := NextTheme(name); got != want {
			t.Errorf("NextTheme(%q) = %q, want %q", name, got, want)
		}
	}
	if got := NextTheme("unknown"); got != names[0] {
		t.Fatalf("NextTheme(unknown) = %q", got)
	}
}

func TestThemeNamesIsACopy(t *testing.T) {
	names := ThemeNames()
	names[0] = "Mutated"
	if ThemeNames()[0] == "Mutated" {
		t.Fatal("ThemeNames exposed internal slice")
	}
}

func TestThemesColourEveryPhase(t *testing.T) {
	phases := []state.Phase{state.PhaseIdle, state.PhaseLoading, state.PhasePopulated, state.PhaseEmpty, state.PhaseError}
	for _, name := range ThemeNames() {
		theme := GetTheme(name)
		if theme.Name != name {
			t.Errorf("theme %q reports name %q", name, theme.Name)
		}
		for _, p := range phases {
			if theme.PhaseColors[p] == "" {
				t.Errorf("theme %q has no colour for %v", name, p)
			}
		}
		if theme.UserBubble == "" || theme.AIBubble == "" {
			t.Errorf("theme %q is missing chat bubble colours", name)
		}
	}
}
