package app

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/tunedeck/internal/catalog"
	"github.com/five82/tunedeck/internal/fetch"
	"github.com/five82/tunedeck/internal/itunes"
	"github.com/five82/tunedeck/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	base := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures", 4, 8 * time.Minute},
		{"five failures capped", 5, 10 * time.Minute}, // Would be 16m, capped to 10m
		{"many failures capped", 40, 10 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, base)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, base, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	base := 30 * time.Second
	for failures := 0; failures <= 80; failures++ {
		got := calculateBackoff(failures, base)
		if got > maxBackoff || got <= 0 {
			t.Errorf("calculateBackoff(%d, %v) = %v, outside (0, %v]", failures, base, got, maxBackoff)
		}
	}
}

type fakeLoader struct {
	calls   atomic.Int32
	failing bool
}

func (f *fakeLoader) PopularSongs(ctx context.Context) itunes.Feed {
	f.calls.Add(1)
	if f.failing {
		return itunes.Feed{
			Tracks:       catalog.Resolve(catalog.PopularSongs),
			FromFallback: true,
			Failure:      &fetch.Failure{Kind: fetch.NetworkFailure, Endpoint: "test"},
		}
	}
	return itunes.Feed{Tracks: []catalog.Track{{TrackID: 1, TrackName: "Live Song", ArtistName: "Live Artist"}}}
}

func (f *fakeLoader) FeaturedAlbums(ctx context.Context) itunes.Feed {
	return itunes.Feed{Tracks: []catalog.Track{{CollectionID: 2, CollectionName: "Live Album"}}}
}

func TestRefresh_RecordsFeeds(t *testing.T) {
	store := &state.Store{}
	failures := refresh(context.Background(), store, &fakeLoader{}, zerolog.Nop())
	if failures != 0 {
		t.Fatalf("failures = %d, want 0", failures)
	}

	snap := store.Snapshot()
	if !snap.HasFeed {
		t.Fatal("expected HasFeed after refresh")
	}
	if len(snap.Popular) != 1 || snap.Popular[0].TrackName != "Live Song" {
		t.Fatalf("Popular = %#v", snap.Popular)
	}
	if len(snap.Albums) != 1 || snap.Albums[0].CollectionName != "Live Album" {
		t.Fatalf("Albums = %#v", snap.Albums)
	}
}

func TestRefresh_CountsConsecutiveFailures(t *testing.T) {
	store := &state.Store{}
	loader := &fakeLoader{failing: true}

	if got := refresh(context.Background(), store, loader, zerolog.Nop()); got != 1 {
		t.Fatalf("first failures = %d, want 1", got)
	}
	if got := refresh(context.Background(), store, loader, zerolog.Nop()); got != 2 {
		t.Fatalf("second failures = %d, want 2", got)
	}
	if !store.Snapshot().PopularFallback {
		t.Fatal("expected fallback popular list")
	}
}

func TestRefresh_CancelledContextLeavesStoreAlone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &state.Store{}
	refresh(ctx, store, &fakeLoader{}, zerolog.Nop())
	if store.Snapshot().HasFeed {
		t.Fatal("store updated after cancellation")
	}
}

func TestStartRefresher_LoadsImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := &state.Store{}
	loader := &fakeLoader{}
	StartRefresher(ctx, store, loader, time.Hour, zerolog.Nop())

	deadline := time.Now().Add(2 * time.Second)
	for !store.Snapshot().HasFeed {
		if time.Now().After(deadline) {
			t.Fatal("refresher did not populate the store")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := loader.calls.Load(); got != 1 {
		t.Fatalf("loader calls = %d, want 1", got)
	}
}
