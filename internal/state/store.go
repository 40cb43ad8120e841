package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/tunedeck/internal/catalog"
	"github.com/five82/tunedeck/internal/itunes"
)

// Snapshot is the home feed as the UI last saw it.
type Snapshot struct {
	Popular             []catalog.Track
	PopularFallback     bool
	Albums              []catalog.Track
	AlbumsFallback      bool
	HasFeed             bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // refreshes in a row with at least one failed list
}

// IsOffline returns true when the catalog has failed for multiple refreshes.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates the refresher goroutine writing the home feed and the UI
// reading it.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records one refresh. A fallback list never replaces live data that
// is already held; the previous tracks stay and the failure is recorded.
func (s *Store) Update(popular, albums itunes.Feed) {
	s.mu.Lock()
	defer s.mu.Unlock()

	applyFeed(&s.snapshot.Popular, &s.snapshot.PopularFallback, popular, s.snapshot.HasFeed)
	applyFeed(&s.snapshot.Albums, &s.snapshot.AlbumsFallback, albums, s.snapshot.HasFeed)
	s.snapshot.HasFeed = true
	s.snapshot.LastUpdated = time.Now()

	var errs []error
	if popular.Failure != nil {
		errs = append(errs, fmt.Errorf("popular songs: %w", popular.Failure))
	}
	if albums.Failure != nil {
		errs = append(errs, fmt.Errorf("featured albums: %w", albums.Failure))
	}
	if err := errors.Join(errs...); err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		return
	}
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

func applyFeed(dst *[]catalog.Track, fromFallback *bool, feed itunes.Feed, hasFeed bool) {
	if feed.FromFallback && hasFeed && !*fromFallback && len(*dst) > 0 {
		return
	}
	*dst = cloneTracks(feed.Tracks)
	*fromFallback = feed.FromFallback
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Popular = cloneTracks(s.snapshot.Popular)
	snap.Albums = cloneTracks(s.snapshot.Albums)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneTracks(items []catalog.Track) []catalog.Track {
	if len(items) == 0 {
		return nil
	}
	dup := make([]catalog.Track, len(items))
	copy(dup, items)
	return dup
}
