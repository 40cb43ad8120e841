package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/tunedeck/internal/itunes"
	"github.com/five82/tunedeck/internal/state"
)

const (
	defaultRefreshInterval = 15 * time.Minute
	retryBase              = 30 * time.Second
	maxBackoff             = 10 * time.Minute
)

// FeedLoader loads the two live home-feed lists. *itunes.Client satisfies it.
type FeedLoader interface {
	PopularSongs(ctx context.Context) itunes.Feed
	FeaturedAlbums(ctx context.Context) itunes.Feed
}

// StartRefresher launches a background goroutine that fills the store right
// away and then every interval. While the catalog keeps failing it retries
// sooner, backing off from retryBase up to the interval. It returns
// immediately.
func StartRefresher(ctx context.Context, store *state.Store, loader FeedLoader, interval time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	go func() {
		for {
			wait := interval
			if failures := refresh(ctx, store, loader, log); failures > 0 {
				wait = min(calculateBackoff(failures-1, retryBase), interval)
			}

			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		}
	}()
}

// refresh loads both lists concurrently, records them and returns the
// store's consecutive failure count.
func refresh(ctx context.Context, store *state.Store, loader FeedLoader, log zerolog.Logger) int {
	var (
		wg             sync.WaitGroup
		popular, album itunes.Feed
	)
	wg.Go(func() { popular = loader.PopularSongs(ctx) })
	wg.Go(func() { album = loader.FeaturedAlbums(ctx) })
	wg.Wait()

	if ctx.Err() != nil {
		return 0
	}
	store.Update(popular, album)

	snap := store.Snapshot()
	if snap.LastError != nil {
		log.Warn().Err(snap.LastError).Int("failures", snap.ConsecutiveFailures).Msg("home feed refresh degraded")
	} else {
		log.Debug().Int("popular", len(snap.Popular)).Int("albums", len(snap.Albums)).Msg("home feed refreshed")
	}
	return snap.ConsecutiveFailures
}

// calculateBackoff doubles base once per failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	if failures > 30 {
		return maxBackoff
	}
	d := base << failures
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}
