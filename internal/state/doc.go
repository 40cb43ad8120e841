// Package state holds the presentation state shared between tunedeck's
// background work and the UI.
//
// # Panels
//
// Panel[T] is the results area behind one input field (music search, GitHub
// search, chat). Its phases are:
//
//	Idle ──Begin──→ Loading ──Resolve──→ Populated | Empty | Error
//	  ↑                 ↑                          │
//	  └──── Clear ──────┴────────── Begin ─────────┘
//
// Begin hands out a sequence number. A response is applied only when it
// presents the latest number, so a slow reply to an older query can never
// overwrite the results of a newer one. Clear bumps the number too, which
// makes every in-flight response stale.
//
// # Home feed
//
// Store holds the popular songs and featured albums written by the refresher
// goroutine and read by the UI on each tick. It follows a producer-consumer
// pattern under a sync.RWMutex:
//
//	Refresher                      UI
//	PopularSongs()                 store.Snapshot()
//	FeaturedAlbums()       ──→     render home feed
//	store.Update()
//
// A refresh that had to fall back to static data keeps any live lists
// already held and records the failure. ConsecutiveFailures drives the
// offline badge and the refresher's backoff.
//
// Both types are safe to use as zero values.
package state
