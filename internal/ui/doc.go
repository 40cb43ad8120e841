// Package ui is tunedeck's Bubble Tea interface.
//
// # Views
//
// Four views share one header and command bar:
//
//   - Music: debounced catalog search over the home feed (popular songs,
//     featured albums, curated playlists and new releases)
//   - Chat: the music assistant conversation with quick-question suggestions
//   - GitHub: debounced user search rendered as profile cards
//   - Logs: the tunedeck log file, followed live through logtail.Watch
//
// # Input
//
// Views with a text field start in typing mode. Esc toggles browse mode,
// where single-letter keys navigate, switch views and cycle the theme. Tab
// and ctrl+c work in both modes.
//
// # Data Flow
//
// Keystrokes go to a debounce.Debouncer per field. When a fire gets through,
// its timer goroutine hands the query to a buffered channel that a waiting
// command turns into a message. Update then calls state.Panel.Begin and
// launches the search. Results come back tagged with the sequence number
// from Begin; Panel.Resolve drops any that a newer query has superseded.
//
// The home feed is written by the app package's refresher into a
// state.Store. The UI copies a snapshot once per tick.
//
// # Images
//
// A terminal cannot show artwork, so each artwork and avatar URL is probed
// once with a HEAD request. Entries whose URL is blank or failed render a
// placeholder glyph instead.
//
// # Themes
//
// Nightfox, Kanagawa and Slate. T cycles them and the choice is saved with
// the last active view through the prefs package.
package ui
