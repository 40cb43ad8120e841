package ui

import "time"

// Layout heights in terminal rows.
const (
	headerHeight     = 2 // header line and command bar
	inputBoxHeight   = 3
	suggestionHeight = 1
	statusLineHeight = 1
)

// LayoutCompactWidth is the width below which the header drops detail.
const LayoutCompactWidth = 100

const (
	// DefaultUIInterval is how often the UI re-reads the home feed store.
	DefaultUIInterval = time.Second

	// LogTailLines is how many lines the Logs view keeps.
	LogTailLines = 500

	// resultsPreview is how many search hits show before "View all".
	resultsPreview = 6

	defaultMusicLimit  = 12
	defaultGitHubLimit = 10
	queryBuffer        = 8
)
