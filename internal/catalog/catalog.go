// Package catalog holds the static music data tunedeck shows when the live
// catalog cannot be reached, plus the curated home feed shipped in the binary.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// NoPreview is the placeholder the fallback lists use for a missing preview.
const NoPreview = "#"

// Track is one song or album entry as returned by the iTunes search API.
type Track struct {
	TrackID        int64  `json:"trackId,omitempty"`
	CollectionID   int64  `json:"collectionId,omitempty"`
	TrackName      string `json:"trackName,omitempty"`
	ArtistName     string `json:"artistName"`
	CollectionName string `json:"collectionName,omitempty"`
	ArtworkURL     string `json:"artworkUrl100,omitempty"`
	PreviewURL     string `json:"previewUrl,omitempty"`
	Genre          string `json:"primaryGenreName,omitempty"`
}

// HasPreview reports whether PreviewURL points at real audio.
func (t Track) HasPreview() bool {
	p := strings.TrimSpace(t.PreviewURL)
	return p != "" && p != NoPreview
}

// Title is the track name, or the collection name for album entries.
func (t Track) Title() string {
	if name := strings.TrimSpace(t.TrackName); name != "" {
		return name
	}
	return strings.TrimSpace(t.CollectionName)
}

// Kind selects a fallback list.
type Kind int

const (
	PopularSongs Kind = iota
	FeaturedAlbums
)

func (k Kind) String() string {
	switch k {
	case PopularSongs:
		return "popular songs"
	case FeaturedAlbums:
		return "featured albums"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

var fallbacks = map[Kind][]Track{
	PopularSongs: {
		{TrackName: "Blinding Lights", ArtistName: "The Weeknd", PreviewURL: NoPreview},
		{TrackName: "Flowers", ArtistName: "Miley Cyrus", PreviewURL: NoPreview},
	},
	FeaturedAlbums: {
		{CollectionName: "Midnights", ArtistName: "Taylor Swift"},
		{CollectionName: "Harry's House", ArtistName: "Harry Styles"},
	},
}

// Resolve returns a fresh copy of the fallback list for kind. Unknown kinds
// yield nil.
func Resolve(kind Kind) []Track {
	src, ok := fallbacks[kind]
	if !ok {
		return nil
	}
	out := make([]Track, len(src))
	copy(out, src)
	return out
}

// Playlist is a curated playlist on the home feed.
type Playlist struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image,omitempty"`
}

// Release is a new-release tile on the home feed.
type Release struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Image string `json:"image,omitempty"`
}

// Home is the curated part of the home feed.
type Home struct {
	FeaturedPlaylists []Playlist `json:"featuredPlaylists"`
	NewReleases       []Release  `json:"newReleases"`
}

//go:embed catalog.json
var homeJSON []byte

var loadHome = sync.OnceValues(func() (Home, error) {
	var h Home
	if err := json.Unmarshal(homeJSON, &h); err != nil {
		return Home{}, fmt.Errorf("decode home catalog: %w", err)
	}
	return h, nil
})

// LoadHome returns a copy of the embedded home catalog.
func LoadHome() (Home, error) {
	h, err := loadHome()
	if err != nil {
		return Home{}, err
	}
	return Home{
		FeaturedPlaylists: append([]Playlist(nil), h.FeaturedPlaylists...),
		NewReleases:       append([]Release(nil), h.NewReleases...),
	}, nil
}
