// Package itunes searches the public iTunes catalog for songs and albums.
package itunes

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/tunedeck/internal/catalog"
	"github.com/five82/tunedeck/internal/fetch"
	"github.com/rs/zerolog"
)

// DefaultURL is the public search endpoint. It needs no key.
const DefaultURL = "https://itunes.apple.com/search"

const (
	DefaultSearchLimit = 12
	popularLimit       = 8
	featuredLimit      = 6
)

// resultsSchema accepts a null or missing results list; both decode to no
// tracks and fold into Empty.
var resultsSchema = fetch.MustSchema(`{
	"type": "object",
	"properties": {
		"results": {
			"type": ["array", "null"],
			"items": {"type": "object"}
		}
	}
}`)

type searchResponse struct {
	ResultCount int             `json:"resultCount"`
	Results     []catalog.Track `json:"results"`
}

// Feed is one home-feed list. FromFallback is set when the live catalog
// failed or came back empty and the static list was used instead.
type Feed struct {
	Tracks       []catalog.Track
	FromFallback bool
	Failure      *fetch.Failure
}

// Client wraps a fetch.Doer with the iTunes query vocabulary.
type Client struct {
	doer     fetch.Doer
	endpoint fetch.Endpoint
	log      zerolog.Logger
}

// NewClient builds a Client. A blank endpoint URL uses DefaultURL.
func NewClient(doer fetch.Doer, endpoint fetch.Endpoint, log zerolog.Logger) *Client {
	if strings.TrimSpace(endpoint.URL) == "" {
		endpoint.URL = DefaultURL
	}
	return &Client{doer: doer, endpoint: endpoint, log: log}
}

// Search looks up songs matching term. It never falls back to static data:
// a failed user search is reported as a failure.
func (c *Client) Search(ctx context.Context, term string, limit int) fetch.Outcome[[]catalog.Track] {
	term = strings.TrimSpace(term)
	if term == "" {
		return fetch.Empty[[]catalog.Track]()
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	tracks, err := c.query(ctx, term, "song", limit, "")
	return fetch.ListOutcome(tracks, limit, err)
}

// PopularSongs loads the "popular right now" list.
func (c *Client) PopularSongs(ctx context.Context) Feed {
	tracks, err := c.query(ctx, "pop", "song", popularLimit, "")
	return c.populate(catalog.PopularSongs, fetch.ListOutcome(tracks, popularLimit, err))
}

// FeaturedAlbums loads the featured album list.
func (c *Client) FeaturedAlbums(ctx context.Context) Feed {
	tracks, err := c.query(ctx, "album", "album", featuredLimit, "featuredTerm")
	return c.populate(catalog.FeaturedAlbums, fetch.ListOutcome(tracks, featuredLimit, err))
}

func (c *Client) populate(kind catalog.Kind, out fetch.Outcome[[]catalog.Track]) Feed {
	if out.IsSuccess() {
		return Feed{Tracks: out.Value}
	}
	ev := c.log.Info()
	if out.IsFailure() {
		ev = c.log.Warn().Err(out.Failure).Str("failure", out.Failure.Kind.String())
	}
	ev.Str("list", kind.String()).Msg("using fallback list")
	return Feed{Tracks: catalog.Resolve(kind), FromFallback: true, Failure: out.Failure}
}

func (c *Client) query(ctx context.Context, term, entity string, limit int, attribute string) ([]catalog.Track, error) {
	q := url.Values{}
	q.Set("term", term)
	q.Set("media", "music")
	q.Set("entity", entity)
	q.Set("limit", strconv.Itoa(limit))
	if attribute != "" {
		q.Set("attribute", attribute)
	}

	var resp searchResponse
	err := c.doer.Do(ctx, fetch.Request{
		Endpoint: c.endpoint,
		Query:    q,
		Schema:   resultsSchema,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Results, nil
}
