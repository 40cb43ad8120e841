// Package github searches GitHub user accounts.
package github

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/five82/tunedeck/internal/fetch"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultURL   = "https://api.github.com"
	DefaultLimit = 10

	// profileWorkers bounds concurrent profile lookups after a search.
	profileWorkers = 4
)

// User is one account card. Name and Bio are often empty.
type User struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
	HTMLURL   string `json:"html_url"`
}

// DisplayName is the profile name, or the login when no name is set.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	return u.Login
}

type searchResponse struct {
	TotalCount int    `json:"total_count"`
	Items      []User `json:"items"`
}

var (
	searchSchema = fetch.MustSchema(`{
		"type": "object",
		"required": ["items"],
		"properties": {
			"items": {
				"type": "array",
				"items": {"type": "object", "required": ["login"]}
			}
		}
	}`)
	profileSchema = fetch.MustSchema(`{
		"type": "object",
		"required": ["login"]
	}`)
)

// Client searches users and fills in profile details for each hit.
type Client struct {
	doer     fetch.Doer
	endpoint fetch.Endpoint
	log      zerolog.Logger
	profiles bool
}

// NewClient builds a Client against endpoint.URL (the API root). A blank URL
// uses DefaultURL. An APIKey, when present, is sent as a bearer token.
func NewClient(doer fetch.Doer, endpoint fetch.Endpoint, log zerolog.Logger) *Client {
	if strings.TrimSpace(endpoint.URL) == "" {
		endpoint.URL = DefaultURL
	}
	endpoint.URL = strings.TrimRight(endpoint.URL, "/")
	headers := map[string]string{
		"Accept":               "application/vnd.github+json",
		"X-GitHub-Api-Version": "2022-11-28",
	}
	for k, v := range endpoint.Headers {
		headers[k] = v
	}
	endpoint.Headers = headers
	return &Client{doer: doer, endpoint: endpoint, log: log, profiles: true}
}

// WithoutProfiles returns a copy of c that skips the per-user profile
// lookups, leaving only the fields the search index returns.
func (c *Client) WithoutProfiles() *Client {
	cp := *c
	cp.profiles = false
	return &cp
}

// Search returns up to limit accounts matching query.
func (c *Client) Search(ctx context.Context, query string, limit int) fetch.Outcome[[]User] {
	query = strings.TrimSpace(query)
	if query == "" {
		return fetch.Empty[[]User]()
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	ep := c.endpoint
	ep.URL += "/search/users"
	q := url.Values{}
	q.Set("q", query)
	q.Set("per_page", strconv.Itoa(limit))

	var resp searchResponse
	err := c.doer.Do(ctx, fetch.Request{Endpoint: ep, Query: q, Schema: searchSchema}, &resp)
	out := fetch.ListOutcome(resp.Items, limit, err)
	if !out.IsSuccess() || !c.profiles {
		return out
	}
	c.fillProfiles(ctx, out.Value)
	return out
}

// fillProfiles replaces each search hit with its full profile. A failed
// lookup keeps the search hit as is.
func (c *Client) fillProfiles(ctx context.Context, users []User) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(profileWorkers)
	for i := range users {
		g.Go(func() error {
			profile, err := c.profile(gctx, users[i].Login)
			if err != nil {
				c.log.Debug().Err(err).Str("login", users[i].Login).Msg("profile lookup failed")
				return nil
			}
			users[i] = profile
			return nil
		})
	}
	_ = g.Wait()
}

func (c *Client) profile(ctx context.Context, login string) (User, error) {
	ep := c.endpoint
	ep.URL += "/users/" + url.PathEscape(login)
	var u User
	if err := c.doer.Do(ctx, fetch.Request{Endpoint: ep, Schema: profileSchema}, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
