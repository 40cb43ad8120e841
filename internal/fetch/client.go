package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"
)

// Endpoint is the injected configuration for one remote service.
type Endpoint struct {
	URL    string
	APIKey string
	// KeyHeader names the header carrying APIKey. Empty sends
	// "Authorization: Bearer <key>".
	KeyHeader string
	Headers   map[string]string
	// Timeout bounds a single call; zero leaves only the context deadline.
	Timeout time.Duration
}

// Schema is a compiled JSON schema a response body must satisfy.
type Schema struct {
	schema *gojsonschema.Schema
}

// MustSchema compiles src and panics when it is not a valid schema. Intended
// for package-level vars.
func MustSchema(src string) *Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("fetch: invalid schema: %v", err))
	}
	return &Schema{schema: s}
}

func (s *Schema) validate(body []byte) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("validate response: %w", err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return fmt.Errorf("unexpected response shape: %s", strings.Join(errs, "; "))
}

// Request describes one call.
type Request struct {
	Method   string
	Endpoint Endpoint
	Query    url.Values
	Body     any
	Schema   *Schema
}

// Doer is implemented by *Client and lets feature clients be tested without
// a network.
type Doer interface {
	Do(ctx context.Context, req Request, dest any) error
	Probe(ctx context.Context, rawURL string) error
}

var _ Doer = (*Client)(nil)

// Client issues JSON HTTP calls and reports every failure as *Failure.
type Client struct {
	http      *http.Client
	userAgent string
	log       zerolog.Logger
}

const (
	defaultUserAgent = "tunedeck/0.1"
	maxResponseBytes = 4 << 20
	probeTimeout     = 5 * time.Second
)

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) {
		c.log = log
	}
}

// NewClient builds a Client. Without options it logs nowhere and relies on
// per-endpoint timeouts.
func NewClient(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{},
		userAgent: defaultUserAgent,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs req and decodes the JSON response into dest (which may be nil).
func (c *Client) Do(ctx context.Context, req Request, dest any) error {
	if c == nil {
		return &Failure{Kind: NetworkFailure, Err: errors.New("client is nil")}
	}
	target, err := buildURL(req.Endpoint.URL, req.Query)
	if err != nil {
		return &Failure{Kind: NetworkFailure, Endpoint: req.Endpoint.URL, Err: err}
	}
	label := endpointLabel(target)

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		payload, err := json.Marshal(req.Body)
		if err != nil {
			return &Failure{Kind: ParseFailure, Endpoint: label, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(payload)
	}

	if req.Endpoint.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Endpoint.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return &Failure{Kind: NetworkFailure, Endpoint: label, Err: fmt.Errorf("create request: %w", err)}
	}
	c.setHeaders(httpReq, req.Endpoint, body != nil)

	reqID := uuid.NewString()
	started := time.Now()
	log := c.log.With().Str("request_id", reqID).Str("method", method).Str("endpoint", label).Logger()
	log.Debug().Msg("request started")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		f := &Failure{Kind: NetworkFailure, Endpoint: label, Err: fmt.Errorf("execute request: %w", err)}
		log.Warn().Err(err).Dur("elapsed", time.Since(started)).Msg("request failed")
		return f
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn().Int("status", resp.StatusCode).Dur("elapsed", time.Since(started)).Msg("service error")
		return &Failure{Kind: ServiceError, Endpoint: label, Status: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		log.Warn().Err(err).Msg("read body failed")
		return &Failure{Kind: NetworkFailure, Endpoint: label, Status: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	if req.Schema != nil {
		if err := req.Schema.validate(raw); err != nil {
			log.Warn().Err(err).Msg("response rejected")
			return &Failure{Kind: ParseFailure, Endpoint: label, Status: resp.StatusCode, Err: err}
		}
	}
	if dest != nil {
		if err := json.Unmarshal(raw, dest); err != nil {
			log.Warn().Err(err).Msg("decode failed")
			return &Failure{Kind: ParseFailure, Endpoint: label, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
		}
	}

	log.Debug().Int("status", resp.StatusCode).Int("bytes", len(raw)).Dur("elapsed", time.Since(started)).Msg("request finished")
	return nil
}

// Probe checks that rawURL is reachable. Hosts that refuse HEAD with 403 or
// 405 are retried with a one-byte ranged GET.
func (c *Client) Probe(ctx context.Context, rawURL string) error {
	if c == nil {
		return &Failure{Kind: NetworkFailure, Err: errors.New("client is nil")}
	}
	target, err := buildURL(rawURL, nil)
	if err != nil {
		return &Failure{Kind: NetworkFailure, Endpoint: rawURL, Err: err}
	}
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	status, err := c.probeStatus(ctx, http.MethodHead, target.String())
	if err != nil {
		return &Failure{Kind: NetworkFailure, Endpoint: rawURL, Err: err}
	}
	if status == http.StatusMethodNotAllowed || status == http.StatusForbidden {
		status, err = c.probeStatus(ctx, http.MethodGet, target.String())
		if err != nil {
			return &Failure{Kind: NetworkFailure, Endpoint: rawURL, Err: err}
		}
	}
	if status < 200 || status > 299 {
		return &Failure{Kind: ServiceError, Endpoint: rawURL, Status: status}
	}
	return nil
}

func (c *Client) probeStatus(ctx context.Context, method, target string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if method == http.MethodGet {
		req.Header.Set("Range", "bytes=0-0")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request, ep Endpoint, hasBody bool) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range ep.Headers {
		if strings.TrimSpace(v) != "" {
			req.Header.Set(k, v)
		}
	}
	key := strings.TrimSpace(ep.APIKey)
	if key == "" {
		return
	}
	if ep.KeyHeader == "" {
		req.Header.Set("Authorization", "Bearer "+key)
		return
	}
	req.Header.Set(ep.KeyHeader, key)
}

func buildURL(raw string, query url.Values) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, errors.New("endpoint url is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("endpoint %q must be an absolute url", raw)
	}
	if len(query) > 0 {
		merged := u.Query()
		for k, vs := range query {
			merged.Del(k)
			for _, v := range vs {
				merged.Add(k, v)
			}
		}
		u.RawQuery = merged.Encode()
	}
	return u, nil
}

// endpointLabel strips the query so search terms stay out of logs and errors.
func endpointLabel(u *url.URL) string {
	return u.Scheme + "://" + u.Host + u.Path
}
