package assistant

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/five82/tunedeck/internal/fetch"
	"github.com/rs/zerolog"
)

const (
	DefaultModel        = "gpt-3.5-turbo"
	DefaultMaxTokens    = 200
	DefaultTemperature  = 0.8
	DefaultSystemPrompt = "You are a music expert assistant. You know about international music, Pakistani music, Bollywood music, artists, songs, and genres. Provide accurate, specific information about music. Always mention specific artist names, song titles, and details when possible."

	// Apology is the reply when neither endpoint produced an answer.
	Apology = "I'm currently experiencing high demand. Please try again in a moment or ask another music question! 🎵"
	// BlankHint replaces an empty answer from the alternative endpoint.
	BlankHint = "I can help with music questions! Try asking about artists, songs, or genres. 🎶"
)

// Tier records which path produced a Reply.
type Tier int

const (
	TierPrimary Tier = iota
	TierAlternative
	TierApology
)

func (t Tier) String() string {
	switch t {
	case TierPrimary:
		return "primary"
	case TierAlternative:
		return "alternative"
	case TierApology:
		return "apology"
	default:
		return "unknown"
	}
}

// Reply is the assistant's answer to one question.
type Reply struct {
	Text string
	Tier Tier
}

// Config is the injected chat configuration.
type Config struct {
	Primary      fetch.Endpoint
	Alternative  fetch.Endpoint
	Model        string
	SystemPrompt string
	MaxTokens    int
	Temperature  float64
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.Model) == "" {
		c.Model = DefaultModel
	}
	if strings.TrimSpace(c.SystemPrompt) == "" {
		c.SystemPrompt = DefaultSystemPrompt
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Temperature <= 0 {
		c.Temperature = DefaultTemperature
	}
	return c
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type completionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (r completionResponse) content() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(r.Choices[0].Message.Content)
}

type alternativeRequest struct {
	Query string `json:"query"`
}

type alternativeResponse struct {
	Response string `json:"response"`
}

var (
	completionSchema = fetch.MustSchema(`{
		"type": "object",
		"required": ["choices"],
		"properties": {"choices": {"type": "array"}}
	}`)
	alternativeSchema = fetch.MustSchema(`{
		"type": "object",
		"properties": {"response": {"type": ["string", "null"]}}
	}`)
)

var errNoContent = errors.New("completion has no content")

// Client asks the primary chat endpoint and, when that fails, makes exactly
// one attempt against the alternative endpoint.
type Client struct {
	doer fetch.Doer
	cfg  Config
	log  zerolog.Logger
}

// NewClient builds a Client. Zero-valued model settings take the defaults.
func NewClient(doer fetch.Doer, cfg Config, log zerolog.Logger) *Client {
	return &Client{doer: doer, cfg: cfg.withDefaults(), log: log}
}

// Ask never returns an error. Failures degrade through the tiers and end in
// Apology.
func (c *Client) Ask(ctx context.Context, question string) Reply {
	question = strings.TrimSpace(question)

	text, err := c.askPrimary(ctx, question)
	if err == nil {
		return Reply{Text: text, Tier: TierPrimary}
	}
	f := fetch.AsFailure(err)
	c.log.Warn().Err(err).Str("failure", f.Kind.String()).Msg("primary chat failed, trying alternative")

	text, err = c.askAlternative(ctx, question)
	if err == nil {
		return Reply{Text: text, Tier: TierAlternative}
	}
	c.log.Error().Err(err).Msg("all chat endpoints failed")
	return Reply{Text: Apology, Tier: TierApology}
}

func (c *Client) askPrimary(ctx context.Context, question string) (string, error) {
	var resp completionResponse
	err := c.doer.Do(ctx, fetch.Request{
		Method:   http.MethodPost,
		Endpoint: c.cfg.Primary,
		Body: completionRequest{
			Model: c.cfg.Model,
			Messages: []chatMessage{
				{Role: "system", Content: c.cfg.SystemPrompt},
				{Role: "user", Content: question},
			},
			MaxTokens:   c.cfg.MaxTokens,
			Temperature: c.cfg.Temperature,
		},
		Schema: completionSchema,
	}, &resp)
	if err != nil {
		return "", err
	}
	text := resp.content()
	if text == "" {
		return "", &fetch.Failure{Kind: fetch.ParseFailure, Endpoint: c.cfg.Primary.URL, Err: errNoContent}
	}
	return text, nil
}

func (c *Client) askAlternative(ctx context.Context, question string) (string, error) {
	var resp alternativeResponse
	err := c.doer.Do(ctx, fetch.Request{
		Method:   http.MethodPost,
		Endpoint: c.cfg.Alternative,
		Body:     alternativeRequest{Query: alternativePrompt(question)},
		Schema:   alternativeSchema,
	}, &resp)
	if err != nil {
		return "", err
	}
	if text := strings.TrimSpace(resp.Response); text != "" {
		return text, nil
	}
	return BlankHint, nil
}

func alternativePrompt(question string) string {
	return "As a music expert, answer this: " + question + ". Provide specific music information."
}
