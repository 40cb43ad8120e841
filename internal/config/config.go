package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/tunedeck/internal/assistant"
	"github.com/five82/tunedeck/internal/fetch"
	"github.com/five82/tunedeck/internal/github"
	"github.com/five82/tunedeck/internal/itunes"
)

// Environment variables holding credentials. Keys are never read from the
// TOML file.
const (
	EnvChatAPIKey = "TUNEDECK_CHAT_API_KEY"
	EnvAltAPIKey  = "TUNEDECK_ALT_API_KEY"
	EnvGitHubKey  = "GITHUB_TOKEN"
)

// Config is everything tunedeck reads at startup.
type Config struct {
	LogPath     string
	LogLevel    string
	EnvFile     string
	ProbeImages bool
	Search      Search
	Refresh     time.Duration
	Music       fetch.Endpoint
	Chat        assistant.Config
	GitHub      fetch.Endpoint
}

// Search tunes the input debouncers and result sizes.
type Search struct {
	Debounce       time.Duration
	MinQueryLength int
	MusicLimit     int
	GitHubLimit    int
}

const (
	defaultConfigPath = "~/.config/tunedeck/config.toml"
	defaultLogPath    = "~/.local/state/tunedeck/tunedeck.log"
	defaultEnvFile    = "~/.config/tunedeck/.env"
	defaultLogLevel   = "info"

	defaultDebounce       = 300 * time.Millisecond
	defaultMinQueryLength = 3
	defaultMusicLimit     = 12
	defaultGitHubLimit    = 10
	defaultRefresh        = 15 * time.Minute

	defaultChatURL      = "https://api.openai.com/v1/chat/completions"
	defaultAltURL       = "https://chat-gpt-ai-chat-bot.p.rapidapi.com/ask"
	defaultAltHost      = "chat-gpt-ai-chat-bot.p.rapidapi.com"
	defaultMusicTimeout = 10 * time.Second
	defaultChatTimeout  = 30 * time.Second
	defaultAltTimeout   = 20 * time.Second
	defaultGHTimeout    = 10 * time.Second
)

type endpointFile struct {
	URL       string `toml:"url"`
	TimeoutMS int    `toml:"timeout_ms"`
}

type rawConfig struct {
	LogPath     string `toml:"log_path"`
	LogLevel    string `toml:"log_level"`
	EnvFile     string `toml:"env_file"`
	ProbeImages *bool  `toml:"probe_images"`
	Search      struct {
		DebounceMS     int `toml:"debounce_ms"`
		MinQueryLength int `toml:"min_query_length"`
		MusicLimit     int `toml:"music_limit"`
		GitHubLimit    int `toml:"github_limit"`
	} `toml:"search"`
	Home struct {
		RefreshMinutes int `toml:"refresh_minutes"`
	} `toml:"home"`
	Music endpointFile `toml:"music"`
	Chat  struct {
		URL          string  `toml:"url"`
		TimeoutMS    int     `toml:"timeout_ms"`
		Model        string  `toml:"model"`
		MaxTokens    int     `toml:"max_tokens"`
		Temperature  float64 `toml:"temperature"`
		SystemPrompt string  `toml:"system_prompt"`
		Alternative  struct {
			URL       string `toml:"url"`
			TimeoutMS int    `toml:"timeout_ms"`
			Host      string `toml:"host"`
		} `toml:"alternative"`
	} `toml:"chat"`
	GitHub endpointFile `toml:"github"`
}

// Load parses the config at path (blank means the default location), falling
// back to defaults when the file is missing. Credentials are then read from
// the environment after loading the configured .env file, if any.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	data, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if data != nil {
		if err := toml.Unmarshal(data, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := fromRaw(raw)
	if err := loadEnvFile(cfg.EnvFile); err != nil {
		return Config{}, err
	}
	cfg.Chat.Primary.APIKey = strings.TrimSpace(os.Getenv(EnvChatAPIKey))
	cfg.Chat.Alternative.APIKey = strings.TrimSpace(os.Getenv(EnvAltAPIKey))
	cfg.GitHub.APIKey = strings.TrimSpace(os.Getenv(EnvGitHubKey))
	return cfg, nil
}

// readFile returns nil data for a missing file.
func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return data, nil
}

func fromRaw(raw rawConfig) Config {
	cfg := Config{
		LogPath:     mustExpand(orDefault(raw.LogPath, defaultLogPath)),
		LogLevel:    strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel)),
		EnvFile:     mustExpand(orDefault(raw.EnvFile, defaultEnvFile)),
		ProbeImages: raw.ProbeImages == nil || *raw.ProbeImages,
		Search: Search{
			Debounce:       millisOr(raw.Search.DebounceMS, defaultDebounce),
			MinQueryLength: positiveOr(raw.Search.MinQueryLength, defaultMinQueryLength),
			MusicLimit:     positiveOr(raw.Search.MusicLimit, defaultMusicLimit),
			GitHubLimit:    positiveOr(raw.Search.GitHubLimit, defaultGitHubLimit),
		},
		Refresh: defaultRefresh,
		Music: fetch.Endpoint{
			URL:     orDefault(raw.Music.URL, itunes.DefaultURL),
			Timeout: millisOr(raw.Music.TimeoutMS, defaultMusicTimeout),
		},
		Chat: assistant.Config{
			Primary: fetch.Endpoint{
				URL:     orDefault(raw.Chat.URL, defaultChatURL),
				Timeout: millisOr(raw.Chat.TimeoutMS, defaultChatTimeout),
			},
			Alternative: fetch.Endpoint{
				URL:       orDefault(raw.Chat.Alternative.URL, defaultAltURL),
				KeyHeader: "X-RapidAPI-Key",
				Headers: map[string]string{
					"X-RapidAPI-Host": orDefault(raw.Chat.Alternative.Host, defaultAltHost),
				},
				Timeout: millisOr(raw.Chat.Alternative.TimeoutMS, defaultAltTimeout),
			},
			Model:        orDefault(raw.Chat.Model, assistant.DefaultModel),
			MaxTokens:    positiveOr(raw.Chat.MaxTokens, assistant.DefaultMaxTokens),
			Temperature:  assistant.DefaultTemperature,
			SystemPrompt: orDefault(raw.Chat.SystemPrompt, assistant.DefaultSystemPrompt),
		},
		GitHub: fetch.Endpoint{
			URL:     orDefault(raw.GitHub.URL, github.DefaultURL),
			Timeout: millisOr(raw.GitHub.TimeoutMS, defaultGHTimeout),
		},
	}
	if raw.Home.RefreshMinutes > 0 {
		cfg.Refresh = time.Duration(raw.Home.RefreshMinutes) * time.Minute
	}
	if raw.Chat.Temperature > 0 {
		cfg.Chat.Temperature = raw.Chat.Temperature
	}
	return cfg
}

// loadEnvFile loads KEY=value pairs without overriding variables already set
// in the process environment. A missing file is fine.
func loadEnvFile(path string) error {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return defaultConfigPath
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

func millisOr(ms int, fallback time.Duration) time.Duration {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
