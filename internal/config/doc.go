// Package config loads tunedeck's TOML configuration.
//
// # Overview
//
// Load resolves the config path (default ~/.config/tunedeck/config.toml),
// reads it with go-toml, and fills every blank or missing value with a
// default. A missing file is not an error: tunedeck runs with defaults only.
//
// # File layout
//
//	log_path     = "~/.local/state/tunedeck/tunedeck.log"
//	log_level    = "info"
//	env_file     = "~/.config/tunedeck/.env"
//	probe_images = true
//
//	[search]
//	debounce_ms      = 300
//	min_query_length = 3
//	music_limit      = 12
//	github_limit     = 10
//
//	[home]
//	refresh_minutes = 15
//
//	[music]
//	url        = "https://itunes.apple.com/search"
//	timeout_ms = 10000
//
//	[chat]
//	url           = "https://api.openai.com/v1/chat/completions"
//	model         = "gpt-3.5-turbo"
//	max_tokens    = 200
//	temperature   = 0.8
//	system_prompt = "..."
//	timeout_ms    = 30000
//
//	[chat.alternative]
//	url        = "https://chat-gpt-ai-chat-bot.p.rapidapi.com/ask"
//	host       = "chat-gpt-ai-chat-bot.p.rapidapi.com"
//	timeout_ms = 20000
//
//	[github]
//	url        = "https://api.github.com"
//	timeout_ms = 10000
//
// # Credentials
//
// API keys never live in the TOML file. After parsing, Load reads env_file
// with godotenv (variables already set in the process win) and then takes
// the keys from:
//
//   - TUNEDECK_CHAT_API_KEY: bearer token for the chat endpoint
//   - TUNEDECK_ALT_API_KEY: X-RapidAPI-Key for the alternative chat endpoint
//   - GITHUB_TOKEN: optional, raises the GitHub search rate limit
//
// # Path Expansion
//
// Paths starting with ~ are expanded against the user's home directory and
// made absolute.
package config
