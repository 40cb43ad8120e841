package app

import (
	"context"
	"fmt"
	"time"

	"github.com/five82/tunedeck/internal/applog"
	"github.com/five82/tunedeck/internal/assistant"
	"github.com/five82/tunedeck/internal/catalog"
	"github.com/five82/tunedeck/internal/config"
	"github.com/five82/tunedeck/internal/fetch"
	"github.com/five82/tunedeck/internal/github"
	"github.com/five82/tunedeck/internal/itunes"
	"github.com/five82/tunedeck/internal/logtail"
	"github.com/five82/tunedeck/internal/prefs"
	"github.com/five82/tunedeck/internal/state"
	"github.com/five82/tunedeck/internal/ui"
)

// Options configure the tunedeck application.
type Options struct {
	ConfigPath   string        // empty uses ~/.config/tunedeck/config.toml
	PrefsPath    string        // empty uses ~/.config/tunedeck/prefs.toml
	RefreshEvery time.Duration // zero uses the configured home refresh
}

// Run boots the tunedeck TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.RefreshEvery > 0 {
		cfg.Refresh = opts.RefreshEvery
	}

	logger, closer, err := applog.Open(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closer.Close() }()
	log := applog.Component(logger, "app")

	home, err := catalog.LoadHome()
	if err != nil {
		return fmt.Errorf("load home catalog: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	userPrefs := prefs.Load(opts.PrefsPath)
	log.Info().
		Str("theme", userPrefs.Theme).
		Str("view", userPrefs.LastView).
		Bool("chat_key", cfg.Chat.Primary.APIKey != "").
		Bool("github_token", cfg.GitHub.APIKey != "").
		Msg("tunedeck starting")

	client := fetch.NewClient(fetch.WithLogger(applog.Component(logger, "fetch")))
	music := itunes.NewClient(client, cfg.Music, applog.Component(logger, "itunes"))
	chat := assistant.NewClient(client, cfg.Chat, applog.Component(logger, "assistant"))
	users := github.NewClient(client, cfg.GitHub, applog.Component(logger, "github"))

	store := &state.Store{}
	StartRefresher(ctx, store, music, cfg.Refresh, applog.Component(logger, "refresh"))

	var logChanges <-chan struct{}
	if cfg.LogPath != "" {
		changes, err := logtail.Watch(ctx, cfg.LogPath)
		if err != nil {
			log.Warn().Err(err).Msg("log watch unavailable")
		} else {
			logChanges = changes
		}
	}

	var prober ui.ImageProber
	if cfg.ProbeImages {
		prober = client
	}

	err = ui.Run(ui.Options{
		Context:    ctx,
		Music:      music,
		Chat:       chat,
		Users:      users,
		Prober:     prober,
		Store:      store,
		Home:       home,
		Search:     cfg.Search,
		ThemeName:  userPrefs.Theme,
		StartView:  userPrefs.LastView,
		PrefsPath:  opts.PrefsPath,
		LogPath:    cfg.LogPath,
		LogChanges: logChanges,
		Logger:     applog.Component(logger, "ui"),
	})
	if err != nil {
		log.Error().Err(err).Msg("ui exited with error")
		return err
	}
	log.Info().Msg("tunedeck stopped")
	return nil
}
