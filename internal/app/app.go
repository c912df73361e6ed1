package app

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/pavelc4/clipgrab-bot/config"
	"github.com/pavelc4/clipgrab-bot/internal/backend"
	"github.com/pavelc4/clipgrab-bot/internal/bot"
	"github.com/pavelc4/clipgrab-bot/internal/botapi"
	"github.com/pavelc4/clipgrab-bot/internal/cpu"
	"github.com/pavelc4/clipgrab-bot/internal/download"
	"github.com/pavelc4/clipgrab-bot/internal/handler"
	"github.com/pavelc4/clipgrab-bot/internal/platform"
	"github.com/pavelc4/clipgrab-bot/internal/provider"
	"github.com/pavelc4/clipgrab-bot/internal/server"
	"github.com/pavelc4/clipgrab-bot/internal/stats"
	"github.com/pavelc4/clipgrab-bot/internal/telegram"
	"github.com/pavelc4/clipgrab-bot/internal/token"
	"github.com/pavelc4/clipgrab-bot/pkg/client"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
	"github.com/pavelc4/clipgrab-bot/pkg/worker"
)

const minWorkers = 8

// transport is a bot.Transport that delivers updates to a sink.
type transport interface {
	bot.Transport
	Attach(sink handler.Sink)
}

type App struct {
	Cfg       *config.Config
	Bot       *bot.Bot
	Server    *server.Server
	Downloads *download.Downloader
	Stats     *stats.Tracker
}

// Extractor builds the extraction backend: yt-dlp for everything, with the
// native YouTube client in front of it when configured.
func Extractor(cfg *config.Config) backend.Extractor {
	ytdlp := backend.NewYtDlp(cfg.YtDlpPath).
		WithFragments(cpu.NewTuner(cpu.DefaultMin, cpu.DefaultMax).Fragments)
	if cfg.YouTubeBackend != config.BackendNative {
		return ytdlp
	}
	return backend.NewMux(ytdlp).Handle(platform.YouTube, backend.NewNativeYouTube(client.Download()))
}

func Registry(cfg *config.Config, ext backend.Extractor) *provider.Registry {
	return provider.NewDefaultRegistry(ext, cfg.CookiesFile).WithTimeout(cfg.ExtractTimeout)
}

// New wires the bot. Update jobs run with ctx, so cancel it only after Start
// returns.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger.SetLevel(cfg.LogLevel)

	ext := Extractor(cfg)
	registry := Registry(cfg, ext)
	downloads := download.NewDownloader(ext, registry, download.Options{
		Dir:     cfg.TempDir,
		Cookies: cfg.CookiesFile,
		Timeout: cfg.DownloadTimeout,
	})
	if n := downloads.Sweep(ctx); n > 0 {
		logger.Info("Removed leftover downloads", "count", n)
	}

	codec := token.NewCodec(config.DefaultTokenTTL)
	tracker := stats.New()

	var (
		tr        transport
		messenger handler.Messenger
		webhook   server.Webhook
	)
	switch cfg.Transport {
	case config.TransportMTProto:
		c := telegram.NewClient(telegram.Options{
			AppID:      cfg.AppID,
			AppHash:    cfg.AppHash,
			BotToken:   cfg.BotToken,
			SessionDir: cfg.SessionDir,
		})
		tr, messenger = c, c.Messenger()
	default:
		b, err := botapi.New(botapi.Options{
			Token:     cfg.BotToken,
			Endpoint:  cfg.TelegramAPIURL,
			PublicURL: cfg.PublicURL,
			Client:    client.Bot(),
		})
		if err != nil {
			return nil, err
		}
		tr, messenger, webhook = b, b.Messenger(), b
	}

	maxWorkers := cfg.MaxConcurrentUpdates
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU() * 4
		if maxWorkers < minWorkers {
			maxWorkers = minWorkers
		}
		logger.Info("Using adaptive concurrency", "cores", runtime.NumCPU(), "limit", maxWorkers)
	} else {
		logger.Info("Using fixed concurrency", "limit", maxWorkers)
	}
	pool := worker.NewPool(ctx, maxWorkers)

	router := bot.NewRouter(
		handler.NewDownloadHandler(messenger, registry, downloads, codec, tracker),
		handler.NewAdminHandler(messenger, tracker, cfg.OwnerID, cfg.TempDir),
		handler.NewBasicHandler(messenger),
		pool,
	)
	tr.Attach(router)

	logger.Info("Application initialized", "transport", cfg.Transport, "youtube_backend", cfg.YouTubeBackend)
	return &App{
		Cfg:       cfg,
		Bot:       bot.New(tr, pool),
		Server:    server.New(cfg.Port, webhook, tracker, cfg.TempDir),
		Downloads: downloads,
		Stats:     tracker,
	}, nil
}

// Start runs the transport and the HTTP server until ctx is done or either
// of them fails.
func (a *App) Start(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := a.Bot.Run(ctx); err != nil && ctx.Err() == nil {
			return fmt.Errorf("bot stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return a.Server.Run(ctx)
	})
	return g.Wait()
}
