// Package config reads bot settings from the environment, after loading an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	TransportWebhook = "webhook"
	TransportMTProto = "mtproto"

	BackendYtDlp  = "ytdlp"
	BackendNative = "native"

	DefaultPublicURL       = "https://tele-down1.onrender.com"
	DefaultPort            = 10000
	DefaultYtDlpPath       = "yt-dlp"
	DefaultCookiesFile     = "cookies.txt"
	DefaultSessionDir      = "."
	DefaultExtractTimeout  = 2 * time.Minute
	DefaultDownloadTimeout = 15 * time.Minute
	DefaultLogLevel        = "info"
	DefaultTokenTTL        = time.Hour
)

type Config struct {
	BotToken  string
	Transport string

	// webhook transport
	PublicURL      string
	Port           int
	TelegramAPIURL string

	// mtproto transport
	AppID      int
	AppHash    string
	SessionDir string

	TempDir        string
	YtDlpPath      string
	CookiesFile    string
	YouTubeBackend string

	ExtractTimeout       time.Duration
	DownloadTimeout      time.Duration
	MaxConcurrentUpdates int
	OwnerID              int64
	LogLevel             string
}

// LoadConfig loads .env when present and reads the environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		BotToken:       env("BOT_TOKEN", env("TELEGRAM_TOKEN", "")),
		Transport:      strings.ToLower(env("TRANSPORT", TransportWebhook)),
		PublicURL:      strings.TrimRight(env("PUBLIC_URL", env("RENDER_URL", DefaultPublicURL)), "/"),
		TelegramAPIURL: env("TELEGRAM_API_URL", ""),
		AppHash:        env("APP_HASH", ""),
		SessionDir:     env("SESSION_DIR", DefaultSessionDir),
		TempDir:        env("TEMP_DIR", os.TempDir()),
		YtDlpPath:      env("YTDLP_PATH", DefaultYtDlpPath),
		CookiesFile:    env("YTDLP_COOKIES", DefaultCookiesFile),
		YouTubeBackend: strings.ToLower(env("YOUTUBE_BACKEND", BackendYtDlp)),
		LogLevel:       env("LOG_LEVEL", DefaultLogLevel),
	}

	var err error
	if cfg.Port, err = intVar(env("PORT", ""), DefaultPort); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if cfg.AppID, err = intVar(env("APP_ID", ""), 0); err != nil {
		return nil, fmt.Errorf("invalid APP_ID: %w", err)
	}
	if cfg.MaxConcurrentUpdates, err = intVar(env("MAX_CONCURRENT_UPDATES", ""), 0); err != nil {
		return nil, fmt.Errorf("invalid MAX_CONCURRENT_UPDATES: %w", err)
	}
	if owner := env("OWNER_ID", ""); owner != "" {
		if cfg.OwnerID, err = strconv.ParseInt(owner, 10, 64); err != nil {
			return nil, fmt.Errorf("invalid OWNER_ID: %w", err)
		}
	}
	if cfg.ExtractTimeout, err = durationVar(env("EXTRACT_TIMEOUT", ""), DefaultExtractTimeout); err != nil {
		return nil, fmt.Errorf("invalid EXTRACT_TIMEOUT: %w", err)
	}
	if cfg.DownloadTimeout, err = durationVar(env("DOWNLOAD_TIMEOUT", ""), DefaultDownloadTimeout); err != nil {
		return nil, fmt.Errorf("invalid DOWNLOAD_TIMEOUT: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	switch c.Transport {
	case TransportWebhook:
		if !strings.HasPrefix(c.PublicURL, "https://") {
			return fmt.Errorf("PUBLIC_URL must be an https url, got %q", c.PublicURL)
		}
	case TransportMTProto:
		if c.AppID == 0 || c.AppHash == "" {
			return fmt.Errorf("APP_ID and APP_HASH are required for the mtproto transport")
		}
	default:
		return fmt.Errorf("unknown TRANSPORT %q (want %s or %s)", c.Transport, TransportWebhook, TransportMTProto)
	}

	switch c.YouTubeBackend {
	case BackendYtDlp, BackendNative:
	default:
		return fmt.Errorf("unknown YOUTUBE_BACKEND %q (want %s or %s)", c.YouTubeBackend, BackendYtDlp, BackendNative)
	}

	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.MaxConcurrentUpdates < 0 {
		return fmt.Errorf("MAX_CONCURRENT_UPDATES must not be negative")
	}
	return nil
}

// intVar parses s, or returns def when s is empty.
func intVar(s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	return strconv.Atoi(s)
}

// durationVar accepts Go durations ("90s") or plain seconds ("90").
func durationVar(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if secs, convErr := strconv.Atoi(s); convErr == nil {
		d, err = time.Duration(secs)*time.Second, nil
	}
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}
