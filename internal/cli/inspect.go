package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pavelc4/clipgrab-bot/config"
	"github.com/pavelc4/clipgrab-bot/internal/app"
	"github.com/pavelc4/clipgrab-bot/internal/handler"
	"github.com/pavelc4/clipgrab-bot/internal/token"
)

var (
	inspectYtDlp   string
	inspectCookies string
	inspectBackend string
	inspectTimeout time.Duration
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <text>",
	Short: "Show what the bot would answer to a message",
	Long: `Run link detection and metadata lookup on text and print the replies the
bot would send, including the callback data behind each quality button.

Examples:
  clipgrab-bot inspect https://youtu.be/dQw4w9WgXcQ
  clipgrab-bot inspect "look https://vm.tiktok.com/abc and https://vimeo.com/1"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := &config.Config{
			YtDlpPath:      inspectYtDlp,
			CookiesFile:    inspectCookies,
			YouTubeBackend: inspectBackend,
			ExtractTimeout: inspectTimeout,
		}
		return inspect(cmd, cmd.OutOrStdout(), cfg, strings.Join(args, " "))
	},
}

func init() {
	inspectCmd.Flags().StringVar(&inspectYtDlp, "ytdlp", config.DefaultYtDlpPath, "yt-dlp binary")
	inspectCmd.Flags().StringVar(&inspectCookies, "cookies", config.DefaultCookiesFile, "cookies file for Instagram")
	inspectCmd.Flags().StringVar(&inspectBackend, "youtube-backend", config.BackendYtDlp, "ytdlp or native")
	inspectCmd.Flags().DurationVar(&inspectTimeout, "timeout", config.DefaultExtractTimeout, "metadata lookup timeout")
	rootCmd.AddCommand(inspectCmd)
}

func inspect(cmd *cobra.Command, out io.Writer, cfg *config.Config, text string) error {
	switch cfg.YouTubeBackend {
	case config.BackendYtDlp, config.BackendNative:
	default:
		return fmt.Errorf("unknown youtube backend %q", cfg.YouTubeBackend)
	}

	registry := app.Registry(cfg, app.Extractor(cfg))
	h := handler.NewDownloadHandler(newConsole(out), registry, nil, token.NewCodec(config.DefaultTokenTTL), nil)
	return h.HandleText(cmd.Context(), handler.Message{Text: text})
}
