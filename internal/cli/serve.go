package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pavelc4/clipgrab-bot/config"
	"github.com/pavelc4/clipgrab-bot/internal/app"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the bot (default)",
	Long: `Run the bot with the transport chosen by TRANSPORT.

Settings come from the environment and an optional .env file:
  BOT_TOKEN        bot token (required)
  TRANSPORT        webhook (default) or mtproto
  PUBLIC_URL       webhook base url
  PORT             HTTP port for /, /health and /webhook
  APP_ID/APP_HASH  MTProto credentials`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}

	logger.Info("Bot starting", "version", Version, "transport", cfg.Transport)
	if err := a.Start(ctx); err != nil {
		return err
	}
	logger.Info("Shutting down")
	return nil
}
