// Package cli holds the clipgrab-bot commands.
package cli

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "clipgrab-bot",
	Short:         "Telegram bot that downloads videos from links",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

func Execute() error {
	return rootCmd.Execute()
}
