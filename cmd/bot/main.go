package main

import (
	"os"

	"github.com/pavelc4/clipgrab-bot/internal/cli"
	"github.com/pavelc4/clipgrab-bot/pkg/logger"
)

func main() {
	if err := cli.Execute(); err != nil {
		logger.Error("Fatal", "error", err)
		os.Exit(1)
	}
}
