package main

import (
	"log/slog"
	"os"

	"pomotray/internal/config"
)

const slogKeyError = "error"

func main() {
	cfg, cfgErr := config.Load()
	logger := config.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	if cfgErr != nil {
		logger.Warn("config: falling back to defaults", slogKeyError, cfgErr)
	}

	if len(os.Args) > 1 {
		os.Exit(runCommand(os.Args[1:], cfg, os.Stdin, os.Stdout, os.Stderr))
	}

	if err := runDesktop(cfg, logger); err != nil {
		logger.Error("pomotray: exiting", slogKeyError, err)
		os.Exit(1)
	}
}
