package main

import (
	"log/slog"
	"os"

	"vorbio.click/internal/cli"
)

func main() {
	// Commands reconfigure logging from their flags; this is the default
	// until they do.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := cli.NewCLI().Execute(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}
