package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/graminsta/storysync/internal/buildinfo"
	"github.com/graminsta/storysync/internal/cli"
	"github.com/graminsta/storysync/internal/config"
	"github.com/graminsta/storysync/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	app, err := cli.NewApp(cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}

	app.Run(ctx)

}
