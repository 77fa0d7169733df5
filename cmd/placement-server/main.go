package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/SAP-F-2025/placement-test-service/internal/app"
	"github.com/SAP-F-2025/placement-test-service/internal/config"
	"github.com/SAP-F-2025/placement-test-service/internal/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := utils.NewLogger(utils.LoggerOptions{
		Production: cfg.IsProduction(),
		File:       cfg.LogFile,
	})
	defer logger.Close()

	server, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize server", "error", err)
		return err
	}
	return server.Run(ctx)
}
