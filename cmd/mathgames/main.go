package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"mathgames/cmd/mathgames/commands"
	"mathgames/internal/config"
	"mathgames/internal/observability"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// The CLI logs to stderr only and never exports telemetry
	otelCfg := cfg.OpenTelemetry
	otelCfg.Endpoint = ""
	otelCfg.EnableLogging = cfg.Server.Debug
	logger := observability.NewLoggerWithLevel(&otelCfg, observability.ParseLevel(cfg.Server.LogLevel))
	defer func() { _ = logger.Sync() }()

	if err := commands.NewRootCommand(cfg, logger).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
