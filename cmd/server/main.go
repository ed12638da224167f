// Package main provides the entry point for the math games backend server.
// It serves the word problem story endpoint and the puzzle API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"mathgames/internal/config"
	"mathgames/internal/di"
	"mathgames/internal/handlers"
	"mathgames/internal/observability"
	contextutils "mathgames/internal/utils"
	"mathgames/internal/version"
)

// Application encapsulates the main application logic and can be tested
type Application struct {
	container di.ServiceContainerInterface
	server    *http.Server
}

// NewApplication creates a new application instance
func NewApplication(container di.ServiceContainerInterface) (*Application, error) {
	generator, err := container.GetStoryGenerator()
	if err != nil {
		return nil, contextutils.WrapError(err, "failed to get story generator")
	}

	cfg := container.GetConfig()
	router := handlers.NewRouter(cfg, generator, container.GetLogger())

	return &Application{
		container: container,
		server: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: config.RequesterTimeout,
		},
	}, nil
}

// Handler exposes the router for tests
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

// Run serves until ctx is cancelled or the listener fails
func (a *Application) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-serverErr:
		return contextutils.WrapError(err, "server failed")
	}
}

// Shutdown drains in-flight requests, then stops the container
func (a *Application) Shutdown(ctx context.Context) error {
	return errors.Join(a.server.Shutdown(ctx), a.container.Shutdown(ctx))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	cfg.OpenTelemetry.ServiceVersion = version.Version

	telemetry, err := observability.SetupObservability(&cfg.OpenTelemetry, handlers.ServiceName, observability.ParseLevel(cfg.Server.LogLevel))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize observability: %v\n", err)
		os.Exit(1)
	}
	logger := telemetry.Logger

	logger.Info(ctx, "Starting math games backend", map[string]interface{}{
		"port":     cfg.Server.Port,
		"logLevel": cfg.Server.LogLevel,
		"version":  version.Version,
	})

	container := di.NewServiceContainer(cfg, logger)
	container.OnShutdown(func(shutdownCtx context.Context) error {
		flushCtx, cancel := context.WithTimeout(shutdownCtx, config.TelemetryShutdownTimeout)
		defer cancel()
		_ = logger.Sync()
		return telemetry.Shutdown(flushCtx)
	})

	if err := container.Initialize(ctx); err != nil {
		logger.Error(ctx, "Failed to initialize services", err, nil)
		os.Exit(1)
	}

	app, err := NewApplication(container)
	if err != nil {
		logger.Error(ctx, "Failed to create application", err, nil)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, "Application failed", err, nil)
		os.Exit(1)
	}
	logger.Info(ctx, "Received shutdown signal, shutting down gracefully", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancel()

	if err := app.Shutdown(shutdownCtx); err != nil {
		logger.Error(shutdownCtx, "Error during application shutdown", err, nil)
		os.Exit(1)
	}

	logger.Info(shutdownCtx, "Shutdown completed successfully", nil)
}
