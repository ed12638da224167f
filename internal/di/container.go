// Package di provides dependency injection container for managing service lifecycle and dependencies.
package di

import (
	"context"
	"errors"
	"sync"

	"mathgames/internal/config"
	"mathgames/internal/observability"
	"mathgames/internal/services"
	contextutils "mathgames/internal/utils"
)

// Service names registered by Initialize
const (
	StoryGeneratorService = "story_generator"
)

// ServiceContainerInterface defines the interface for service containers
type ServiceContainerInterface interface {
	GetService(name string) (interface{}, error)
	GetStoryGenerator() (services.StoryGeneratorInterface, error)
	GetConfig() *config.Config
	GetLogger() *observability.Logger
	Initialize(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ServiceContainer manages all service dependencies and lifecycle
type ServiceContainer struct {
	cfg           *config.Config
	logger        *observability.Logger
	services      map[string]interface{}
	mu            sync.RWMutex
	shutdownFuncs []func(context.Context) error
}

var _ ServiceContainerInterface = (*ServiceContainer)(nil)

// NewServiceContainer creates a new dependency injection container
func NewServiceContainer(cfg *config.Config, logger *observability.Logger) *ServiceContainer {
	if logger == nil {
		logger = observability.NewNopLogger()
	}
	return &ServiceContainer{
		cfg:      cfg,
		logger:   logger,
		services: make(map[string]interface{}),
	}
}

// Initialize sets up all services and their dependencies
func (sc *ServiceContainer) Initialize(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	generator, err := services.NewStoryGenerationService(sc.cfg.Generation, sc.logger)
	if err != nil {
		return contextutils.WrapErrorf(err, "failed to create story generation service: %w", err)
	}
	sc.services[StoryGeneratorService] = generator

	if !generator.HasCredential() {
		sc.logger.Warn(ctx, "No upstream credential configured, every story will use the local template", map[string]interface{}{
			"credential_env": config.CredentialEnvVar,
		})
	} else {
		sc.logger.Info(ctx, "Upstream story generation enabled", map[string]interface{}{
			"model":    sc.cfg.Generation.Model,
			"api_key":  contextutils.MaskAPIKey(sc.cfg.Generation.APIKey),
			"breaker":  sc.cfg.Generation.CircuitBreakerThreshold > 0,
			"timeout":  sc.cfg.Generation.Timeout.String(),
			"base_url": sc.cfg.Generation.BaseURL,
		})
	}

	return nil
}

// OnShutdown registers fn to run, in reverse registration order, when the container shuts down
func (sc *ServiceContainer) OnShutdown(fn func(context.Context) error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.shutdownFuncs = append(sc.shutdownFuncs, fn)
}

// GetService retrieves a service by name
func (sc *ServiceContainer) GetService(name string) (interface{}, error) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()

	service, exists := sc.services[name]
	if !exists {
		return nil, contextutils.ErrorWithContextf("service %s not found", name)
	}
	return service, nil
}

// GetServiceAs performs type-safe service retrieval
func GetServiceAs[T any](sc *ServiceContainer, name string) (T, error) {
	var zero T
	service, err := sc.GetService(name)
	if err != nil {
		return zero, err
	}

	typed, ok := service.(T)
	if !ok {
		return zero, contextutils.ErrorWithContextf("service %s is not of expected type %T", name, zero)
	}
	return typed, nil
}

// GetStoryGenerator returns the story generation service
func (sc *ServiceContainer) GetStoryGenerator() (services.StoryGeneratorInterface, error) {
	return GetServiceAs[services.StoryGeneratorInterface](sc, StoryGeneratorService)
}

// GetConfig returns the configuration
func (sc *ServiceContainer) GetConfig() *config.Config {
	return sc.cfg
}

// GetLogger returns the logger
func (sc *ServiceContainer) GetLogger() *observability.Logger {
	return sc.logger
}

// Shutdown runs the registered shutdown hooks, newest first, and reports every failure
func (sc *ServiceContainer) Shutdown(ctx context.Context) error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var errs []error
	for i := len(sc.shutdownFuncs) - 1; i >= 0; i-- {
		if err := sc.shutdownFuncs[i](ctx); err != nil {
			sc.logger.Error(ctx, "Shutdown hook failed", err, nil)
			errs = append(errs, err)
		}
	}
	sc.shutdownFuncs = nil
	return errors.Join(errs...)
}
