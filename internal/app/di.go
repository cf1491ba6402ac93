// Package app provides the dependency injection container for assembling
// application components.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/authcore/internal/config"
	"github.com/allisson/authcore/internal/kv"
	"github.com/allisson/authcore/internal/metrics"
	signingkeyDomain "github.com/allisson/authcore/internal/signingkey/domain"
)

// Container holds all application dependencies and provides methods to access
// them. Components are created lazily on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger      *slog.Logger
	store       kv.Store
	storeCloser func() error
	keeper      signingkeyDomain.Keeper
	provider    *metrics.Provider
	business    metrics.BusinessMetrics

	// Initialization flags and mutex for thread-safety
	mu          sync.Mutex
	loggerInit  sync.Once
	storeInit   sync.Once
	keeperInit  sync.Once
	metricsInit sync.Once
	initErrors  map[string]error

	components components
}

// NewContainer creates a new dependency injection container with the provided
// configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance, created on first access
// based on the configured log level.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// Store returns the key-value store backing all repositories. The CLI uses
// the embedded bbolt store at the configured path.
func (c *Container) Store() (kv.Store, error) {
	var err error
	c.storeInit.Do(func() {
		c.store, c.storeCloser, err = kv.NewBoltStore(c.config.KVPath)
		if err != nil {
			c.initErrors["store"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["store"]; exists {
		return nil, storedErr
	}
	return c.store, nil
}

// Keeper returns the secrets keeper protecting signing keys at rest.
func (c *Container) Keeper(ctx context.Context) (signingkeyDomain.Keeper, error) {
	var err error
	c.keeperInit.Do(func() {
		c.keeper, err = c.initKeeper(ctx)
		if err != nil {
			c.initErrors["keeper"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keeper"]; exists {
		return nil, storedErr
	}
	return c.keeper, nil
}

// BusinessMetrics returns the business metrics recorder. A no-op recorder is
// returned when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.metricsInit.Do(func() {
		c.business, c.provider, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["metrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metrics"]; exists {
		return nil, storedErr
	}
	return c.business, nil
}

// MetricsProvider returns the metrics provider, or nil when metrics are
// disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if _, err := c.BusinessMetrics(); err != nil {
		return nil, err
	}
	return c.provider, nil
}

// Shutdown releases all resources held by the container.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.keeper != nil {
		if err := c.keeper.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("keeper close: %w", err))
		}
	}

	if c.provider != nil {
		if err := c.provider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics shutdown: %w", err))
		}
	}

	if c.storeCloser != nil {
		if err := c.storeCloser(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("store close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}
	return nil
}

// initLogger creates a structured logger based on the configured log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	return slog.New(handler)
}

func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, *metrics.Provider, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil, nil
	}

	provider, err := metrics.NewProvider()
	if err != nil {
		return nil, nil, err
	}

	business, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, nil, err
	}
	return business, provider, nil
}
