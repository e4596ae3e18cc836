// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/allisson/tfvars-kms/internal/config"
	kmsDomain "github.com/allisson/tfvars-kms/internal/kms/domain"
	kmsService "github.com/allisson/tfvars-kms/internal/kms/service"
	"github.com/allisson/tfvars-kms/internal/metrics"
	tfvarsService "github.com/allisson/tfvars-kms/internal/tfvars/service"
	tfvarsUseCase "github.com/allisson/tfvars-kms/internal/tfvars/usecase"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	// logOutput is stderr, so stdout carries only command output such as JSON reports.
	logOutput       io.Writer
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Services
	sessionProvider kmsService.SessionProvider

	// Use Cases
	encryptUseCase tfvarsUseCase.EncryptUseCase
	keyRingUseCase tfvarsUseCase.KeyRingUseCase

	// Initialization flags and mutex for thread-safety
	mu                  sync.Mutex
	loggerInit          sync.Once
	metricsProviderInit sync.Once
	businessMetricsInit sync.Once
	sessionProviderInit sync.Once
	encryptUseCaseInit  sync.Once
	keyRingUseCaseInit  sync.Once
	initErrors          map[string]error
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		logOutput:  os.Stderr,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level and format in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// MetricsProvider returns the OpenTelemetry metrics provider backed by a Prometheus registry.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	var err error
	c.metricsProviderInit.Do(func() {
		c.metricsProvider, err = metrics.NewProvider()
		if err != nil {
			c.initErrors["metricsProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["metricsProvider"]; exists {
		return nil, storedErr
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It records nothing when metrics
// are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	var err error
	c.businessMetricsInit.Do(func() {
		c.businessMetrics, err = c.initBusinessMetrics()
		if err != nil {
			c.initErrors["businessMetrics"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["businessMetrics"]; exists {
		return nil, storedErr
	}
	return c.businessMetrics, nil
}

// SessionProvider returns the KMS session provider for the configured provider.
func (c *Container) SessionProvider() (kmsService.SessionProvider, error) {
	var err error
	c.sessionProviderInit.Do(func() {
		c.sessionProvider, err = c.initSessionProvider()
		if err != nil {
			c.initErrors["sessionProvider"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["sessionProvider"]; exists {
		return nil, storedErr
	}
	return c.sessionProvider, nil
}

// EncryptUseCase returns the tfvars encryption use case.
func (c *Container) EncryptUseCase() (tfvarsUseCase.EncryptUseCase, error) {
	var err error
	c.encryptUseCaseInit.Do(func() {
		c.encryptUseCase, err = c.initEncryptUseCase()
		if err != nil {
			c.initErrors["encryptUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["encryptUseCase"]; exists {
		return nil, storedErr
	}
	return c.encryptUseCase, nil
}

// KeyRingUseCase returns the key ring listing use case.
func (c *Container) KeyRingUseCase() (tfvarsUseCase.KeyRingUseCase, error) {
	var err error
	c.keyRingUseCaseInit.Do(func() {
		c.keyRingUseCase, err = c.initKeyRingUseCase()
		if err != nil {
			c.initErrors["keyRingUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["keyRingUseCase"]; exists {
		return nil, storedErr
	}
	return c.keyRingUseCase, nil
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.metricsProvider != nil {
		// Flush metrics for the textfile collector before the provider goes away
		if c.config.MetricsTextfilePath != "" {
			if err := c.metricsProvider.WriteTextfile(c.config.MetricsTextfilePath); err != nil {
				shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics textfile: %w", err))
			}
		}
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	// Return combined errors if any occurred
	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %v", shutdownErrors)
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
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

	opts := &slog.HandlerOptions{Level: logLevel}

	var handler slog.Handler
	switch c.config.LogFormat {
	case "json":
		handler = slog.NewJSONHandler(c.logOutput, opts)
	default:
		handler = slog.NewTextHandler(c.logOutput, opts)
	}

	return slog.New(handler)
}

// initBusinessMetrics creates the business metrics recorder on the metrics provider.
func (c *Container) initBusinessMetrics() (metrics.BusinessMetrics, error) {
	if !c.config.MetricsEnabled {
		return metrics.NewNoOpBusinessMetrics(), nil
	}

	provider, err := c.MetricsProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get metrics provider for business metrics: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("failed to create business metrics: %w", err)
	}
	return businessMetrics, nil
}

// initSessionProvider creates the KMS session provider.
func (c *Container) initSessionProvider() (kmsService.SessionProvider, error) {
	provider, err := kmsDomain.ParseProvider(c.config.KMSProvider)
	if err != nil {
		return nil, fmt.Errorf("failed to parse KMS provider: %w", err)
	}

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for session provider: %w", err)
	}

	return kmsService.NewSessionProvider(
		kmsService.SessionConfig{
			Provider: provider,
			KeyURI:   c.config.KMSKeyURI,
			Endpoint: c.config.KMSEndpoint,
		},
		businessMetrics,
		c.Logger(),
	), nil
}

// initEncryptUseCase creates the encryption use case with all its dependencies.
func (c *Container) initEncryptUseCase() (tfvarsUseCase.EncryptUseCase, error) {
	logger := c.Logger()

	sessionProvider, err := c.SessionProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get session provider for encrypt use case: %w", err)
	}

	baseUseCase := tfvarsUseCase.NewEncryptUseCase(
		tfvarsUseCase.EncryptConfig{
			Location:         c.config.KMSLocation,
			DefaultKeyRing:   c.config.KMSDefaultKeyRing,
			DefaultCryptoKey: c.config.KMSDefaultCryptoKey,
		},
		sessionProvider,
		tfvarsService.NewSecretSetExtractor(),
		func(cipher kmsService.EnvelopeCipher) tfvarsService.CredentialFileEncryptor {
			return tfvarsService.NewCredentialFileEncryptor(cipher, logger)
		},
		tfvarsService.NewRewriter(),
		tfvarsService.NewFileDocumentWriter(),
		logger,
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for encrypt use case: %w", err)
		}
		return tfvarsUseCase.NewEncryptUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initKeyRingUseCase creates the key ring use case with all its dependencies.
func (c *Container) initKeyRingUseCase() (tfvarsUseCase.KeyRingUseCase, error) {
	sessionProvider, err := c.SessionProvider()
	if err != nil {
		return nil, fmt.Errorf("failed to get session provider for key ring use case: %w", err)
	}

	baseUseCase := tfvarsUseCase.NewKeyRingUseCase(sessionProvider, c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for key ring use case: %w", err)
		}
		return tfvarsUseCase.NewKeyRingUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}
