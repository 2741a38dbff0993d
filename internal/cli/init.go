// Package cli provides common CLI initialization utilities shared by
// cmd/fintrack and cmd/fintrack-tui.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

// LoadEnvFile loads the .env file for local development.
// A missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger builds the application logger from cfg and installs it as the
// slog default. Records go to out unless cfg names a log file. The returned
// close function releases the log file, if any.
func SetupLogger(cfg *config.Config, out io.Writer) (*applog.Logger, func() error, error) {
	lc := applog.DefaultConfig()
	lc.Output = out
	closeFn := func() error { return nil }

	if cfg != nil {
		level, err := applog.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, closeFn, err
		}
		lc.Level = level
		lc.Format = cfg.LogFormat

		if cfg.LogFile != "" {
			f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return nil, closeFn, fmt.Errorf("open log file: %w", err)
			}
			lc.Output = f
			closeFn = f.Close
		}
	}

	logger := applog.New(lc)
	applog.SetDefault(logger)
	return logger, closeFn, nil
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err, applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	return cfg
}

// InitPublisher connects the optional ledger event publisher. It returns nil
// when AMQP is not configured or the broker is unreachable; the application
// keeps running without events in both cases.
func InitPublisher(logger *applog.Logger, cfg *config.Config) services.EventPublisher {
	if !cfg.AMQPEnabled() {
		logger.Info("AMQP not configured, ledger events disabled")
		return nil
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.WithComponent(applog.ComponentAMQP).Warn("Failed to initialize AMQP client, continuing without events",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeNetwork)
		return nil
	}

	logger.WithComponent(applog.ComponentAMQP).Info("Initialized AMQP client",
		"exchange", cfg.AMQPExchange,
		"queue", cfg.AMQPQueue)
	return client
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}
