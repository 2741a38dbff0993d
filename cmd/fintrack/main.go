package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/cli"
	apphttp "fintrack/internal/http"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
)

func main() {
	// Load .env file for local development
	cli.LoadEnvFile()

	bootstrap := applog.New(applog.DefaultConfig())
	cfg := cli.LoadAndValidateConfig(bootstrap)

	logger, closeLog, err := cli.SetupLogger(cfg, os.Stdout)
	if err != nil {
		bootstrap.Error("Failed to set up logging", applog.FieldError, err, applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	defer closeLog()

	svc := services.NewLedgerService(ledger.New(), cli.InitPublisher(logger, cfg), logger)
	srv := apphttp.NewServer(cfg.Addr(), svc, apphttp.Options{
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	})

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting fintrack server", "addr", cfg.Addr(), applog.FieldOperation, applog.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down", applog.FieldOperation, applog.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		err := srv.Shutdown(shutdownCtx)
		if cerr := svc.Close(); cerr != nil {
			logger.Warn("Failed to close event publisher", applog.FieldError, cerr)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", applog.FieldError, err, "addr", cfg.Addr())
		closeLog()
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
