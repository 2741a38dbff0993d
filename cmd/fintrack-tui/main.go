package main

import (
	"context"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"fintrack/internal/cli"
	"fintrack/internal/ledger"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/tui"
)

func main() {
	cli.LoadEnvFile()

	// the terminal belongs to the UI; logs go to LOG_FILE or nowhere
	bootstrap := applog.New(applog.Config{Output: os.Stderr})
	cfg := cli.LoadAndValidateConfig(bootstrap)

	logger, closeLog, err := cli.SetupLogger(cfg, io.Discard)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fintrack-tui:", err)
		os.Exit(1)
	}
	defer closeLog()

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	svc := services.NewLedgerService(ledger.New(), cli.InitPublisher(logger, cfg), logger)
	defer svc.Close()

	p := tea.NewProgram(tui.New(ctx, svc, logger), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		logger.Error("TUI exited with error", applog.FieldError, err)
		fmt.Fprintln(os.Stderr, "fintrack-tui:", err)
		os.Exit(1)
	}
}
