package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ruralpay/cardledger/internal/app"
	"github.com/ruralpay/cardledger/internal/cli"
	"github.com/ruralpay/cardledger/internal/config"
	"github.com/ruralpay/cardledger/internal/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Log lines would interleave with the menu on stdout.
	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := logger.OpenFile(cfg.Log.File)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger.Init("cardledger-cli", cfg.Log.Debug, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ledger, err := app.New(ctx, cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to start ledger")
		fmt.Fprintln(os.Stderr, "Error: could not connect to the ledger store.")
		os.Exit(1)
	}
	defer ledger.Close()

	console := cli.NewConsole(os.Stdin, os.Stdout, ledger.Accounts, ledger.Requests, ledger.Auth, ledger.Audit)
	if err := console.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("console stopped")
	}
}
