package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ruralpay/cardledger/internal/app"
	"github.com/ruralpay/cardledger/internal/config"
	"github.com/ruralpay/cardledger/internal/handlers"
	"github.com/ruralpay/cardledger/internal/logger"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	logger.Init("cardledger-api", cfg.Log.Debug, nil)

	if cfg.JWT.SecretKey == "" {
		logger.Fatal().Msg("JWT_SECRET_KEY must be set to serve the API")
	}

	ctx := context.Background()
	ledger, err := app.New(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to start ledger")
	}
	defer ledger.Close()

	router := handlers.NewRouter(handlers.RouterDeps{
		Accounts: ledger.Accounts,
		Requests: ledger.Requests,
		Auth:     ledger.Auth,
		Audit:    ledger.Audit,
		Tokens:   ledger.Tokens,
		Verifier: ledger.Tokens,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Server shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server stopped")
}
