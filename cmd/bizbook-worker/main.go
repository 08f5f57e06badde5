package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bizbook/internal/amqp"
	"bizbook/internal/config"
	"bizbook/internal/sheets"
	gsheet "bizbook/internal/sheets/google"
	"bizbook/internal/token"
	"bizbook/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("Starting bizbook-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	// The worker always talks to real spreadsheets; queued appends exist to
	// absorb writes the server could not apply inline.
	clientJSON, err := cfg.OAuthClientJSON()
	if err != nil {
		logger.Error("Failed to load OAuth client credentials", "error", err)
		os.Exit(1)
	}
	cache := token.NewCache(token.NewFileStore(cfg.TokenCachePath))
	auth, err := token.NewFlowAuthenticator(clientJSON, cache, cfg.OAuthRedirectAddr)
	if err != nil {
		logger.Error("Failed to build authenticator", "error", err)
		os.Exit(1)
	}
	base := gsheet.New(sheets.NewExecutor(cache, auth))
	clients := worker.ClientFactory(func(spreadsheetID string) sheets.RangeClient {
		return base.For(spreadsheetID)
	})

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appendWorker := worker.NewAppendWorker(clients)

	go func() {
		handler := func(msg *amqp.RowAppendMessage) error {
			return appendWorker.HandleRowAppend(ctx, msg)
		}
		if err := amqpClient.ConsumeRowAppends(ctx, handler); err != nil {
			if err != context.Canceled {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	// Periodic heartbeat so a stalled consumer is visible in the logs.
	ticker := time.NewTicker(cfg.SyncInterval)
	defer ticker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info("Worker alive", "handled", appendWorker.Handled())
			}
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
