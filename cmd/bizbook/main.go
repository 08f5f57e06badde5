package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"bizbook/internal/amqp"
	"bizbook/internal/config"
	apphttp "bizbook/internal/http"
	"bizbook/internal/registry"
	"bizbook/internal/sheets"
	gsheet "bizbook/internal/sheets/google"
	mem "bizbook/internal/sheets/memory"
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

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Registry store: migrate-managed sqlite. The constructor runs migrations.
	store, err := registry.NewSQLiteStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open registry store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()
	reg := registry.NewService(store)

	// Data backend: real spreadsheets or the in-memory grid.
	var clients worker.ClientFactory
	switch cfg.DataBackend {
	case "sheets":
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
		clients = func(spreadsheetID string) sheets.RangeClient {
			return base.For(spreadsheetID)
		}
		logger.Info("Initialized Google Sheets backend", "backend", cfg.DataBackend)
	default:
		// A single shared grid; every spreadsheet id maps to the same store
		// so local runs behave like one small workbook.
		grid := mem.NewWorkbook()
		clients = func(string) sheets.RangeClient { return grid }
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	}

	// Optional queued-append pipeline.
	var queue apphttp.QueuePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		queue = amqpClient
		logger.Info("Queued writes enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	}

	srv := apphttp.NewServer(":"+cfg.Port, reg, clients, queue, cfg.UserHeader, cfg.CacheTTL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting bizbook server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
