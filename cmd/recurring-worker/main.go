package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"nossosgastos/internal/amqp"
	"nossosgastos/internal/config"
	applog "nossosgastos/internal/log"
	"nossosgastos/internal/services"
	"nossosgastos/internal/storage"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{Level: slog.LevelInfo}).WithComponent(applog.ComponentRecurring)
	applog.SetDefault(logger)

	logger.Info("Starting recurring-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Materialized rows are published so the sync worker mirrors them;
	// without a broker they still land locally.
	var bus services.EventPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing in local-only mode", applog.FieldError, err)
		} else {
			defer client.Close()
			bus = client
		}
	}

	ledger := services.NewLedgerService(repo, bus, cfg.InstallmentReconcile)
	processor := services.NewRecurringProcessor(repo, ledger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Recurring processor configured",
		"interval", cfg.RecurringInterval.String(),
		"db", cfg.SQLiteDBPath)

	runOnce := func(now time.Time) {
		count, err := processor.ProcessDue(ctx, now)
		if err != nil {
			logger.Error("Recurring processing failed", applog.FieldError, err)
			return
		}
		if count > 0 {
			logger.Info("Recurring processing complete", applog.FieldCount, count)
		}
	}

	runOnce(time.Now())

	ticker := time.NewTicker(cfg.RecurringInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("Worker stopped gracefully")
			return
		case now := <-ticker.C:
			runOnce(now)
		}
	}
}
