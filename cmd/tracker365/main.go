package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/shivaram19/habit-tracker-365-sub000/internal/amqp"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/config"
	apphttp "github.com/shivaram19/habit-tracker-365-sub000/internal/http"
	applog "github.com/shivaram19/habit-tracker-365-sub000/internal/log"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/services"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/storage"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/store"
	"github.com/shivaram19/habit-tracker-365-sub000/internal/store/memory"

	_ "modernc.org/sqlite"
)

func main() {
	// Load .env for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	var (
		days  store.DayLogStore
		items store.SpendItemStore
	)

	switch cfg.DataBackend {
	case "sqlite":
		if err := storage.RunMigrations(cfg.SQLiteDBPath); err != nil {
			logger.Error("Failed to run migrations", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		db, err := sql.Open("sqlite", cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer db.Close()

		var amqpClient *amqp.Client
		if cfg.AMQPURL != "" {
			amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				logger.Warn("AMQP unavailable, running without sync", "error", err)
			}
		}

		svc := services.NewLogService(storage.NewRepository(db, logger.Logger), amqpClient)
		defer svc.Close()
		days, items = svc, svc
		logger.Info("Initialized sqlite backend", "path", cfg.SQLiteDBPath, "sync", amqpClient != nil)
	default:
		st := memory.New()
		days, items = st, st
		logger.Info("Initialized memory backend")
	}

	opts := apphttp.DefaultOptions()
	opts.CacheTTL = cfg.StatsCacheTTL
	opts.CacheSize = cfg.StatsCacheSize
	srv := apphttp.NewServer(":"+cfg.Port, days, items, opts)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

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

	logger.Info("Starting tracker365 server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
