package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"time"

	"piggy/internal/backend"
	"piggy/internal/category"
	"piggy/internal/cli"
	apphttp "piggy/internal/http"
	"piggy/internal/ledger"
	applog "piggy/internal/log"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(slog.LevelInfo))
	logger := cli.SetupLogger(cfg.Level())

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger).CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}

	opts := []ledger.Option{ledger.WithLogger(logger.With(applog.FieldComponent, applog.ComponentLedger))}
	if result.Notifier != nil {
		opts = append(opts, ledger.WithNotifier(result.Notifier))
	}
	store := ledger.NewStore(result.Persister, category.NewRegistry(), opts...)
	loaded := store.Load(context.Background())

	srv := apphttp.NewServer(":"+cfg.Port, store, apphttp.Options{
		CurrencySymbol: cfg.CurrencySymbol,
		CacheTTL:       cfg.CacheTTL,
		CacheSize:      cfg.CacheSize,
		TrustedProxies: cfg.TrustedProxies,
		Health:         result.Health,
		Logger:         applog.Wrap(logger, applog.ComponentHTTP),
	})

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(ctx context.Context) {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup error", "error", err)
		}
	})

	logger.Info("Starting piggy server",
		"port", cfg.Port,
		"backend", cfg.DataBackend,
		"transactions", loaded,
		"change_feed", result.Notifier != nil)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		_ = result.Cleanup()
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
