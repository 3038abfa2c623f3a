package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/efreitasn/kipledger/internal/config"
	"github.com/efreitasn/kipledger/internal/engine"
	"github.com/efreitasn/kipledger/internal/handler"
	"github.com/efreitasn/kipledger/internal/service"
	"github.com/efreitasn/kipledger/internal/store"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "Run health check against running server")
	flag.Parse()

	// Handle -healthcheck flag: HTTP GET to localhost:PORT/healthz, exit 0/1.
	if *healthcheck {
		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		resp, err := http.Get(fmt.Sprintf("http://localhost:%s/healthz", port))
		if err != nil || resp.StatusCode != http.StatusOK {
			os.Exit(1)
		}
		os.Exit(0)
	}

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up slog logger with configured level.
	var logLevel slog.Level
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Storage.
	backend, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		logger.Error("failed to open store",
			slog.String("driver", cfg.StoreDriver),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	defer backend.Close()
	logger.Info("store opened",
		slog.String("driver", cfg.StoreDriver),
		slog.String("sqlite_build", store.SQLiteBuildMode),
	)

	// Services.
	settingsSvc := service.NewSettingsService(backend, logger)
	orderSvc := service.NewOrderService(backend, backend, cfg.Location, service.ListLimits{
		Default: cfg.ListDefaultLimit,
		Max:     cfg.ListMaxLimit,
	}, logger)
	summarySvc := service.NewSummaryService(engine.NewSummarizer(backend, backend), cfg.Location)

	seeded, err := settingsSvc.Seed(ctx, cfg.DefaultExchangeRate)
	if err != nil {
		logger.Error("failed to seed exchange rate", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if seeded {
		logger.Info("exchange rate seeded", slog.String("exchange_rate", cfg.DefaultExchangeRate.String()))
	}

	// Router.
	router := handler.NewRouter(orderSvc, settingsSvc, summarySvc, logger)

	// Configure HTTP server.
	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start HTTP server in a goroutine.
	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("timezone", cfg.Timezone),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("shutdown signal received", slog.String("signal", sig.String()))

	// Graceful shutdown: stop HTTP server, then release the store.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.String("error", err.Error()))
	}
	cancel()

	logger.Info("server stopped")
}
