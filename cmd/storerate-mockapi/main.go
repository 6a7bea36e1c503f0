// Command storerate-mockapi serves an in-memory store-rating API for local
// development. It seeds one account per role; every seeded account uses the
// password printed at startup.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/MrEthical07/goRate/internal/logging"
	"github.com/MrEthical07/goRate/internal/mockapi"
)

type config struct {
	Addr      string        `env:"MOCKAPI_ADDR" envDefault:":3001"`
	Secret    string        `env:"MOCKAPI_SECRET" envDefault:"storerate-dev-secret-change-me-0123456789"`
	TokenTTL  time.Duration `env:"MOCKAPI_TOKEN_TTL" envDefault:"1h"`
	Seed      bool          `env:"MOCKAPI_SEED" envDefault:"true"`
	LogLevel  string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string        `env:"LOG_FORMAT" envDefault:"text"`
}

func main() {
	_ = godotenv.Load()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)

	server, err := mockapi.New(mockapi.Config{
		Secret:   []byte(cfg.Secret),
		TokenTTL: cfg.TokenTTL,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to create server", "error", err)
		os.Exit(1)
	}
	if cfg.Seed {
		if err := server.SeedDemo(); err != nil {
			logger.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
		logger.Info("seeded demo accounts",
			"admin", "admin@storerate.local",
			"owner", "owner@storerate.local",
			"user", "user@storerate.local",
			"password", mockapi.DemoPassword,
		)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("mock API listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}
