// Package server parses server command flags and starts the table runtime.
package server

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/louisbranch/duality-table/internal/game"
	entrypoint "github.com/louisbranch/duality-table/internal/platform/cmd"
	"github.com/louisbranch/duality-table/internal/platform/random"
	"github.com/louisbranch/duality-table/internal/server"
	"github.com/louisbranch/duality-table/internal/storage"
	"github.com/louisbranch/duality-table/internal/storage/sqlite"
)

const shutdownTimeout = 10 * time.Second

// Config holds server command configuration.
type Config struct {
	Port         int    `env:"DUALITY_TABLE_PORT" envDefault:"8080"`
	Addr         string `env:"DUALITY_TABLE_ADDR"`
	DatabasePath string `env:"DUALITY_TABLE_DB" envDefault:"data/table.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The server listen address (overrides -port)")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "Path to the sqlite database (empty disables persistence)")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the session server and blocks until ctx is canceled.
func Run(ctx context.Context, cfg Config) error {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(ctx context.Context) error {
		return serve(ctx, cfg)
	})
}

func serve(ctx context.Context, cfg Config) error {
	seed, err := random.NewSeed()
	if err != nil {
		return fmt.Errorf("seed rng: %w", err)
	}
	state := game.NewState(game.WithRandomSeed(seed))

	var store storage.Store
	if cfg.DatabasePath != "" {
		sqliteStore, err := sqlite.Open(cfg.DatabasePath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer sqliteStore.Close()
		store = sqliteStore
		slog.Info("database opened", "path", cfg.DatabasePath)
	} else {
		slog.Info("persistence disabled")
	}

	handler := server.NewHandler(state, server.NewHub(), store)

	addr := cfg.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Port)
	}
	srv := &http.Server{
		Addr:        addr,
		Handler:     handler.Routes(),
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
