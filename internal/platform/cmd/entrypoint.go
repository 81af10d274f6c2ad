// Package cmd provides shared entrypoint helpers for service commands.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/louisbranch/duality-table/internal/platform/config"
	"github.com/louisbranch/duality-table/internal/platform/otel"
)

const defaultOTelShutdownTimeout = 5 * time.Second

// ServiceServer identifies the session server for startup telemetry.
const ServiceServer = "server"

// RunOptions controls shared entrypoint behavior for service commands.
type RunOptions struct {
	// ShutdownTimeout sets the timeout used when stopping telemetry.
	ShutdownTimeout time.Duration
}

// ParseConfig loads environment defaults into cfg.
func ParseConfig[T any](cfg *T) error {
	if cfg == nil {
		return errors.New("config target is required")
	}
	return config.ParseEnv(cfg)
}

// ParseArgs parses command-line flags.
func ParseArgs(fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return errors.New("flag parser is required")
	}
	if args == nil {
		args = []string{}
	}
	return fs.Parse(args)
}

// ParseConfigFromArgs loads defaults from env and then parses flags.
func ParseConfigFromArgs[T any](cfg *T, fs *flag.FlagSet, args []string) error {
	if err := ParseConfig(cfg); err != nil {
		return err
	}
	return ParseArgs(fs, args)
}

// RunWithTelemetry configures observability and executes a service run loop.
func RunWithTelemetry(ctx context.Context, service string, run func(context.Context) error) error {
	return RunWithTelemetryAndOptions(ctx, service, RunOptions{}, run)
}

// RunWithTelemetryAndOptions configures observability and executes a service run loop.
func RunWithTelemetryAndOptions(ctx context.Context, service string, options RunOptions, run func(context.Context) error) error {
	service = strings.TrimSpace(service)
	if service == "" {
		return fmt.Errorf("service name is required")
	}
	if run == nil {
		return fmt.Errorf("run function is required")
	}
	shutdown, err := otel.Setup(ctx, service)
	if err != nil {
		return err
	}
	defer func() {
		shutdownTimeout := options.ShutdownTimeout
		if shutdownTimeout <= 0 {
			shutdownTimeout = defaultOTelShutdownTimeout
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Warn("otel shutdown", "service", service, "error", err)
		}
	}()
	return run(ctx)
}
