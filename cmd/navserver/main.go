package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/tablenav/tablenav/internal/config"
	"github.com/tablenav/tablenav/internal/navserver"
)

const ConfigPath = "config/tablenav.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("tablenav server starting",
		"log_level", cfg.LogLevel,
		"bind", cfg.Server.BindAddress,
		"port", cfg.Server.Port,
		"smoothing", cfg.Nav.Smoothing,
		"debug", cfg.Debug.Enabled)

	srv, err := navserver.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting websocket server", "addr", cfg.Server.Addr())
		if err := srv.Run(gctx); err != nil {
			return fmt.Errorf("websocket server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// configPath returns the config file location, honoring the
// TABLENAV_CONFIG environment override.
func configPath() string {
	if p := os.Getenv("TABLENAV_CONFIG"); p != "" {
		return p
	}
	return ConfigPath
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
