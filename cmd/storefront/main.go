package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flicky/storefront/internal/cli"
	"github.com/flicky/storefront/internal/client"
	"github.com/flicky/storefront/internal/config"
	"github.com/flicky/storefront/internal/logging"
	"github.com/flicky/storefront/internal/notify"
	"github.com/flicky/storefront/internal/repository"
	"github.com/flicky/storefront/internal/service"
	"github.com/flicky/storefront/internal/session"
	"github.com/flicky/storefront/internal/shell"
	"github.com/flicky/storefront/internal/telemetry"
	"github.com/flicky/storefront/internal/worker"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "storefront:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := parseFlags(os.Args[1:], cfg); err != nil {
		return err
	}

	// The terminal belongs to the user; logs only go to the file.
	log, logFile, err := logging.New(cfg.Log, "storefront", nil)
	if err != nil {
		return err
	}
	defer logFile.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Telemetry.Tracing {
		shutdown, err := telemetry.SetupTracing("storefront", version, logFile)
		if err != nil {
			return err
		}
		defer shutdownWithTimeout(shutdown, log, "tracing")
	}
	if cfg.Telemetry.MetricsAddr != "" {
		defer shutdownWithTimeout(telemetry.ServeMetrics(cfg.Telemetry.MetricsAddr, log), log, "metrics")
	}

	backend, closeBackend, err := openBackend(ctx, cfg.Session)
	if err != nil {
		return err
	}
	defer closeBackend()
	log.Info("session backend ready", "backend", cfg.Session.Backend)

	sessions := session.NewStore(backend, log)
	c := client.New(cfg.API.BaseURL, cfg.API.Timeout, sessions, log)

	// Repositories
	userRepo := repository.NewUserRepository(c)
	productRepo := repository.NewProductRepository(c)
	orderRepo := repository.NewOrderRepository(c)

	// Services
	sh := shell.New(shell.Services{
		Auth:     service.NewAuthService(userRepo, sessions),
		Products: service.NewProductService(productRepo),
		Checkout: service.NewCheckoutService(orderRepo),
		Orders:   service.NewOrderService(orderRepo, sessions),
	}, notify.New(), log)

	watcher := worker.NewSessionWatcher(sessions, cfg.Session.CheckInterval, log)
	watcher.Start(ctx)
	defer watcher.Stop()

	log.Info("starting storefront", "version", version, "api", cfg.API.BaseURL)
	app := cli.New(sh, os.Stdin, os.Stdout, log, cli.WithExpiry(watcher.Expired()))
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("storefront stopped")
	return nil
}

// parseFlags applies command-line overrides on top of the environment config.
func parseFlags(args []string, cfg *config.Config) error {
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	ephemeral := fs.Bool("ephemeral", false, "keep the session in memory only")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *ephemeral {
		cfg.Session.Backend = config.SessionBackendMemory
	}
	return nil
}

func openBackend(ctx context.Context, cfg config.SessionConfig) (session.Backend, func(), error) {
	switch cfg.Backend {
	case config.SessionBackendRedis:
		b, err := session.NewRedisBackend(ctx, cfg.RedisURL, cfg.KeyPrefix)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { _ = b.Close() }, nil
	case config.SessionBackendMemory:
		return session.NewMemoryBackend(), func() {}, nil
	default:
		return session.NewFileBackend(cfg.File), func() {}, nil
	}
}

func shutdownWithTimeout(shutdown func(context.Context) error, log *slog.Logger, what string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("shutdown "+what, "error", err)
	}
}
