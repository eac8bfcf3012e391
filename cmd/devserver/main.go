package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flicky/storefront/internal/config"
	"github.com/flicky/storefront/internal/devserver"
	"github.com/flicky/storefront/internal/logging"
	"github.com/flicky/storefront/internal/model"
	"github.com/flicky/storefront/internal/telemetry"
)

var version = "dev"

var sampleProducts = []model.Product{
	{Name: "Ceramic Mug", Description: "350ml stoneware mug", Category: "Kitchen", Price: decimal.RequireFromString("349.00"), Stock: 25, Image: "https://picsum.photos/seed/mug/400"},
	{Name: "Notebook", Description: "A5 dotted, 120 pages", Category: "Stationery", Price: decimal.RequireFromString("199.50"), Stock: 40, Image: "https://picsum.photos/seed/notebook/400"},
	{Name: "Desk Lamp", Description: "LED, three brightness levels", Category: "Home", Price: decimal.RequireFromString("1499.00"), Stock: 8, Image: "https://picsum.photos/seed/lamp/400"},
	{Name: "Travel Bottle", Description: "750ml insulated steel", Category: "Outdoors", Price: decimal.RequireFromString("899.99"), Stock: 0, Image: "https://picsum.photos/seed/bottle/400"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	cfg.Log.File = filepath.Join(filepath.Dir(cfg.Log.File), "devserver.log")
	log, logFile, err := logging.New(cfg.Log, "devserver", os.Stdout)
	if err != nil {
		slog.Error("init logging", "error", err)
		os.Exit(1)
	}
	defer logFile.Close()

	if cfg.Telemetry.Tracing {
		shutdown, err := telemetry.SetupTracing("storefront-devserver", version, logFile)
		if err != nil {
			log.Error("setup tracing", "error", err)
			os.Exit(1)
		}
		defer shutdown(context.Background())
	}

	srv := devserver.New(devserver.Config{
		JWTSecret: cfg.DevServer.JWTSecret,
		JWTExpiry: cfg.DevServer.JWTExpiration,
	}, log)

	if _, err := srv.Store().CreateUser(cfg.DevServer.AdminName, cfg.DevServer.AdminEmail, cfg.DevServer.AdminPassword, model.RoleAdmin); err != nil {
		log.Error("seed admin", "error", err)
		os.Exit(1)
	}
	for _, p := range sampleProducts {
		srv.Store().AddProduct(p)
	}
	log.Info("seeded store", "admin", cfg.DevServer.AdminEmail, "products", len(sampleProducts))

	httpSrv := &http.Server{
		Addr:              cfg.DevServer.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting HTTP server", "addr", cfg.DevServer.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.DevServer.ShutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", "error", err)
	}
	log.Info("server stopped")
}
