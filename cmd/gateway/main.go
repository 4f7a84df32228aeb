package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/haneul-labs/fassto-gateway/api/routes"
	"github.com/haneul-labs/fassto-gateway/internal/proxy"
	"github.com/haneul-labs/fassto-gateway/internal/sheetsync"
	"github.com/haneul-labs/fassto-gateway/pkg/config"
	"github.com/haneul-labs/fassto-gateway/pkg/fassto"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
	"github.com/haneul-labs/fassto-gateway/pkg/metrics"
	"github.com/haneul-labs/fassto-gateway/pkg/sheets"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "gateway"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "gateway",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	registry := prometheus.NewRegistry()
	upstreamMetrics := metrics.NewUpstreamMetrics(registry)

	fasstoClient, err := fassto.NewClient(cfg.Fassto, logg, upstreamMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create fassto client", err)
		os.Exit(1)
	}

	sheetsClient, err := sheets.NewClient(context.Background(), cfg.Sheets, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sheets client", err)
		os.Exit(1)
	}

	syncService, err := sheetsync.NewService(fasstoClient, sheetsClient, logg, upstreamMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync service", err)
		os.Exit(1)
	}

	proxyService, err := proxy.NewService(fasstoClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create proxy service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting gateway server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, registry, syncService, proxyService),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "gateway server stopped unexpectedly", err)
		os.Exit(1)
	}
}
