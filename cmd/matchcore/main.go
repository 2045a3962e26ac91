package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abdoElHodaky/matchcore/internal/common"
	"github.com/abdoElHodaky/matchcore/internal/engine"
	"github.com/abdoElHodaky/matchcore/internal/metrics"
	"github.com/abdoElHodaky/matchcore/internal/region"
	"github.com/abdoElHodaky/matchcore/internal/reststore"
	"github.com/abdoElHodaky/matchcore/pkg/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	appName    = "matchcore"
	appVersion = "v0.1.0"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to configuration file")
		version    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s %s\n", appName, appVersion)
		os.Exit(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := common.NewEngineLogger("matchcore")

	reg, err := region.Open(cfg.Region.Path)
	if err != nil {
		logger.LogError(err, "region_open", map[string]interface{}{"path": cfg.Region.Path})
		os.Exit(1)
	}
	defer reg.Close()

	store, closeStore, err := buildStore(cfg.RestStore, logger)
	if err != nil {
		logger.LogError(err, "reststore_init", nil)
		os.Exit(1)
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	mtr := metrics.NewEngine(registry)

	engCfg := engine.Config{
		Symbols:                cfg.Matching.Symbols,
		IdleBackoff:            cfg.Matching.IdleBackoff,
		MaxConsecutiveDiscards: cfg.Matching.MaxConsecutiveDiscards,
		CarryMarketRemainder:   cfg.Matching.CarryMarketRemainder,
		ShutdownJoinTimeout:    cfg.Matching.ShutdownJoinTimeout,
	}
	loop, err := engine.New(engCfg, reg, store, logger, mtr)
	if err != nil {
		logger.LogError(err, "engine_init", nil)
		os.Exit(1)
	}

	loop.Start()

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		metricsServer = &http.Server{Addr: cfg.MetricsAddr(), Handler: mux}
		go func() {
			logger.Info("starting metrics server", "addr", cfg.MetricsAddr())
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err.Error())
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down matchcore")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Matching.ShutdownJoinTimeout)
	defer cancel()
	if err := loop.Shutdown(ctx); err != nil {
		logger.Error("engine shutdown error", "error", err.Error())
	}
	if metricsServer != nil {
		_ = metricsServer.Shutdown(ctx)
	}

	logger.Info("matchcore stopped")
}

// buildStore constructs the configured resting-order side store,
// wrapped in the async dispatch queue so the engine never blocks on
// it.
func buildStore(cfg config.RestStoreConfig, logger common.Logger) (reststore.Store, func(), error) {
	var backend reststore.Store
	switch cfg.Backend {
	case "gorm":
		db, err := openGormDB(cfg.DSN)
		if err != nil {
			return nil, func() {}, err
		}
		backend, err = reststore.NewGormStore(db, cfg.CacheTTL, logger)
		if err != nil {
			return nil, func() {}, err
		}
	default:
		backend = reststore.NewInMemoryStore()
	}

	async, err := reststore.NewAsyncStore(backend, cfg.QueueDepth, cfg.Workers, logger)
	if err != nil {
		return nil, func() {}, err
	}
	return async, async.Close, nil
}

func openGormDB(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}
