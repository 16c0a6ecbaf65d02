package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/signalsfoundry/drift-simulator/core"
	"github.com/signalsfoundry/drift-simulator/internal/api"
	"github.com/signalsfoundry/drift-simulator/internal/config"
	"github.com/signalsfoundry/drift-simulator/internal/events"
	"github.com/signalsfoundry/drift-simulator/internal/logging"
	"github.com/signalsfoundry/drift-simulator/internal/marine"
	"github.com/signalsfoundry/drift-simulator/internal/observability"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to the YAML configuration file")
	listenAddr := flag.String("listen-addr", "", "HTTP address override for the drift API")
	coastlinePath := flag.String("coastline", "", "Path override for the coastline polygon file")
	flag.Parse()

	log := logging.NewFromEnv()
	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error(ctx, "failed to load configuration", logging.String("path", *configPath), logging.Any("error", err))
		os.Exit(1)
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}
	if *coastlinePath != "" {
		cfg.Simulation.CoastlinePath = *coastlinePath
	}

	collector, err := observability.NewDriftCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise metrics collector", logging.Any("error", err))
		os.Exit(1)
	}
	metricsSrv := serveMetrics(cfg.Server.MetricsAddr, collector, log)

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Any("error", err))
		os.Exit(1)
	}

	land := loadCoastline(ctx, log, cfg.Simulation.CoastlinePath)

	provider := buildProvider(ctx, cfg.Marine, collector, log)
	publisher := events.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)

	svc := api.NewService(api.ServiceConfig{
		Provider:  provider,
		LandMask:  land,
		Workers:   cfg.Simulation.Workers,
		Collector: collector,
		Events:    publisher,
		Logger:    log,
	})
	server := api.NewServer(cfg.Server.ListenAddr, svc, collector, log)

	go func() {
		if err := server.Start(ctx); err != nil {
			log.Error(ctx, "http server exited", logging.Any("error", err))
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down drift server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "http shutdown incomplete", logging.Any("error", err))
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	if err := publisher.Close(); err != nil {
		log.Warn(ctx, "event publisher close failed", logging.Any("error", err))
	}
	observability.ShutdownWithTimeout(context.Background(), shutdownTracing, log)
}

func serveMetrics(addr string, collector *observability.DriftCollector, log logging.Logger) *http.Server {
	if collector == nil || addr == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	srv := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Warn(context.Background(), "metrics server exited", logging.Any("error", err))
		}
	}()

	log.Info(context.Background(), "serving Prometheus metrics", logging.String("addr", addr))
	return srv
}

// loadCoastline reads the stranding polygons. A missing or unreadable file
// leaves the simulator in open-water mode.
func loadCoastline(ctx context.Context, log logging.Logger, path string) core.LandMask {
	if path == "" {
		return core.OpenWater
	}
	f, err := os.Open(path)
	if err != nil {
		log.Warn(ctx, "skipping coastline load", logging.String("path", path), logging.Any("error", err))
		return core.OpenWater
	}
	defer f.Close()

	mask, err := core.LoadPolygonLandMask(f)
	if err != nil {
		log.Warn(ctx, "failed to parse coastline file", logging.String("path", path), logging.Any("error", err))
		return core.OpenWater
	}
	log.Info(ctx, "loaded coastline polygons",
		logging.String("path", path),
		logging.Int("rings", mask.Rings()),
	)
	return mask
}

// buildProvider wires the marine client, cache tiers and fallback metric.
// Returns nil when no marine service is configured.
func buildProvider(ctx context.Context, cfg config.MarineConfig, collector *observability.DriftCollector, log logging.Logger) *marine.Provider {
	if cfg.BaseURL == "" {
		log.Warn(ctx, "marine service not configured, runs will use fallback forcing")
		return nil
	}

	client := marine.NewClient(marine.ClientConfig{
		BaseURL:         cfg.BaseURL,
		APIToken:        cfg.APIToken,
		CurrentsProduct: cfg.CurrentsProduct,
		WindProduct:     cfg.WindProduct,
	}, log)

	var store marine.ObjectStore
	if cfg.Minio.Endpoint != "" {
		s, err := marine.NewMinioStore(ctx, marine.MinioConfig{
			Endpoint:  cfg.Minio.Endpoint,
			AccessKey: cfg.Minio.AccessKey,
			SecretKey: cfg.Minio.SecretKey,
			Bucket:    cfg.Minio.Bucket,
			Secure:    cfg.Minio.Secure,
		})
		if err != nil {
			log.Warn(ctx, "object store unavailable, using memory cache only", logging.Any("error", err))
		} else {
			store = s
			log.Info(ctx, "dataset object store connected",
				logging.String("endpoint", cfg.Minio.Endpoint),
				logging.String("bucket", cfg.Minio.Bucket),
			)
		}
	}

	cache := marine.NewDatasetCache(cfg.CacheTTL.Std(), store, log)
	cache.StartSweeper(ctx, cfg.CacheTTL.Std())
	return marine.NewProvider(client, cache, collector.RecordDataFallback, log)
}
