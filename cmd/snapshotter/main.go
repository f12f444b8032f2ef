package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/bootstrap"
	"github.com/lodgelogic/lodgelogic-insights/internal/config"
	kafkax "github.com/lodgelogic/lodgelogic-insights/internal/kafka"
	"github.com/lodgelogic/lodgelogic-insights/internal/logger"
	"github.com/lodgelogic/lodgelogic-insights/internal/obs"
	"github.com/lodgelogic/lodgelogic-insights/internal/service/snapshot"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel, "snapshotter")
	defer log.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracer, err := obs.InitTracer(ctx, cfg.ServiceName+"-snapshotter", cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}

	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err))
	}
	defer stores.Close()

	producer := kafkax.NewProducer(cfg.KafkaBrokerList(), cfg.SnapshotEventsTopic)
	defer producer.Close()

	svc := snapshot.NewSnapshotService(log, stores.Bookings, stores.Hotels, stores.Users, stores.Snapshots, producer, cfg.Location())

	log.Info("Running initial snapshot")
	if _, err := svc.CaptureYesterday(ctx); err != nil {
		log.Error("Initial snapshot failed", zap.Error(err))
	}

	log.Info("Snapshotter started", zap.Duration("interval", cfg.SnapshotInterval))
	svc.RunPeriodic(ctx, cfg.SnapshotInterval)

	if shutdownTracer != nil {
		_ = shutdownTracer(context.Background())
	}
	log.Info("Snapshotter stopped")
}
