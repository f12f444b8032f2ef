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
	"github.com/lodgelogic/lodgelogic-insights/internal/service/counters"
	"github.com/lodgelogic/lodgelogic-insights/internal/worker"
)

const consumerGroup = "lodgelogic-hotel-counters"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel, "worker")
	defer log.Sync()
	log.Info("worker starting", zap.String("topic", cfg.BookingEventsTopic), zap.Int("max_workers", cfg.MaxWorkerRoutineCount))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("store connect", zap.Error(err))
	}
	defer stores.Close()

	counterSvc := counters.NewCounterService(log, stores.Hotels)

	brokers := cfg.KafkaBrokerList()
	consumer := kafkax.NewConsumer(brokers, consumerGroup, cfg.BookingEventsTopic)
	defer consumer.Close()
	dlq := kafkax.NewProducer(brokers, cfg.BookingEventsTopic+"-dlq")
	defer dlq.Close()

	w := worker.NewCounterWorker(log, counterSvc, consumer, dlq, cfg.MaxWorkerRoutineCount)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("worker stopped unexpectedly", zap.Error(err))
	}
	log.Info("worker stopped")
}
