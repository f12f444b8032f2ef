package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/bootstrap"
	"github.com/lodgelogic/lodgelogic-insights/internal/config"
	"github.com/lodgelogic/lodgelogic-insights/internal/logger"
	"github.com/lodgelogic/lodgelogic-insights/internal/service/reconcile"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel, "reconcile")
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	stores, err := bootstrap.OpenStores(ctx, cfg, log)
	if err != nil {
		log.Fatal("store connect", zap.Error(err))
	}
	defer stores.Close()

	start := time.Now()
	fixed, err := reconcile.NewReconcileService(log, stores.Hotels).Run(ctx)
	if err != nil {
		log.Error("reconciliation failed", zap.Error(err))
		stores.Close()
		os.Exit(1)
	}
	log.Info("reconciliation complete", zap.Int("hotels_fixed", fixed), zap.Duration("took", time.Since(start)))
}
