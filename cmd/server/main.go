package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/api"
	"github.com/lodgelogic/lodgelogic-insights/internal/bootstrap"
	"github.com/lodgelogic/lodgelogic-insights/internal/config"
	"github.com/lodgelogic/lodgelogic-insights/internal/logger"
	"github.com/lodgelogic/lodgelogic-insights/internal/metrics"
	"github.com/lodgelogic/lodgelogic-insights/internal/obs"
	redisx "github.com/lodgelogic/lodgelogic-insights/internal/redis"
	"github.com/lodgelogic/lodgelogic-insights/internal/service/destinations"
	"github.com/lodgelogic/lodgelogic-insights/internal/service/insights"
	"github.com/lodgelogic/lodgelogic-insights/internal/service/snapshot"
)

const requestSampleWindow = 5 * time.Minute

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel, "server")
	defer log.Sync()

	shutdownTracer, err := obs.InitTracer(context.Background(), cfg.ServiceName, cfg.OTLPEndpoint, cfg.Env)
	if err != nil {
		log.Warn("tracing disabled", zap.Error(err))
	}

	stores, err := bootstrap.OpenStores(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to open store", zap.Error(err), zap.String("driver", cfg.StoreDriver))
	}
	defer stores.Close()

	rdb := redisx.NewClient(cfg.RedisAddr)
	defer rdb.Close()

	loc := cfg.Location()
	process := metrics.NewProcessSampler()
	requests := metrics.NewRequestStats(requestSampleWindow)

	insightsSvc := insights.NewInsightsService(log, stores.Bookings, stores.Hotels, stores.Users, process, requests, loc)
	snapshotSvc := snapshot.NewSnapshotService(log, stores.Bookings, stores.Hotels, stores.Users, stores.Snapshots, nil, loc)
	destinationsSvc := destinations.NewDestinationsService(log, stores.Hotels, redisx.NewDestinationCache(rdb, cfg.DestinationsCacheTTL))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	api.RegisterRoutes(r, log, cfg, api.Dependencies{
		Store:        stores,
		Process:      process,
		Requests:     requests,
		Insights:     insightsSvc,
		Snapshots:    snapshotSvc,
		Destinations: destinationsSvc,
		Redis:        rdb,
	})

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   20 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("server starting", zap.Int("port", cfg.HTTPPort), zap.String("store", stores.Driver), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
	if shutdownTracer != nil {
		if err := shutdownTracer(ctx); err != nil {
			log.Warn("tracer shutdown error", zap.Error(err))
		}
	}
	log.Info("server exited")
}
