package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/api/destinations"
	"github.com/lodgelogic/lodgelogic-insights/internal/api/health"
	"github.com/lodgelogic/lodgelogic-insights/internal/api/insights"
	"github.com/lodgelogic/lodgelogic-insights/internal/config"
	"github.com/lodgelogic/lodgelogic-insights/internal/metrics"
	"github.com/lodgelogic/lodgelogic-insights/internal/middleware"
)

// Dependencies are the services the HTTP layer serves. Redis may be nil,
// in which case rate limiting is per instance only.
type Dependencies struct {
	Store        health.Pinger
	Process      health.ProcessSampler
	Requests     *metrics.RequestStats
	Insights     insights.Reporter
	Snapshots    insights.SnapshotLister
	Destinations destinations.Lister
	Redis        *redis.Client
}

// RegisterRoutes wires all HTTP routes.
func RegisterRoutes(r *gin.Engine, log *zap.Logger, cfg config.Config, d Dependencies) {
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.MetricsMiddleware(d.Requests))
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "LodgeLogic Insights",
			"description": "Booking analytics for hotel owners: dashboard aggregates, weekly forecasts and daily snapshots.",
			"version":     "1.0.0",
			"docs":        "/docs",
			"endpoints":   []string{"/v1/health", "/v1/business-insights", "/v1/destinations", "/metrics"},
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	health.NewHealthHandler(log, d.Store, cfg.StoreDriver, d.Process).Register(r)
	RegisterDocs(r)

	// Health, docs and metrics stay outside the limiter.
	if d.Redis != nil {
		r.Use(middleware.HybridRateLimit(d.Redis, cfg.RateLimitRPS, cfg.RateLimitBurst))
	} else {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	insights.NewInsightsHandler(log, d.Insights, d.Snapshots, cfg.JWTSigningSecret, cfg.Location()).Register(r)
	destinations.NewDestinationsHandler(log, d.Destinations).Register(r)
}
