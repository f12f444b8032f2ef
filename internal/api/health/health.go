package health

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/metrics"
)

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type ProcessSampler interface {
	Sample() metrics.ProcessStats
}

type HealthHandler struct {
	log     *zap.Logger
	store   Pinger
	driver  string
	process ProcessSampler
}

func NewHealthHandler(log *zap.Logger, store Pinger, driver string, process ProcessSampler) *HealthHandler {
	return &HealthHandler{log: log, store: store, driver: driver, process: process}
}

func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/v1/health", h.health)
	r.GET("/v1/health/detailed", h.detailed)
}

func (h *HealthHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *HealthHandler) detailed(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	status, code := "ok", http.StatusOK
	store := gin.H{"driver": h.driver, "status": "connected"}
	if err := h.store.Ping(ctx); err != nil {
		h.log.Warn("store ping failed", zap.Error(err))
		status, code = "degraded", http.StatusServiceUnavailable
		store["status"] = "unreachable"
		store["error"] = err.Error()
	}

	proc := h.process.Sample()
	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"uptime":    proc.Uptime.Seconds(),
		"store":     store,
		"runtime": gin.H{
			"go":         runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
			"cpus":       runtime.NumCPU(),
		},
		"memory": gin.H{
			"heapUsed":  proc.HeapUsedBytes,
			"heapTotal": proc.HeapTotalBytes,
		},
	})
}
