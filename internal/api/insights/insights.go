package insights

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
	jwtMiddleware "github.com/lodgelogic/lodgelogic-insights/internal/middleware"
	insightsService "github.com/lodgelogic/lodgelogic-insights/internal/service/insights"
	"github.com/lodgelogic/lodgelogic-insights/internal/service/snapshot"
)

type Reporter interface {
	Dashboard(ctx context.Context) (*insightsService.Dashboard, error)
	Forecast(ctx context.Context) (*insightsService.Forecast, error)
	Performance(ctx context.Context) (*insightsService.Performance, error)
}

type SnapshotLister interface {
	ListSnapshots(ctx context.Context, from, to time.Time) ([]domain.DailySnapshot, error)
}

type InsightsHandler struct {
	log       *zap.Logger
	svc       Reporter
	snapshots SnapshotLister
	secret    string
	loc       *time.Location
}

func NewInsightsHandler(log *zap.Logger, svc Reporter, snapshots SnapshotLister, secret string, loc *time.Location) *InsightsHandler {
	return &InsightsHandler{log: log, svc: svc, snapshots: snapshots, secret: secret, loc: loc}
}

func (h *InsightsHandler) Register(r *gin.Engine) {
	g := r.Group("/v1/business-insights")
	g.Use(jwtMiddleware.UserMiddleware(h.secret))
	{
		g.GET("/dashboard", h.dashboard)
		g.GET("/forecast", h.forecast)
		g.GET("/performance", h.performance)
		g.GET("/snapshots", h.listSnapshots)
	}
}

func (h *InsightsHandler) dashboard(c *gin.Context) {
	d, err := h.svc.Dashboard(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to fetch dashboard data", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *InsightsHandler) forecast(c *gin.Context) {
	f, err := h.svc.Forecast(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to generate forecasts", err)
		return
	}
	c.JSON(http.StatusOK, f)
}

func (h *InsightsHandler) performance(c *gin.Context) {
	p, err := h.svc.Performance(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to fetch performance metrics", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *InsightsHandler) listSnapshots(c *gin.Context) {
	from, err := parseBound(c.Query("from"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad from"})
		return
	}
	to, err := parseBound(c.Query("to"), h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad to"})
		return
	}
	out, err := h.snapshots.ListSnapshots(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, snapshot.ErrInvalidRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.fail(c, "Failed to fetch snapshots", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"snapshots": out, "count": len(out)})
}

func (h *InsightsHandler) fail(c *gin.Context, msg string, err error) {
	h.log.Error(msg, zap.Error(err), zap.String("request_id", c.GetString("request_id")))
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg, "message": err.Error()})
}

// parseBound accepts RFC3339 or a bare YYYY-MM-DD date in loc. Empty input
// yields the zero time, which the service replaces with its default.
func parseBound(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.ParseInLocation(time.DateOnly, s, loc)
}
