package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lodgelogic/lodgelogic-insights/internal/metrics"
)

// MetricsMiddleware counts requests in Prometheus and feeds the rolling
// tracker behind the performance report. stats may be nil.
func MetricsMiddleware(stats *metrics.RequestStats) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
		if stats != nil {
			stats.Observe(status, time.Since(start))
		}
	}
}
