package destinations

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lodgelogic/lodgelogic-insights/internal/domain"
)

type Lister interface {
	List(ctx context.Context) ([]domain.Destination, error)
}

type DestinationsHandler struct {
	log *zap.Logger
	svc Lister
}

func NewDestinationsHandler(log *zap.Logger, svc Lister) *DestinationsHandler {
	return &DestinationsHandler{log: log, svc: svc}
}

func (h *DestinationsHandler) Register(r *gin.Engine) {
	r.GET("/v1/destinations", h.list)
}

func (h *DestinationsHandler) list(c *gin.Context) {
	out, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to fetch destinations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch destinations"})
		return
	}
	c.JSON(http.StatusOK, out)
}
