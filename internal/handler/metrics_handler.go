package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quickbite/quickbite-api/internal/service"
	"github.com/quickbite/quickbite-api/pkg/response"
)

// MetricsHandler exposes Prometheus metrics and a JSON snapshot.
type MetricsHandler struct {
	service *service.MetricsService
}

// NewMetricsHandler creates a new handler.
func NewMetricsHandler(svc *service.MetricsService) *MetricsHandler {
	return &MetricsHandler{service: svc}
}

// Prometheus serves the scrape endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	h.service.Handler().ServeHTTP(c.Writer, c.Request)
}

// Snapshot godoc
// @Summary Metrics snapshot
// @Description Aggregated request and cache counters (admin only)
// @Tags Metrics
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /metrics/snapshot [get]
func (h *MetricsHandler) Snapshot(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Snapshot(), nil)
}
