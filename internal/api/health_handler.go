package api

import (
	"net/http"

	"webhook-message-service/internal/api/dto"

	"github.com/gin-gonic/gin"
)

// livenessHandler
// @Summary      Liveness probe
// @Tags         Health
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Router       /health/live [get]
func (h *Handler) livenessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, dto.StatusResponse{Status: "ok"})
}

// readinessHandler
// @Summary      Readiness probe
// @Description  Ready when the webhook secret is configured and storage answers a trivial probe.
// @Tags         Health
// @Produce      json
// @Success      200  {object}  dto.StatusResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /health/ready [get]
func (h *Handler) readinessHandler(c *gin.Context) {
	if !h.secretSet {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "WEBHOOK_SECRET not set"})
		return
	}

	if err := h.messageService.CheckReady(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "database not ready"})
		return
	}

	c.JSON(http.StatusOK, dto.StatusResponse{Status: "ready"})
}
