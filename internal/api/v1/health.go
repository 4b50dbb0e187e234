package v1

import (
	"net/http"

	"github.com/flexprice/mgmt/internal/logger"
	"github.com/flexprice/mgmt/internal/service"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	service service.ManagementService
	logger  *logger.Logger
}

func NewHealthHandler(
	service service.ManagementService,
	logger *logger.Logger,
) *HealthHandler {
	return &HealthHandler{
		service: service,
		logger:  logger,
	}
}

// @Summary Health check
// @Description Health check
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	// the server delegate is registered for as long as the server is usable
	if !h.service.IsRegistered(c.Request.Context(), service.DelegateObjectName()) {
		h.logger.Warnw("server delegate missing")
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"default_domain": h.service.GetDefaultDomain(),
		"resource_count": h.service.GetResourceCount(c.Request.Context()),
	})
}
