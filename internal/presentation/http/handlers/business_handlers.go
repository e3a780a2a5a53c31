package handlers

import (
	"net/http"

	"github.com/GrooveMedia/groove-menu-go/internal/application/services"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// BusinessHandlers serves the business profile endpoints
type BusinessHandlers struct {
	businessService *services.BusinessService
	logger          *logging.ChanneledLogger
}

func NewBusinessHandlers(businessService *services.BusinessService, logger *logging.ChanneledLogger) *BusinessHandlers {
	return &BusinessHandlers{businessService: businessService, logger: logger}
}

// GetBusinessInfo handles GET /api/v1/business
func (h *BusinessHandlers) GetBusinessInfo(c *gin.Context) {
	info, err := h.businessService.GetBusinessInfo(c.Request.Context())
	if err != nil {
		h.logger.HTTP().Error("Business info request failed", "error", err)
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
