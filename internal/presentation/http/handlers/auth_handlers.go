package handlers

import (
	"net/http"

	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/security"
	"github.com/GrooveMedia/groove-menu-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// AuthHandlers serves admin login
type AuthHandlers struct {
	logger *logging.ChanneledLogger
}

func NewAuthHandlers(logger *logging.ChanneledLogger) *AuthHandlers {
	return &AuthHandlers{logger: logger}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandlers) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if config.AdminPasswordHash == "" || config.JWTSecret == "" {
		h.logger.Auth().Error("Admin login attempted without credentials configured")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "admin access not configured"})
		return
	}

	if !security.CheckPassword(config.AdminPasswordHash, req.Password) {
		h.logger.Auth().Warn("Admin login rejected", "remote", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := security.GenerateAdminToken(config.BusinessID, config.JWTSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	h.logger.Auth().Info("Admin login succeeded", "remote", c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"token": token})
}
