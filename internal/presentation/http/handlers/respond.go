// Package handlers contains the gin HTTP handlers for the menu API.
package handlers

import (
	"errors"
	"net/http"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/gin-gonic/gin"
)

// respondError maps domain errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var multi *menu.MultipleMenusError
	var transport *menu.TransportError

	switch {
	case errors.Is(err, menu.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.As(err, &multi):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "multiple active menus, select one explicitly",
			"menuCount": multi.Count,
		})
	case errors.As(err, &transport):
		c.JSON(http.StatusBadGateway, gin.H{"error": transport.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
