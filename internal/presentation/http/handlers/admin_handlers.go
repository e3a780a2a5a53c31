package handlers

import (
	"net/http"

	"github.com/GrooveMedia/groove-menu-go/internal/application/container"
	"github.com/gin-gonic/gin"
)

// AdminHandlers serves the authenticated write and ops endpoints
type AdminHandlers struct {
	container *container.Container
}

func NewAdminHandlers(c *container.Container) *AdminHandlers {
	return &AdminHandlers{container: c}
}

// GetStats handles GET /api/v1/admin/stats
func (h *AdminHandlers) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cache":     h.container.Cache.Stats(),
		"listeners": h.container.Registry.Stats(),
	})
}

// InvalidateCache handles POST /api/v1/admin/cache/invalidate
func (h *AdminHandlers) InvalidateCache(c *gin.Context) {
	var req struct {
		Scope string `json:"scope"`
	}
	// Body is optional, an empty scope means the whole business
	_ = c.ShouldBindJSON(&req)

	removed := h.container.AdminService.InvalidateCaches(req.Scope)
	c.JSON(http.StatusOK, gin.H{"invalidated": removed})
}

// ShutdownListeners handles POST /api/v1/admin/listeners/shutdown
func (h *AdminHandlers) ShutdownListeners(c *gin.Context) {
	count := h.container.Registry.ShutdownAll()
	c.JSON(http.StatusOK, gin.H{"shutdown": count})
}

// UpsertDocument handles POST /api/v1/admin/documents
func (h *AdminHandlers) UpsertDocument(c *gin.Context) {
	var req struct {
		Collection string         `json:"collection" binding:"required"`
		ID         string         `json:"id"`
		Data       map[string]any `json:"data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	id, err := h.container.AdminService.UpsertDocument(c.Request.Context(), req.Collection, req.ID, req.Data)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id})
}

// DeleteDocument handles DELETE /api/v1/admin/documents?path=...
func (h *AdminHandlers) DeleteDocument(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	if err := h.container.AdminService.DeleteDocument(c.Request.Context(), path); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// UploadImage handles POST /api/v1/admin/images
func (h *AdminHandlers) UploadImage(c *gin.Context) {
	var req struct {
		Data    string `json:"data" binding:"required"`
		OwnerID string `json:"ownerId" binding:"required"`
		Kind    string `json:"kind"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Kind == "" {
		req.Kind = "items"
	}

	original, thumbnails, err := h.container.AdminService.UploadImage(req.Data, req.OwnerID, req.Kind)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": original, "thumbnails": thumbnails})
}
