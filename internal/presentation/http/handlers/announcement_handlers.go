package handlers

import (
	"net/http"

	"github.com/GrooveMedia/groove-menu-go/internal/application/services"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// AnnouncementHandlers serves announcement endpoints including the
// featured-modal daily decision.
type AnnouncementHandlers struct {
	announcementService *services.AnnouncementService
	logger              *logging.ChanneledLogger
}

func NewAnnouncementHandlers(announcementService *services.AnnouncementService, logger *logging.ChanneledLogger) *AnnouncementHandlers {
	return &AnnouncementHandlers{announcementService: announcementService, logger: logger}
}

// GetAnnouncements handles GET /api/v1/announcements
func (h *AnnouncementHandlers) GetAnnouncements(c *gin.Context) {
	announcements, err := h.announcementService.GetAnnouncements(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"announcements": announcements, "count": len(announcements)})
}

// GetFeaturedToday handles GET /api/v1/announcements/featured-today.
// show is false when no featured announcement exists or today's was
// already surfaced.
func (h *AnnouncementHandlers) GetFeaturedToday(c *gin.Context) {
	featured, err := h.announcementService.FeaturedForToday(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if featured == nil {
		c.JSON(http.StatusOK, gin.H{"show": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"show": true, "announcement": featured})
}

// MarkFeaturedShown handles POST /api/v1/announcements/:id/shown
func (h *AnnouncementHandlers) MarkFeaturedShown(c *gin.Context) {
	if err := h.announcementService.MarkFeaturedShown(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}
