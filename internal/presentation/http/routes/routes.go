// Package routes wires handlers onto the gin engine.
package routes

import (
	"net/http"

	"github.com/GrooveMedia/groove-menu-go/internal/application/container"
	"github.com/GrooveMedia/groove-menu-go/internal/presentation/http/handlers"
	"github.com/GrooveMedia/groove-menu-go/internal/presentation/http/middleware"
	"github.com/GrooveMedia/groove-menu-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all endpoints with dependency injection
func SetupRoutes(c *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Uploaded images are served straight off disk
	r.Static("/media", config.MediaDir)

	businessHandlers := handlers.NewBusinessHandlers(c.BusinessService, c.Logger)
	menuHandlers := handlers.NewMenuHandlers(c.MenuService, c.LazyMenuService, c.Logger)
	cartHandlers := handlers.NewCartHandlers(c.CartService, c.MenuService, c.Logger)
	announcementHandlers := handlers.NewAnnouncementHandlers(c.AnnouncementService, c.Logger)
	authHandlers := handlers.NewAuthHandlers(c.Logger)
	adminHandlers := handlers.NewAdminHandlers(c)
	liveHandlers := handlers.NewLiveHandlers(c)

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.GET("/business", businessHandlers.GetBusinessInfo)

		api.GET("/menu", menuHandlers.GetFullMenu)
		api.GET("/menus", menuHandlers.GetMenus)
		api.GET("/menus/:menuId", menuHandlers.GetMenuByID)
		api.GET("/menus/:menuId/categories", menuHandlers.GetCategories)
		api.GET("/menus/:menuId/categories/:categoryId/items", menuHandlers.GetCategoryItems)
		api.POST("/menus/:menuId/categories/:categoryId/expand", menuHandlers.ExpandCategory)
		api.POST("/menus/:menuId/categories/:categoryId/collapse", menuHandlers.CollapseCategory)

		api.GET("/items/featured", menuHandlers.GetFeaturedItems)
		api.GET("/items/search", menuHandlers.SearchItems)
		api.GET("/items/:itemId/stock", cartHandlers.GetItemStock)
		api.POST("/cart/validate", cartHandlers.ValidateCart)

		api.GET("/announcements", announcementHandlers.GetAnnouncements)
		api.GET("/announcements/featured-today", announcementHandlers.GetFeaturedToday)
		api.POST("/announcements/:id/shown", announcementHandlers.MarkFeaturedShown)

		api.POST("/auth/login", authHandlers.Login)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(config.JWTSecret))
	{
		admin.GET("/stats", adminHandlers.GetStats)
		admin.POST("/cache/invalidate", adminHandlers.InvalidateCache)
		admin.POST("/listeners/shutdown", adminHandlers.ShutdownListeners)
		admin.POST("/documents", adminHandlers.UpsertDocument)
		admin.DELETE("/documents", adminHandlers.DeleteDocument)
		admin.POST("/images", adminHandlers.UploadImage)
	}

	ws := r.Group("/ws")
	{
		ws.GET("/business", liveHandlers.BusinessInfo)
		ws.GET("/menus", liveHandlers.Menus)
		ws.GET("/announcements", liveHandlers.Announcements)
	}

	return r
}
