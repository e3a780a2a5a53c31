package handlers

import (
	"net/http"

	"github.com/GrooveMedia/groove-menu-go/internal/application/services"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// MenuHandlers serves menu structure, item, and search endpoints
type MenuHandlers struct {
	menuService *services.MenuService
	lazyService *services.LazyMenuService
	logger      *logging.ChanneledLogger
}

func NewMenuHandlers(menuService *services.MenuService, lazyService *services.LazyMenuService, logger *logging.ChanneledLogger) *MenuHandlers {
	return &MenuHandlers{menuService: menuService, lazyService: lazyService, logger: logger}
}

// GetMenus handles GET /api/v1/menus
func (h *MenuHandlers) GetMenus(c *gin.Context) {
	menus, err := h.menuService.GetAvailableMenus(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": menus, "count": len(menus)})
}

// GetFullMenu handles GET /api/v1/menu
func (h *MenuHandlers) GetFullMenu(c *gin.Context) {
	full, err := h.menuService.GetFullMenu(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, full)
}

// GetMenuByID handles GET /api/v1/menus/:menuId
func (h *MenuHandlers) GetMenuByID(c *gin.Context) {
	full, err := h.menuService.GetMenuByID(c.Request.Context(), c.Param("menuId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, full)
}

// GetCategories handles GET /api/v1/menus/:menuId/categories.
// Returns skeletons plus each category's loading state so the client
// can render headers immediately.
func (h *MenuHandlers) GetCategories(c *gin.Context) {
	menuID := c.Param("menuId")

	skeletons, err := h.lazyService.LoadCategorySkeletons(c.Request.Context(), menuID)
	if err != nil {
		respondError(c, err)
		return
	}

	states := make(map[string]services.CategoryState, len(skeletons))
	for _, skeleton := range skeletons {
		states[skeleton.ID] = h.lazyService.State(menuID, skeleton.ID)
	}

	expanded, err := h.lazyService.ExpandedCategories(menuID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": skeletons,
		"states":     states,
		"expanded":   expanded,
	})
}

// ExpandCategory handles POST /api/v1/menus/:menuId/categories/:categoryId/expand
func (h *MenuHandlers) ExpandCategory(c *gin.Context) {
	menuID := c.Param("menuId")
	categoryID := c.Param("categoryId")

	items, err := h.lazyService.ExpandCategory(c.Request.Context(), menuID, categoryID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"state": h.lazyService.State(menuID, categoryID),
	})
}

// CollapseCategory handles POST /api/v1/menus/:menuId/categories/:categoryId/collapse
func (h *MenuHandlers) CollapseCategory(c *gin.Context) {
	if err := h.lazyService.Collapse(c.Param("menuId"), c.Param("categoryId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "collapsed"})
}

// GetCategoryItems handles GET /api/v1/menus/:menuId/categories/:categoryId/items
func (h *MenuHandlers) GetCategoryItems(c *gin.Context) {
	items, err := h.menuService.GetCategoryItems(c.Request.Context(), c.Param("menuId"), c.Param("categoryId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// GetFeaturedItems handles GET /api/v1/items/featured
func (h *MenuHandlers) GetFeaturedItems(c *gin.Context) {
	items, err := h.menuService.GetFeaturedItems(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// SearchItems handles GET /api/v1/items/search?q=term
func (h *MenuHandlers) SearchItems(c *gin.Context) {
	term := c.Query("q")

	items, err := h.menuService.SearchItems(c.Request.Context(), term)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items), "term": term})
}
