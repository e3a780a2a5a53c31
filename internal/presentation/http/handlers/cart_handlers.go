package handlers

import (
	"net/http"
	"strconv"

	"github.com/GrooveMedia/groove-menu-go/internal/application/services"
	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// CartHandlers serves stock and cart validation endpoints
type CartHandlers struct {
	cartService *services.CartService
	menuService *services.MenuService
	logger      *logging.ChanneledLogger
}

func NewCartHandlers(cartService *services.CartService, menuService *services.MenuService, logger *logging.ChanneledLogger) *CartHandlers {
	return &CartHandlers{cartService: cartService, menuService: menuService, logger: logger}
}

// GetItemStock handles GET /api/v1/items/:itemId/stock?qty=n
func (h *CartHandlers) GetItemStock(c *gin.Context) {
	item, err := h.menuService.FindItem(c.Request.Context(), c.Param("itemId"))
	if err != nil {
		respondError(c, err)
		return
	}

	quantity := 1
	if raw := c.Query("qty"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "qty must be an integer"})
			return
		}
		quantity = parsed
	}

	c.JSON(http.StatusOK, services.ValidateStock(item, quantity))
}

// ValidateCart handles POST /api/v1/cart/validate
func (h *CartHandlers) ValidateCart(c *gin.Context) {
	var req struct {
		Lines []menu.CartLine `json:"lines" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	validation, err := h.cartService.ValidateCart(c.Request.Context(), req.Lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, validation)
}
