package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/GrooveMedia/groove-menu-go/pkg/config"
)

// ItemFinder is the slice of the menu service the cart checks need.
type ItemFinder interface {
	FindItem(ctx context.Context, itemID string) (*menu.Item, error)
}

// CartService validates requested quantities against current stock.
// Stock reads go through the cache, so a validation may accept counts
// that are stale within the items TTL. That is intentional, the final
// word belongs to whoever fulfills the order.
type CartService struct {
	items         ItemFinder
	logger        *logging.ChanneledLogger
	lowStockLimit int
}

func NewCartService(items ItemFinder, logger *logging.ChanneledLogger) *CartService {
	return &CartService{
		items:         items,
		logger:        logger,
		lowStockLimit: config.LowStockThreshold,
	}
}

// StockStatusOf classifies an item's stock level. Untracked items are
// unlimited no matter what Stock says, and a tracked item with nil
// stock is never depleted.
func StockStatusOf(item *menu.Item) menu.StockStatus {
	switch {
	case !item.TrackStock:
		return menu.StockUnlimited
	case item.Stock == nil:
		return menu.StockUnlimited
	case *item.Stock <= 0:
		return menu.StockOutOfStock
	case *item.Stock <= config.LowStockThreshold:
		return menu.StockLowStock
	default:
		return menu.StockInStock
	}
}

// ValidateStock checks a requested quantity against one item. Pure,
// no store access, usable on already-fetched items.
func ValidateStock(item *menu.Item, quantity int) menu.StockValidation {
	status := StockStatusOf(item)

	result := menu.StockValidation{
		Status:    status,
		Requested: quantity,
	}

	if quantity <= 0 {
		result.Reason = "quantity must be positive"
		return result
	}

	// Untracked items are always purchasable, even when a stale stock
	// count is still sitting on the document.
	if !item.TrackStock {
		result.Valid = true
		return result
	}

	if !item.IsAvailable {
		result.Reason = "item is not available"
		return result
	}

	if item.Stock == nil {
		result.Valid = true
		return result
	}

	result.Available = *item.Stock
	if quantity > *item.Stock {
		result.Reason = fmt.Sprintf("only %d left in stock", *item.Stock)
		return result
	}

	result.Valid = true
	return result
}

// ValidateCart checks every line against current stock. Missing items
// and insufficient stock become errors, low stock becomes a warning.
// IsValid is false exactly when at least one error exists.
func (s *CartService) ValidateCart(ctx context.Context, lines []menu.CartLine) (*menu.CartValidation, error) {
	validation := &menu.CartValidation{
		IsValid:  true,
		Errors:   []string{},
		Warnings: []string{},
	}

	for _, line := range lines {
		item, err := s.items.FindItem(ctx, line.ItemID)
		if errors.Is(err, menu.ErrNotFound) {
			validation.Errors = append(validation.Errors,
				fmt.Sprintf("item %s is no longer on the menu", line.ItemID))
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to validate cart: %w", err)
		}

		result := ValidateStock(item, line.Quantity)
		if !result.Valid {
			validation.Errors = append(validation.Errors,
				fmt.Sprintf("%s: %s", item.Name, result.Reason))
			continue
		}

		if result.Status == menu.StockLowStock {
			validation.Warnings = append(validation.Warnings,
				fmt.Sprintf("%s: only %d left in stock", item.Name, *item.Stock))
		}
	}

	validation.IsValid = len(validation.Errors) == 0

	if !validation.IsValid {
		s.logger.System().Debug("Cart validation failed",
			"lines", len(lines), "errors", len(validation.Errors))
	}
	return validation, nil
}
