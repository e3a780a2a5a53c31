package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/caching"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/docstore"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/listeners"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
)

// MenuService is the single point of contact with the document store
// for menu data. Every read is cache-check, store-fetch, cache-fill.
type MenuService struct {
	store      docstore.Store
	cache      *caching.DocumentCache
	registry   *listeners.Registry
	logger     *logging.ChanneledLogger
	businessID string
}

func NewMenuService(store docstore.Store, cache *caching.DocumentCache, registry *listeners.Registry, logger *logging.ChanneledLogger, businessID string) *MenuService {
	return &MenuService{
		store:      store,
		cache:      cache,
		registry:   registry,
		logger:     logger,
		businessID: businessID,
	}
}

// ResolveSchema detects which document layout the business uses. The
// result is cached so the probe runs once per TTL window, not per read.
func (s *MenuService) ResolveSchema(ctx context.Context) (menu.SchemaVariant, error) {
	key := caching.BuildKey("schema-variant", s.businessID, nil)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(menu.SchemaVariant), nil
	}

	docs, err := s.store.ListCollection(ctx, menusPath(s.businessID))
	if err != nil {
		return "", menu.WrapTransport("ResolveSchema", err)
	}

	variant := menu.SchemaLegacy
	if len(docs) > 0 {
		variant = menu.SchemaMultiMenu
	}

	s.cache.Set(key, variant, caching.TTLForCategory("schema-variant"))
	s.logger.Store().Debug("Schema variant resolved", "business", s.businessID, "variant", variant)
	return variant, nil
}

// GetAvailableMenus lists active menus ordered by their display order.
// A menu without an active flag counts as active. Legacy businesses
// have no menus collection and get an empty list.
func (s *MenuService) GetAvailableMenus(ctx context.Context) ([]*menu.MenuSummary, error) {
	key := caching.BuildKey("menus", s.businessID, nil)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*menu.MenuSummary), nil
	}

	docs, err := s.store.ListCollection(ctx, menusPath(s.businessID))
	if err != nil {
		return nil, menu.WrapTransport("GetAvailableMenus", err)
	}

	menus, err := decodeMenus(docs)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, menus, caching.TTLForCategory("menus"))
	return menus, nil
}

func decodeMenus(docs []docstore.Document) ([]*menu.MenuSummary, error) {
	menus := []*menu.MenuSummary{}
	for _, doc := range docs {
		summary := &menu.MenuSummary{Active: true}
		if err := doc.Decode(summary); err != nil {
			return nil, fmt.Errorf("failed to decode menu: %w", err)
		}
		if !summary.Active {
			continue
		}
		menus = append(menus, summary)
	}
	sort.SliceStable(menus, func(i, j int) bool { return menus[i].Order < menus[j].Order })
	return menus, nil
}

// GetMenuCategoriesOnly returns category skeletons without items, the
// cheap read behind lazy loading. Hidden categories are filtered.
func (s *MenuService) GetMenuCategoriesOnly(ctx context.Context, menuID string) ([]*menu.CategorySkeleton, error) {
	key := caching.BuildKey("categories", s.businessID, map[string]string{"menuId": menuID})
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*menu.CategorySkeleton), nil
	}

	path := menuCategoriesPath(s.businessID, menuID)
	if menuID == "" {
		path = legacyCategoriesPath(s.businessID)
	}

	docs, err := s.store.ListCollection(ctx, path)
	if err != nil {
		return nil, menu.WrapTransport("GetMenuCategoriesOnly", err)
	}

	skeletons, err := decodeSkeletons(docs)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, skeletons, caching.TTLForCategory("categories"))
	return skeletons, nil
}

func decodeSkeletons(docs []docstore.Document) ([]*menu.CategorySkeleton, error) {
	skeletons := []*menu.CategorySkeleton{}
	for _, doc := range docs {
		skeleton := &menu.CategorySkeleton{}
		if err := doc.Decode(skeleton); err != nil {
			return nil, fmt.Errorf("failed to decode category: %w", err)
		}
		if skeleton.IsHidden {
			continue
		}
		skeletons = append(skeletons, skeleton)
	}
	sort.SliceStable(skeletons, func(i, j int) bool { return skeletons[i].Order < skeletons[j].Order })
	return skeletons, nil
}

// GetCategoryItems returns a category's visible items sorted by name.
// An empty menuID addresses the legacy flat layout.
func (s *MenuService) GetCategoryItems(ctx context.Context, menuID, categoryID string) ([]*menu.Item, error) {
	key := caching.BuildKey("items", s.businessID, map[string]string{"menuId": menuID, "categoryId": categoryID})
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*menu.Item), nil
	}

	path := menuItemsPath(s.businessID, menuID, categoryID)
	if menuID == "" {
		path = legacyItemsPath(s.businessID, categoryID)
	}

	docs, err := s.store.ListCollection(ctx, path)
	if err != nil {
		return nil, menu.WrapTransport("GetCategoryItems", err)
	}

	items, err := decodeItems(docs, menuID, categoryID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, items, caching.TTLForCategory("items"))
	return items, nil
}

func decodeItems(docs []docstore.Document, menuID, categoryID string) ([]*menu.Item, error) {
	items := []*menu.Item{}
	for _, doc := range docs {
		item := &menu.Item{IsAvailable: true}
		if err := doc.Decode(item); err != nil {
			return nil, fmt.Errorf("failed to decode item: %w", err)
		}
		if item.IsHidden {
			continue
		}
		item.MenuID = menuID
		item.CategoryID = categoryID
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
	return items, nil
}

// GetMenuByID eagerly loads one menu with all categories and items.
func (s *MenuService) GetMenuByID(ctx context.Context, menuID string) (*menu.FullMenu, error) {
	key := caching.BuildKey("menu", s.businessID, map[string]string{"menuId": menuID})
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*menu.FullMenu), nil
	}

	doc, err := s.store.GetDocument(ctx, menusPath(s.businessID)+"/"+menuID)
	if err != nil {
		return nil, menu.WrapTransport("GetMenuByID", err)
	}

	summary := &menu.MenuSummary{Active: true}
	if err := doc.Decode(summary); err != nil {
		return nil, fmt.Errorf("failed to decode menu: %w", err)
	}

	categories, err := s.loadMenuCategories(ctx, menuID)
	if err != nil {
		return nil, err
	}

	full := &menu.FullMenu{
		Schema:     menu.SchemaMultiMenu,
		Menu:       summary,
		Categories: categories,
	}
	s.cache.Set(key, full, caching.TTLForCategory("menu"))
	return full, nil
}

func (s *MenuService) loadMenuCategories(ctx context.Context, menuID string) ([]*menu.Category, error) {
	skeletons, err := s.GetMenuCategoriesOnly(ctx, menuID)
	if err != nil {
		return nil, err
	}

	categories := make([]*menu.Category, 0, len(skeletons))
	for _, skeleton := range skeletons {
		items, err := s.GetCategoryItems(ctx, menuID, skeleton.ID)
		if err != nil {
			return nil, err
		}
		categories = append(categories, &menu.Category{CategorySkeleton: *skeleton, Items: items})
	}
	return categories, nil
}

// GetFullMenu resolves the single menu for the business regardless of
// schema. On the multi-menu layout a business with more than one
// active menu gets a MultipleMenusError so the caller picks one via
// GetAvailableMenus.
func (s *MenuService) GetFullMenu(ctx context.Context) (*menu.FullMenu, error) {
	key := caching.BuildKey("menu", s.businessID, nil)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*menu.FullMenu), nil
	}

	menus, err := s.GetAvailableMenus(ctx)
	if err != nil {
		return nil, err
	}

	var full *menu.FullMenu
	switch {
	case len(menus) == 0:
		full, err = s.getLegacyMenu(ctx)
	case len(menus) == 1:
		full, err = s.GetMenuByID(ctx, menus[0].ID)
	default:
		return nil, &menu.MultipleMenusError{Count: len(menus)}
	}
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, full, caching.TTLForCategory("menu"))
	return full, nil
}

// getLegacyMenu loads the flat layout where categories live directly
// under the business document and no menu document exists.
func (s *MenuService) getLegacyMenu(ctx context.Context) (*menu.FullMenu, error) {
	skeletons, err := s.GetMenuCategoriesOnly(ctx, "")
	if err != nil {
		return nil, err
	}

	categories := make([]*menu.Category, 0, len(skeletons))
	for _, skeleton := range skeletons {
		items, err := s.GetCategoryItems(ctx, "", skeleton.ID)
		if err != nil {
			return nil, err
		}
		categories = append(categories, &menu.Category{CategorySkeleton: *skeleton, Items: items})
	}

	return &menu.FullMenu{Schema: menu.SchemaLegacy, Categories: categories}, nil
}

// collectItems walks every visible item across all active menus, or
// the legacy menu when no menus exist. Reads go through the cached
// accessors so repeated derived queries stay cheap.
func (s *MenuService) collectItems(ctx context.Context) ([]*menu.Item, error) {
	schema, err := s.ResolveSchema(ctx)
	if err != nil {
		return nil, err
	}

	if schema == menu.SchemaLegacy {
		full, err := s.getLegacyMenu(ctx)
		if err != nil {
			return nil, err
		}
		items := []*menu.Item{}
		for _, category := range full.Categories {
			items = append(items, category.Items...)
		}
		return items, nil
	}

	menus, err := s.GetAvailableMenus(ctx)
	if err != nil {
		return nil, err
	}

	items := []*menu.Item{}
	for _, summary := range menus {
		skeletons, err := s.GetMenuCategoriesOnly(ctx, summary.ID)
		if err != nil {
			return nil, err
		}
		for _, skeleton := range skeletons {
			categoryItems, err := s.GetCategoryItems(ctx, summary.ID, skeleton.ID)
			if err != nil {
				return nil, err
			}
			items = append(items, categoryItems...)
		}
	}
	return items, nil
}

// GetFeaturedItems returns available featured items across the menu.
func (s *MenuService) GetFeaturedItems(ctx context.Context) ([]*menu.Item, error) {
	all, err := s.collectItems(ctx)
	if err != nil {
		return nil, err
	}

	featured := []*menu.Item{}
	for _, item := range all {
		if item.IsFeatured && item.IsAvailable {
			featured = append(featured, item)
		}
	}
	return featured, nil
}

// SearchItems filters items by case-insensitive substring on name and
// description. A blank term returns an empty result without touching
// the store.
func (s *MenuService) SearchItems(ctx context.Context, term string) ([]*menu.Item, error) {
	term = strings.TrimSpace(strings.ToLower(term))
	if term == "" {
		return []*menu.Item{}, nil
	}

	all, err := s.collectItems(ctx)
	if err != nil {
		return nil, err
	}

	matches := []*menu.Item{}
	for _, item := range all {
		if strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.Description), term) {
			matches = append(matches, item)
		}
	}
	return matches, nil
}

// FindItem locates one visible item by id anywhere on the menu.
func (s *MenuService) FindItem(ctx context.Context, itemID string) (*menu.Item, error) {
	all, err := s.collectItems(ctx)
	if err != nil {
		return nil, err
	}
	for _, item := range all {
		if item.ID == itemID {
			return item, nil
		}
	}
	return nil, menu.ErrNotFound
}

// SubscribeToMenus registers a live subscription on the menus list.
func (s *MenuService) SubscribeToMenus(ctx context.Context, fn func([]*menu.MenuSummary, error)) error {
	listenerKey := fmt.Sprintf("menus-%s", s.businessID)
	cacheKey := caching.BuildKey("menus", s.businessID, nil)

	cancel, err := s.store.Subscribe(ctx, menusPath(s.businessID), func(docs []docstore.Document, err error) {
		s.registry.Touch(listenerKey)
		if err != nil {
			fn(nil, menu.WrapTransport("SubscribeToMenus", err))
			return
		}

		menus, err := decodeMenus(docs)
		if err != nil {
			fn(nil, err)
			return
		}
		s.cache.Set(cacheKey, menus, caching.TTLForCategory("menus"))
		fn(menus, nil)
	})
	if err != nil {
		return menu.WrapTransport("SubscribeToMenus", err)
	}

	s.registry.Register(listenerKey, cancel, listeners.Options{AutoCleanup: true, Priority: "normal"})
	s.logger.Listeners().Debug("Menus subscription active", "key", listenerKey)
	return nil
}

// InvalidateMenuCaches drops every cached entry scoped to this
// business, forcing the next reads back to the store.
func (s *MenuService) InvalidateMenuCaches() int {
	return s.cache.Invalidate(s.businessID)
}
