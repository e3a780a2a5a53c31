package services

import (
	"context"
	"errors"
	"testing"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/docstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMultiMenuBusiness(t *testing.T, store *docstore.MemoryStore) {
	t.Helper()
	seedDoc(t, store, "businesses/biz", map[string]any{"name": "Groove Resto"})
	seedDoc(t, store, "businesses/biz/menus/m1", map[string]any{"name": "Lunch", "order": 1})
	seedDoc(t, store, "businesses/biz/menus/m1/categories/c1", map[string]any{"name": "Starters", "order": 1})
	seedDoc(t, store, "businesses/biz/menus/m1/categories/c2", map[string]any{"name": "Hidden", "order": 2, "isHidden": true})
	seedDoc(t, store, "businesses/biz/menus/m1/categories/c1/items/i1", map[string]any{"name": "bruschetta", "price": 6.5})
	seedDoc(t, store, "businesses/biz/menus/m1/categories/c1/items/i2", map[string]any{"name": "Arancini", "price": 8.0})
	seedDoc(t, store, "businesses/biz/menus/m1/categories/c1/items/i3", map[string]any{"name": "Zucchini", "price": 5.0, "isHidden": true})
}

func seedLegacyBusiness(t *testing.T, store *docstore.MemoryStore) {
	t.Helper()
	seedDoc(t, store, "businesses/biz", map[string]any{"name": "Groove Resto"})
	seedDoc(t, store, "businesses/biz/menu/c1", map[string]any{"name": "Mains", "order": 1})
	seedDoc(t, store, "businesses/biz/menu/c1/items/i1", map[string]any{"name": "Burger", "price": 12.0})
}

func TestResolveSchemaMultiMenu(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()

	variant, err := svc.ResolveSchema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, menu.SchemaMultiMenu, variant)
}

func TestResolveSchemaLegacyAndCached(t *testing.T) {
	f, mem := newFixture(t)
	seedLegacyBusiness(t, mem)
	svc := f.menuService()
	ctx := context.Background()

	variant, err := svc.ResolveSchema(ctx)
	require.NoError(t, err)
	assert.Equal(t, menu.SchemaLegacy, variant)

	_, err = svc.ResolveSchema(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, f.store.listCount("businesses/biz/menus"),
		"schema probe must run once, then come from cache")
}

func TestGetAvailableMenusFiltersInactiveAndSortsByOrder(t *testing.T) {
	f, mem := newFixture(t)
	seedDoc(t, mem, "businesses/biz/menus/m1", map[string]any{"name": "Dinner", "order": 2})
	seedDoc(t, mem, "businesses/biz/menus/m2", map[string]any{"name": "Lunch", "order": 1})
	seedDoc(t, mem, "businesses/biz/menus/m3", map[string]any{"name": "Old", "order": 0, "active": false})
	svc := f.menuService()

	menus, err := svc.GetAvailableMenus(context.Background())
	require.NoError(t, err)
	require.Len(t, menus, 2)
	assert.Equal(t, "Lunch", menus[0].Name)
	assert.Equal(t, "Dinner", menus[1].Name)
}

func TestGetMenuCategoriesOnlyFiltersHidden(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()

	skeletons, err := svc.GetMenuCategoriesOnly(context.Background(), "m1")
	require.NoError(t, err)
	require.Len(t, skeletons, 1)
	assert.Equal(t, "Starters", skeletons[0].Name)
}

func TestGetCategoryItemsSortedCaseInsensitive(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()

	items, err := svc.GetCategoryItems(context.Background(), "m1", "c1")
	require.NoError(t, err)
	require.Len(t, items, 2, "hidden items filtered")
	assert.Equal(t, "Arancini", items[0].Name)
	assert.Equal(t, "bruschetta", items[1].Name, "sort ignores case")
}

func TestGetCategoryItemsCacheFill(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()
	ctx := context.Background()

	_, err := svc.GetCategoryItems(ctx, "m1", "c1")
	require.NoError(t, err)
	_, err = svc.GetCategoryItems(ctx, "m1", "c1")
	require.NoError(t, err)

	assert.Equal(t, 1, f.store.listCount("businesses/biz/menus/m1/categories/c1/items"))
}

func TestGetFullMenuSingleActiveMenu(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()

	full, err := svc.GetFullMenu(context.Background())
	require.NoError(t, err)
	assert.Equal(t, menu.SchemaMultiMenu, full.Schema)
	require.NotNil(t, full.Menu)
	assert.Equal(t, "Lunch", full.Menu.Name)
	require.Len(t, full.Categories, 1)
	assert.Len(t, full.Categories[0].Items, 2)
}

func TestGetFullMenuLegacyFallback(t *testing.T) {
	f, mem := newFixture(t)
	seedLegacyBusiness(t, mem)
	svc := f.menuService()

	full, err := svc.GetFullMenu(context.Background())
	require.NoError(t, err)
	assert.Equal(t, menu.SchemaLegacy, full.Schema)
	assert.Nil(t, full.Menu)
	require.Len(t, full.Categories, 1)
	require.Len(t, full.Categories[0].Items, 1)
	assert.Equal(t, "Burger", full.Categories[0].Items[0].Name)
}

func TestGetFullMenuMultipleActiveMenus(t *testing.T) {
	f, mem := newFixture(t)
	seedDoc(t, mem, "businesses/biz/menus/m1", map[string]any{"name": "Lunch", "order": 1})
	seedDoc(t, mem, "businesses/biz/menus/m2", map[string]any{"name": "Dinner", "order": 2})
	svc := f.menuService()

	_, err := svc.GetFullMenu(context.Background())
	require.Error(t, err)

	var multi *menu.MultipleMenusError
	require.True(t, errors.As(err, &multi))
	assert.Equal(t, 2, multi.Count)
	assert.True(t, menu.IsMultipleMenus(err))
}

func TestGetFullMenuIgnoresInactiveWhenCounting(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	seedDoc(t, mem, "businesses/biz/menus/m9", map[string]any{"name": "Retired", "active": false})
	svc := f.menuService()

	full, err := svc.GetFullMenu(context.Background())
	require.NoError(t, err)
	require.NotNil(t, full.Menu)
	assert.Equal(t, "m1", full.Menu.ID)
}

func TestGetMenuByIDMissing(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()

	_, err := svc.GetMenuByID(context.Background(), "nope")
	assert.True(t, errors.Is(err, menu.ErrNotFound))
}

func TestGetMenuByIDCacheFill(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()
	ctx := context.Background()

	first, err := svc.GetMenuByID(ctx, "m1")
	require.NoError(t, err)
	second, err := svc.GetMenuByID(ctx, "m1")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	f.store.mu.Lock()
	gets := f.store.gets["businesses/biz/menus/m1"]
	f.store.mu.Unlock()
	assert.Equal(t, 1, gets, "second read must come from cache")
}

func TestSearchItemsBlankTermSkipsStore(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()

	items, err := svc.SearchItems(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, 0, f.store.listCount("businesses/biz/menus"),
		"blank search must not issue store reads")
}

func TestSearchItemsCaseInsensitive(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()

	items, err := svc.SearchItems(context.Background(), "ARANCINI")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Arancini", items[0].Name)
}

func TestGetFeaturedItems(t *testing.T) {
	f, mem := newFixture(t)
	seedDoc(t, mem, "businesses/biz/menus/m1", map[string]any{"name": "Lunch", "order": 1})
	seedDoc(t, mem, "businesses/biz/menus/m1/categories/c1", map[string]any{"name": "Mains", "order": 1})
	seedDoc(t, mem, "businesses/biz/menus/m1/categories/c1/items/i1", map[string]any{"name": "Special", "isFeatured": true})
	seedDoc(t, mem, "businesses/biz/menus/m1/categories/c1/items/i2", map[string]any{"name": "Plain"})
	seedDoc(t, mem, "businesses/biz/menus/m1/categories/c1/items/i3", map[string]any{"name": "Gone", "isFeatured": true, "isAvailable": false})
	svc := f.menuService()

	items, err := svc.GetFeaturedItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Special", items[0].Name)
}

func TestFindItem(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()

	item, err := svc.FindItem(context.Background(), "i2")
	require.NoError(t, err)
	assert.Equal(t, "Arancini", item.Name)

	_, err = svc.FindItem(context.Background(), "missing")
	assert.True(t, errors.Is(err, menu.ErrNotFound))
}

func TestSubscribeToMenusRegistersAndRefillsCache(t *testing.T) {
	f, mem := newFixture(t)
	seedDoc(t, mem, "businesses/biz/menus/m1", map[string]any{"name": "Lunch", "order": 1})
	svc := f.menuService()
	ctx := context.Background()

	var latest []*menu.MenuSummary
	err := svc.SubscribeToMenus(ctx, func(menus []*menu.MenuSummary, err error) {
		require.NoError(t, err)
		latest = menus
	})
	require.NoError(t, err)
	require.Len(t, latest, 1, "initial snapshot delivered")
	assert.True(t, f.registry.Has("menus-biz"))

	seedDoc(t, mem, "businesses/biz/menus/m2", map[string]any{"name": "Dinner", "order": 2})
	require.Len(t, latest, 2)

	// Cache was refilled by the push, a read stays off the store
	listsBefore := f.store.listCount("businesses/biz/menus")
	menus, err := svc.GetAvailableMenus(ctx)
	require.NoError(t, err)
	assert.Len(t, menus, 2)
	assert.Equal(t, listsBefore, f.store.listCount("businesses/biz/menus"))
}

func TestSubscribeReplacesPriorListener(t *testing.T) {
	f, mem := newFixture(t)
	seedDoc(t, mem, "businesses/biz/menus/m1", map[string]any{"name": "Lunch"})
	svc := f.menuService()
	ctx := context.Background()

	firstDeliveries := 0
	require.NoError(t, svc.SubscribeToMenus(ctx, func([]*menu.MenuSummary, error) { firstDeliveries++ }))
	require.NoError(t, svc.SubscribeToMenus(ctx, func([]*menu.MenuSummary, error) {}))

	countAfterResubscribe := firstDeliveries
	seedDoc(t, mem, "businesses/biz/menus/m2", map[string]any{"name": "Dinner"})
	assert.Equal(t, countAfterResubscribe, firstDeliveries,
		"first subscription must be cancelled by the second")
	assert.Equal(t, 1, f.registry.Stats().ActiveCount)
}

func TestInvalidateMenuCaches(t *testing.T) {
	f, mem := newFixture(t)
	seedMultiMenuBusiness(t, mem)
	svc := f.menuService()
	ctx := context.Background()

	_, err := svc.GetAvailableMenus(ctx)
	require.NoError(t, err)

	removed := svc.InvalidateMenuCaches()
	assert.Greater(t, removed, 0)

	_, err = svc.GetAvailableMenus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, f.store.listCount("businesses/biz/menus"),
		"invalidation must force the next read back to the store")
}
