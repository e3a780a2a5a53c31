package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCategoryLister counts item fetches per category so tests can
// assert exactly-once loading.
type fakeCategoryLister struct {
	mu         sync.Mutex
	skeletons  map[string][]*menu.CategorySkeleton
	items      map[string][]*menu.Item
	itemCalls  map[string]int
	failingIDs map[string]bool
}

func newFakeLister() *fakeCategoryLister {
	return &fakeCategoryLister{
		skeletons: map[string][]*menu.CategorySkeleton{
			"m1": {
				{ID: "c1", Name: "Starters", Order: 1},
				{ID: "c2", Name: "Mains", Order: 2},
			},
		},
		items: map[string][]*menu.Item{
			"c1": {{ID: "i1", Name: "Soup"}},
			"c2": {{ID: "i2", Name: "Steak"}, {ID: "i3", Name: "Pasta"}},
		},
		itemCalls:  map[string]int{},
		failingIDs: map[string]bool{},
	}
}

func (f *fakeCategoryLister) GetMenuCategoriesOnly(_ context.Context, menuID string) ([]*menu.CategorySkeleton, error) {
	return f.skeletons[menuID], nil
}

func (f *fakeCategoryLister) GetCategoryItems(_ context.Context, _, categoryID string) ([]*menu.Item, error) {
	f.mu.Lock()
	f.itemCalls[categoryID]++
	f.mu.Unlock()

	if f.failingIDs[categoryID] {
		return nil, &menu.TransportError{Op: "GetCategoryItems", Err: errors.New("store down")}
	}
	return f.items[categoryID], nil
}

func (f *fakeCategoryLister) calls(categoryID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.itemCalls[categoryID]
}

func TestExpandCategoryLoadsOnce(t *testing.T) {
	lister := newFakeLister()
	svc := NewLazyMenuService(lister, newTestStateStore(t), newTestLogger(t))
	ctx := context.Background()

	assert.Equal(t, CategoryUnloaded, svc.State("m1", "c1"))

	items, err := svc.ExpandCategory(ctx, "m1", "c1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, CategoryLoaded, svc.State("m1", "c1"))

	// A second expansion returns the session's items without a fetch
	again, err := svc.ExpandCategory(ctx, "m1", "c1")
	require.NoError(t, err)
	assert.Equal(t, items, again)
	assert.Equal(t, 1, lister.calls("c1"))
}

func TestExpandCategoryConcurrentSharesOneFetch(t *testing.T) {
	lister := newFakeLister()
	svc := NewLazyMenuService(lister, newTestStateStore(t), newTestLogger(t))
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ExpandCategory(ctx, "m1", "c2")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, lister.calls("c2"), "concurrent expansions share one fetch")
}

func TestExpandCategoryErrorIsTerminalForSession(t *testing.T) {
	lister := newFakeLister()
	lister.failingIDs["c1"] = true
	svc := NewLazyMenuService(lister, newTestStateStore(t), newTestLogger(t))
	ctx := context.Background()

	_, err := svc.ExpandCategory(ctx, "m1", "c1")
	require.Error(t, err)
	assert.Equal(t, CategoryError, svc.State("m1", "c1"))

	// The store recovers but the session keeps the error until Reset
	lister.failingIDs["c1"] = false
	_, err = svc.ExpandCategory(ctx, "m1", "c1")
	require.Error(t, err)
	assert.Equal(t, 1, lister.calls("c1"))

	svc.Reset("m1")
	items, err := svc.ExpandCategory(ctx, "m1", "c1")
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCollapseKeepsLoadedItems(t *testing.T) {
	lister := newFakeLister()
	svc := NewLazyMenuService(lister, newTestStateStore(t), newTestLogger(t))
	ctx := context.Background()

	_, err := svc.ExpandCategory(ctx, "m1", "c1")
	require.NoError(t, err)

	require.NoError(t, svc.Collapse("m1", "c1"))
	assert.Equal(t, CategoryLoaded, svc.State("m1", "c1"), "collapse keeps items loaded")

	expanded, err := svc.ExpandedCategories("m1")
	require.NoError(t, err)
	assert.NotContains(t, expanded, "c1")

	// Re-expanding costs nothing
	_, err = svc.ExpandCategory(ctx, "m1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, lister.calls("c1"))
}

func TestExpansionSetPersistsAcrossSessions(t *testing.T) {
	stateStore := newTestStateStore(t)
	lister := newFakeLister()

	svc := NewLazyMenuService(lister, stateStore, newTestLogger(t))
	ctx := context.Background()

	_, err := svc.ExpandCategory(ctx, "m1", "c2")
	require.NoError(t, err)

	// A new service instance simulates a restart
	fresh := NewLazyMenuService(lister, stateStore, newTestLogger(t))
	skeletons, err := fresh.LoadCategorySkeletons(ctx, "m1")
	require.NoError(t, err)
	assert.Len(t, skeletons, 2)

	assert.Equal(t, CategoryLoaded, fresh.State("m1", "c2"),
		"persisted expansion re-expands eagerly on load")
	assert.Equal(t, CategoryUnloaded, fresh.State("m1", "c1"))
	assert.Equal(t, 2, lister.calls("c2"), "one fetch per session")
}

func TestLoadCategorySkeletonsIgnoresStaleExpansionIDs(t *testing.T) {
	stateStore := newTestStateStore(t)
	require.NoError(t, stateStore.Set("expanded-m1", []string{"gone", "c1"}))

	lister := newFakeLister()
	svc := NewLazyMenuService(lister, stateStore, newTestLogger(t))

	skeletons, err := svc.LoadCategorySkeletons(context.Background(), "m1")
	require.NoError(t, err)
	assert.Len(t, skeletons, 2)
	assert.Equal(t, CategoryLoaded, svc.State("m1", "c1"))
	assert.Equal(t, 0, lister.calls("gone"), "categories no longer on the menu are skipped")
}
