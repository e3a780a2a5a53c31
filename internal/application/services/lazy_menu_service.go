package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/state"
)

// CategoryState tracks a category through the lazy loading lifecycle.
// Loaded and Error are terminal for the session until Reset.
type CategoryState string

const (
	CategoryUnloaded CategoryState = "unloaded"
	CategoryLoading  CategoryState = "loading"
	CategoryLoaded   CategoryState = "loaded"
	CategoryError    CategoryState = "error"
)

type categoryEntry struct {
	state CategoryState
	items []*menu.Item
	err   error
	done  chan struct{}
}

// CategoryLister is the slice of the menu service lazy loading needs.
type CategoryLister interface {
	GetMenuCategoriesOnly(ctx context.Context, menuID string) ([]*menu.CategorySkeleton, error)
	GetCategoryItems(ctx context.Context, menuID, categoryID string) ([]*menu.Item, error)
}

// LazyMenuService loads category skeletons up front and fetches each
// category's items at most once per session, on first expansion.
// Expanded category ids persist across restarts and are eagerly
// re-expanded on the next skeleton load.
type LazyMenuService struct {
	menus      CategoryLister
	stateStore *state.FileStore
	logger     *logging.ChanneledLogger

	mu       sync.Mutex
	sessions map[string]map[string]*categoryEntry
}

func NewLazyMenuService(menus CategoryLister, stateStore *state.FileStore, logger *logging.ChanneledLogger) *LazyMenuService {
	return &LazyMenuService{
		menus:      menus,
		stateStore: stateStore,
		logger:     logger,
		sessions:   make(map[string]map[string]*categoryEntry),
	}
}

func expansionKey(menuID string) string {
	if menuID == "" {
		menuID = "legacy"
	}
	return "expanded-" + menuID
}

// LoadCategorySkeletons returns the category skeletons for a menu and
// eagerly re-expands every category that was expanded before.
func (s *LazyMenuService) LoadCategorySkeletons(ctx context.Context, menuID string) ([]*menu.CategorySkeleton, error) {
	skeletons, err := s.menus.GetMenuCategoriesOnly(ctx, menuID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.sessions[menuID] == nil {
		s.sessions[menuID] = make(map[string]*categoryEntry)
	}
	s.mu.Unlock()

	expanded, err := s.expandedSet(menuID)
	if err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(skeletons))
	for _, skeleton := range skeletons {
		present[skeleton.ID] = true
	}

	for _, categoryID := range expanded {
		if !present[categoryID] {
			continue
		}
		if _, err := s.ExpandCategory(ctx, menuID, categoryID); err != nil {
			// Error state is recorded on the entry, the skeleton
			// load itself still succeeds.
			s.logger.System().Warn("Eager re-expansion failed",
				"menu", menuID, "category", categoryID, "error", err)
		}
	}

	return skeletons, nil
}

// ExpandCategory fetches a category's items exactly once per session.
// Concurrent expansions of the same category share one fetch, and a
// later expansion of a loaded category returns the session's items.
func (s *LazyMenuService) ExpandCategory(ctx context.Context, menuID, categoryID string) ([]*menu.Item, error) {
	s.mu.Lock()
	if s.sessions[menuID] == nil {
		s.sessions[menuID] = make(map[string]*categoryEntry)
	}
	session := s.sessions[menuID]

	if entry, ok := session[categoryID]; ok {
		switch entry.state {
		case CategoryLoading:
			done := entry.done
			s.mu.Unlock()
			select {
			case <-done:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			return entry.items, entry.err
		case CategoryLoaded, CategoryError:
			items, lerr := entry.items, entry.err
			loaded := entry.state == CategoryLoaded
			s.mu.Unlock()
			// Re-expanding after a collapse puts the category back in
			// the persisted set without another fetch.
			if loaded {
				if perr := s.rememberExpansion(menuID, categoryID); perr != nil {
					s.logger.System().Warn("Failed to persist expansion",
						"menu", menuID, "category", categoryID, "error", perr)
				}
			}
			return items, lerr
		}
	}

	entry := &categoryEntry{state: CategoryLoading, done: make(chan struct{})}
	session[categoryID] = entry
	s.mu.Unlock()

	items, err := s.menus.GetCategoryItems(ctx, menuID, categoryID)

	s.mu.Lock()
	if err != nil {
		entry.state = CategoryError
		entry.err = err
	} else {
		entry.state = CategoryLoaded
		entry.items = items
	}
	close(entry.done)
	s.mu.Unlock()

	if err == nil {
		if perr := s.rememberExpansion(menuID, categoryID); perr != nil {
			s.logger.System().Warn("Failed to persist expansion",
				"menu", menuID, "category", categoryID, "error", perr)
		}
	}
	return items, err
}

// Collapse hides a category without discarding its loaded items, so
// re-expanding is instant. The persisted expansion set forgets it.
func (s *LazyMenuService) Collapse(menuID, categoryID string) error {
	expanded, err := s.expandedSet(menuID)
	if err != nil {
		return err
	}

	kept := expanded[:0]
	for _, id := range expanded {
		if id != categoryID {
			kept = append(kept, id)
		}
	}
	return s.stateStore.Set(expansionKey(menuID), kept)
}

// State reports where a category is in the loading lifecycle.
func (s *LazyMenuService) State(menuID, categoryID string) CategoryState {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.sessions[menuID][categoryID]; ok {
		return entry.state
	}
	return CategoryUnloaded
}

// ExpandedCategories returns the persisted expansion set for a menu.
func (s *LazyMenuService) ExpandedCategories(menuID string) ([]string, error) {
	return s.expandedSet(menuID)
}

// Reset clears the session for a menu so every category loads fresh.
// The persisted expansion set is untouched.
func (s *LazyMenuService) Reset(menuID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, menuID)
}

func (s *LazyMenuService) expandedSet(menuID string) ([]string, error) {
	expanded := []string{}
	if _, err := s.stateStore.Get(expansionKey(menuID), &expanded); err != nil {
		return nil, fmt.Errorf("failed to read expansion set: %w", err)
	}
	return expanded, nil
}

func (s *LazyMenuService) rememberExpansion(menuID, categoryID string) error {
	expanded, err := s.expandedSet(menuID)
	if err != nil {
		return err
	}

	for _, id := range expanded {
		if id == categoryID {
			return nil
		}
	}
	expanded = append(expanded, categoryID)
	sort.Strings(expanded)
	return s.stateStore.Set(expansionKey(menuID), expanded)
}
