// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/GrooveMedia/groove-menu-go/internal/application/services"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/caching"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/docstore"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/listeners"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/media"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/state"
	"github.com/GrooveMedia/groove-menu-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Application services
	BusinessService     *services.BusinessService
	MenuService         *services.MenuService
	CartService         *services.CartService
	AnnouncementService *services.AnnouncementService
	LazyMenuService     *services.LazyMenuService
	WarmingService      *services.WarmingService
	AdminService        *services.AdminService

	// Infrastructure
	Store      docstore.Store
	Cache      *caching.DocumentCache
	Registry   *listeners.Registry
	StateStore *state.FileStore
	Logger     *logging.ChanneledLogger
	BusinessID string
}

// NewContainer creates and wires all singleton services
func NewContainer(store docstore.Store, stateStore *state.FileStore, logger *logging.ChanneledLogger) *Container {
	cache := caching.NewDocumentCache(config.MaxCacheItems)
	registry := listeners.NewRegistry(config.ListenerMaxIdleTime, logger.Listeners())
	images := media.NewImageProcessor(config.MediaDir)
	businessID := config.BusinessID

	businessService := services.NewBusinessService(store, cache, registry, logger, businessID)
	menuService := services.NewMenuService(store, cache, registry, logger, businessID)
	announcementService := services.NewAnnouncementService(store, cache, registry, stateStore, logger, businessID)

	return &Container{
		BusinessService:     businessService,
		MenuService:         menuService,
		CartService:         services.NewCartService(menuService, logger),
		AnnouncementService: announcementService,
		LazyMenuService:     services.NewLazyMenuService(menuService, stateStore, logger),
		WarmingService:      services.NewWarmingService(businessService, menuService, announcementService, logger),
		AdminService:        services.NewAdminService(store, cache, images, logger, businessID),

		Store:      store,
		Cache:      cache,
		Registry:   registry,
		StateStore: stateStore,
		Logger:     logger,
		BusinessID: businessID,
	}
}
