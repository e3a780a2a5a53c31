package services

import (
	"context"
	"errors"
	"time"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
)

// WarmingService pre-fills the cache at startup so the first visitor
// never pays the cold-read cost.
type WarmingService struct {
	business      *BusinessService
	menus         *MenuService
	announcements *AnnouncementService
	logger        *logging.ChanneledLogger
}

func NewWarmingService(business *BusinessService, menus *MenuService, announcements *AnnouncementService, logger *logging.ChanneledLogger) *WarmingService {
	return &WarmingService{
		business:      business,
		menus:         menus,
		announcements: announcements,
		logger:        logger,
	}
}

// WarmCaches loads business info, menu structure, and announcements.
// Warming is best effort, a failing step logs and moves on.
func (s *WarmingService) WarmCaches(ctx context.Context) {
	start := time.Now()
	log := s.logger.Warming()

	if _, err := s.business.GetBusinessInfo(ctx); err != nil {
		log.Warn("Business info warmup failed", "error", err)
	}

	if _, err := s.menus.GetFullMenu(ctx); err != nil {
		var multi *menu.MultipleMenusError
		if errors.As(err, &multi) {
			s.warmAllMenus(ctx)
		} else {
			log.Warn("Menu warmup failed", "error", err)
		}
	}

	if _, err := s.announcements.GetAnnouncements(ctx); err != nil {
		log.Warn("Announcements warmup failed", "error", err)
	}

	log.Info("Cache warming complete", "duration", time.Since(start))
}

// warmAllMenus loads skeletons for every active menu when no single
// menu exists to load eagerly.
func (s *WarmingService) warmAllMenus(ctx context.Context) {
	menus, err := s.menus.GetAvailableMenus(ctx)
	if err != nil {
		s.logger.Warming().Warn("Menu list warmup failed", "error", err)
		return
	}
	for _, summary := range menus {
		if _, err := s.menus.GetMenuCategoriesOnly(ctx, summary.ID); err != nil {
			s.logger.Warming().Warn("Category warmup failed", "menu", summary.ID, "error", err)
		}
	}
}
