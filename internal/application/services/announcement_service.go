package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/caching"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/docstore"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/listeners"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/state"
	"github.com/GrooveMedia/groove-menu-go/pkg/config"
)

const featuredShownKey = "featured-shown"

// AnnouncementService serves active announcements, their live
// subscription, and the featured-modal daily dedup.
type AnnouncementService struct {
	store      docstore.Store
	cache      *caching.DocumentCache
	registry   *listeners.Registry
	stateStore *state.FileStore
	logger     *logging.ChanneledLogger
	businessID string
	limit      int

	// nowFn is swapped in tests to control the shown-today date
	nowFn func() time.Time
}

func NewAnnouncementService(store docstore.Store, cache *caching.DocumentCache, registry *listeners.Registry, stateStore *state.FileStore, logger *logging.ChanneledLogger, businessID string) *AnnouncementService {
	return &AnnouncementService{
		store:      store,
		cache:      cache,
		registry:   registry,
		stateStore: stateStore,
		logger:     logger,
		businessID: businessID,
		limit:      config.AnnouncementsLimit,
		nowFn:      time.Now,
	}
}

// GetAnnouncements returns active announcements, featured first, then
// newest first. Sorting happens here, not in the store query.
func (s *AnnouncementService) GetAnnouncements(ctx context.Context) ([]*menu.Announcement, error) {
	key := caching.BuildKey("announcements", s.businessID, nil)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*menu.Announcement), nil
	}

	docs, err := s.store.ListCollection(ctx, announcementsPath(s.businessID))
	if err != nil {
		return nil, menu.WrapTransport("GetAnnouncements", err)
	}

	announcements, err := s.decodeAnnouncements(docs)
	if err != nil {
		return nil, err
	}

	s.cache.Set(key, announcements, caching.TTLForCategory("announcements"))
	return announcements, nil
}

func (s *AnnouncementService) decodeAnnouncements(docs []docstore.Document) ([]*menu.Announcement, error) {
	announcements := []*menu.Announcement{}
	for _, doc := range docs {
		// Image and badge lists default to empty, not null, so the
		// JSON the client sees is always iterable.
		a := &menu.Announcement{Images: []string{}, Badges: []string{}}
		if err := doc.Decode(a); err != nil {
			return nil, fmt.Errorf("failed to decode announcement: %w", err)
		}
		if !a.IsActive {
			continue
		}
		announcements = append(announcements, a)
	}

	sort.SliceStable(announcements, func(i, j int) bool {
		if announcements[i].IsFeatured != announcements[j].IsFeatured {
			return announcements[i].IsFeatured
		}
		var ti, tj time.Time
		if announcements[i].CreatedAt != nil {
			ti = *announcements[i].CreatedAt
		}
		if announcements[j].CreatedAt != nil {
			tj = *announcements[j].CreatedAt
		}
		return ti.After(tj)
	})

	if len(announcements) > s.limit {
		announcements = announcements[:s.limit]
	}
	return announcements, nil
}

// SubscribeToAnnouncements registers a live subscription on the
// announcements list.
func (s *AnnouncementService) SubscribeToAnnouncements(ctx context.Context, fn func([]*menu.Announcement, error)) error {
	listenerKey := fmt.Sprintf("announcements-%s", s.businessID)
	cacheKey := caching.BuildKey("announcements", s.businessID, nil)

	cancel, err := s.store.Subscribe(ctx, announcementsPath(s.businessID), func(docs []docstore.Document, err error) {
		s.registry.Touch(listenerKey)
		if err != nil {
			fn(nil, menu.WrapTransport("SubscribeToAnnouncements", err))
			return
		}

		announcements, err := s.decodeAnnouncements(docs)
		if err != nil {
			fn(nil, err)
			return
		}
		s.cache.Set(cacheKey, announcements, caching.TTLForCategory("announcements"))
		fn(announcements, nil)
	})
	if err != nil {
		return menu.WrapTransport("SubscribeToAnnouncements", err)
	}

	s.registry.Register(listenerKey, cancel, listeners.Options{AutoCleanup: true, Priority: "low"})
	s.logger.Listeners().Debug("Announcements subscription active", "key", listenerKey)
	return nil
}

// FeaturedForToday returns the featured announcement to surface in
// the modal, or nil when there is none or it was already shown today.
func (s *AnnouncementService) FeaturedForToday(ctx context.Context) (*menu.Announcement, error) {
	announcements, err := s.GetAnnouncements(ctx)
	if err != nil {
		return nil, err
	}

	var featured *menu.Announcement
	for _, a := range announcements {
		if a.IsFeatured {
			featured = a
			break
		}
	}
	if featured == nil {
		return nil, nil
	}

	shown := map[string]string{}
	if _, err := s.stateStore.Get(featuredShownKey, &shown); err != nil {
		return nil, fmt.Errorf("failed to read featured-shown records: %w", err)
	}

	if shown[featured.ID] == s.today() {
		return nil, nil
	}
	return featured, nil
}

// MarkFeaturedShown records that the announcement was surfaced today,
// so it stays quiet until tomorrow.
func (s *AnnouncementService) MarkFeaturedShown(announcementID string) error {
	shown := map[string]string{}
	if _, err := s.stateStore.Get(featuredShownKey, &shown); err != nil {
		return fmt.Errorf("failed to read featured-shown records: %w", err)
	}

	shown[announcementID] = s.today()
	if err := s.stateStore.Set(featuredShownKey, shown); err != nil {
		return fmt.Errorf("failed to persist featured-shown records: %w", err)
	}
	return nil
}

func (s *AnnouncementService) today() string {
	return s.nowFn().Format("2006-01-02")
}
