package services

import (
	"context"
	"fmt"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/caching"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/docstore"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/listeners"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
)

// BusinessService serves business profile reads and the business-info
// live subscription.
type BusinessService struct {
	store      docstore.Store
	cache      *caching.DocumentCache
	registry   *listeners.Registry
	logger     *logging.ChanneledLogger
	businessID string
}

func NewBusinessService(store docstore.Store, cache *caching.DocumentCache, registry *listeners.Registry, logger *logging.ChanneledLogger, businessID string) *BusinessService {
	return &BusinessService{
		store:      store,
		cache:      cache,
		registry:   registry,
		logger:     logger,
		businessID: businessID,
	}
}

// GetBusinessInfo returns the business profile, cache-first.
func (s *BusinessService) GetBusinessInfo(ctx context.Context) (*menu.BusinessInfo, error) {
	key := caching.BuildKey("business-info", s.businessID, nil)
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*menu.BusinessInfo), nil
	}

	doc, err := s.store.GetDocument(ctx, businessPath(s.businessID))
	if err != nil {
		return nil, menu.WrapTransport("GetBusinessInfo", err)
	}

	info := &menu.BusinessInfo{}
	if err := doc.Decode(info); err != nil {
		return nil, fmt.Errorf("failed to decode business info: %w", err)
	}

	s.cache.Set(key, info, caching.TTLForCategory("business-info"))
	return info, nil
}

// SubscribeToBusinessInfo registers a live subscription delivering the
// profile on every store change. A delivery error reaches the callback
// without tearing the subscription down.
func (s *BusinessService) SubscribeToBusinessInfo(ctx context.Context, fn func(*menu.BusinessInfo, error)) error {
	listenerKey := fmt.Sprintf("business-info-%s", s.businessID)
	cacheKey := caching.BuildKey("business-info", s.businessID, nil)

	cancel, err := s.store.Subscribe(ctx, businessesCollection(), func(docs []docstore.Document, err error) {
		s.registry.Touch(listenerKey)
		if err != nil {
			fn(nil, menu.WrapTransport("SubscribeToBusinessInfo", err))
			return
		}

		for _, doc := range docs {
			if doc.ID != s.businessID {
				continue
			}
			info := &menu.BusinessInfo{}
			if err := doc.Decode(info); err != nil {
				fn(nil, fmt.Errorf("failed to decode business info: %w", err))
				return
			}
			s.cache.Set(cacheKey, info, caching.TTLForCategory("business-info"))
			fn(info, nil)
			return
		}
		fn(nil, menu.ErrNotFound)
	})
	if err != nil {
		return menu.WrapTransport("SubscribeToBusinessInfo", err)
	}

	s.registry.Register(listenerKey, cancel, listeners.Options{AutoCleanup: true, Priority: "high"})
	s.logger.Listeners().Debug("Business info subscription active", "key", listenerKey)
	return nil
}
