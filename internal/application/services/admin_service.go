package services

import (
	"context"
	"fmt"

	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/caching"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/docstore"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/media"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/security"
)

// AdminService handles the write side: document upserts, deletions,
// and image uploads. Every successful write invalidates the affected
// cache entries so readers converge immediately instead of waiting
// out the TTL.
type AdminService struct {
	store      docstore.Store
	cache      *caching.DocumentCache
	images     *media.ImageProcessor
	logger     *logging.ChanneledLogger
	businessID string
}

func NewAdminService(store docstore.Store, cache *caching.DocumentCache, images *media.ImageProcessor, logger *logging.ChanneledLogger, businessID string) *AdminService {
	return &AdminService{
		store:      store,
		cache:      cache,
		images:     images,
		logger:     logger,
		businessID: businessID,
	}
}

// UpsertDocument writes data at the given collection path. An empty
// id gets a fresh ULID. Returns the document id.
func (s *AdminService) UpsertDocument(ctx context.Context, collectionPath, id string, data map[string]any) (string, error) {
	if id == "" {
		id = security.GenerateULID()
	}

	path := collectionPath + "/" + id
	if err := s.store.PutDocument(ctx, path, data); err != nil {
		return "", fmt.Errorf("failed to upsert document: %w", err)
	}

	removed := s.cache.Invalidate(s.businessID)
	s.logger.Store().Info("Document upserted",
		"path", path, "cacheInvalidated", removed)
	return id, nil
}

// DeleteDocument removes a document and invalidates caches.
func (s *AdminService) DeleteDocument(ctx context.Context, path string) error {
	if err := s.store.DeleteDocument(ctx, path); err != nil {
		return err
	}

	removed := s.cache.Invalidate(s.businessID)
	s.logger.Store().Info("Document deleted",
		"path", path, "cacheInvalidated", removed)
	return nil
}

// UploadImage saves a base64 data URI and returns the original URL
// plus generated thumbnail URLs.
func (s *AdminService) UploadImage(data, ownerID, kind string) (string, []string, error) {
	original, thumbs, err := s.images.ProcessUpload(data, ownerID, kind)
	if err != nil {
		s.logger.Media().Error("Image upload failed", "owner", ownerID, "error", err)
		return "", nil, err
	}

	s.logger.Media().Info("Image uploaded",
		"owner", ownerID, "original", original, "thumbnails", len(thumbs))
	return original, thumbs, nil
}

// InvalidateCaches drops all cached entries for the business. Exposed
// for the ops surface.
func (s *AdminService) InvalidateCaches(scope string) int {
	if scope == "" {
		scope = s.businessID
	}
	return s.cache.Invalidate(scope)
}
