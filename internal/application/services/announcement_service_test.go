package services

import (
	"context"
	"testing"
	"time"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnnouncementFixture(t *testing.T) (*AnnouncementService, *fixture, *state.FileStore, func()) {
	f, mem := newFixture(t)
	stateStore := newTestStateStore(t)
	svc := NewAnnouncementService(f.store, f.cache, f.registry, stateStore, f.logger, testBusinessID)

	seed := func() {
		seedDoc(t, mem, "businesses/biz/announcements/a1", map[string]any{
			"title": "Old news", "isActive": true, "createdAt": "2026-08-01T10:00:00Z",
		})
		seedDoc(t, mem, "businesses/biz/announcements/a2", map[string]any{
			"title": "Fresh news", "isActive": true, "createdAt": "2026-08-20T10:00:00Z",
		})
		seedDoc(t, mem, "businesses/biz/announcements/a3", map[string]any{
			"title": "Big party", "isActive": true, "isFeatured": true, "createdAt": "2026-08-10T10:00:00Z",
		})
		seedDoc(t, mem, "businesses/biz/announcements/a4", map[string]any{
			"title": "Draft", "isActive": false, "isFeatured": true,
		})
	}
	return svc, f, stateStore, seed
}

func TestGetAnnouncementsFiltersAndSorts(t *testing.T) {
	svc, _, _, seed := newAnnouncementFixture(t)
	seed()

	announcements, err := svc.GetAnnouncements(context.Background())
	require.NoError(t, err)
	require.Len(t, announcements, 3, "inactive announcements filtered")

	assert.Equal(t, "Big party", announcements[0].Title, "featured first")
	assert.Equal(t, "Fresh news", announcements[1].Title, "then newest")
	assert.Equal(t, "Old news", announcements[2].Title)
}

func TestGetAnnouncementsDecodesPresentationFields(t *testing.T) {
	f, mem := newFixture(t)
	svc := NewAnnouncementService(f.store, f.cache, f.registry, newTestStateStore(t), f.logger, testBusinessID)

	seedDoc(t, mem, "businesses/biz/announcements/a1", map[string]any{
		"title": "Wine night", "isActive": true,
		"images":  []any{"a.webp", "b.webp"},
		"badges":  []any{"new", "2x1"},
		"url":     "https://example.com/wine",
		"urlText": "Book a table",
	})
	seedDoc(t, mem, "businesses/biz/announcements/a2", map[string]any{
		"title": "Plain", "isActive": true,
	})

	announcements, err := svc.GetAnnouncements(context.Background())
	require.NoError(t, err)
	require.Len(t, announcements, 2)

	byTitle := map[string]*menu.Announcement{}
	for _, a := range announcements {
		byTitle[a.Title] = a
	}

	wine := byTitle["Wine night"]
	require.NotNil(t, wine)
	assert.Equal(t, []string{"a.webp", "b.webp"}, wine.Images)
	assert.Equal(t, []string{"new", "2x1"}, wine.Badges)
	assert.Equal(t, "https://example.com/wine", wine.URL)
	assert.Equal(t, "Book a table", wine.URLText)

	plain := byTitle["Plain"]
	require.NotNil(t, plain)
	assert.NotNil(t, plain.Images, "missing image list decodes to empty, not null")
	assert.Empty(t, plain.Images)
	assert.NotNil(t, plain.Badges)
	assert.Empty(t, plain.Badges)
}

func TestGetAnnouncementsEmptyCollection(t *testing.T) {
	svc, _, _, _ := newAnnouncementFixture(t)

	announcements, err := svc.GetAnnouncements(context.Background())
	require.NoError(t, err)
	assert.Empty(t, announcements)
}

func TestFeaturedForTodayDedupsByDate(t *testing.T) {
	svc, _, _, seed := newAnnouncementFixture(t)
	seed()
	ctx := context.Background()

	day := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	svc.nowFn = func() time.Time { return day }

	featured, err := svc.FeaturedForToday(ctx)
	require.NoError(t, err)
	require.NotNil(t, featured)
	assert.Equal(t, "Big party", featured.Title)

	require.NoError(t, svc.MarkFeaturedShown(featured.ID))

	again, err := svc.FeaturedForToday(ctx)
	require.NoError(t, err)
	assert.Nil(t, again, "already shown today")

	// Next day it shows again
	day = day.Add(24 * time.Hour)
	tomorrow, err := svc.FeaturedForToday(ctx)
	require.NoError(t, err)
	require.NotNil(t, tomorrow)
	assert.Equal(t, "Big party", tomorrow.Title)
}

func TestFeaturedForTodayNoFeatured(t *testing.T) {
	svc, _, _, _ := newAnnouncementFixture(t)

	featured, err := svc.FeaturedForToday(context.Background())
	require.NoError(t, err)
	assert.Nil(t, featured)
}

func TestSubscribeToAnnouncementsRegistersListener(t *testing.T) {
	svc, f, _, seed := newAnnouncementFixture(t)
	seed()

	var latest []*menu.Announcement
	err := svc.SubscribeToAnnouncements(context.Background(), func(list []*menu.Announcement, err error) {
		require.NoError(t, err)
		latest = list
	})
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.True(t, f.registry.Has("announcements-biz"))
}
