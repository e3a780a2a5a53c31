package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/caching"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/docstore"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/listeners"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/state"
	"github.com/stretchr/testify/require"
)

const testBusinessID = "biz"

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToFile:    false,
		OutputToConsole: false,
		JSONFormat:      true,
		DefaultLevel:    slog.LevelError,
		ChannelLevels:   map[logging.Channel]slog.Level{},
	})
	require.NoError(t, err)
	return logger
}

func newTestStateStore(t *testing.T) *state.FileStore {
	t.Helper()
	store, err := state.NewFileStore(t.TempDir())
	require.NoError(t, err)
	return store
}

// countingStore wraps a Store and counts reads per path so tests can
// assert cache behavior.
type countingStore struct {
	docstore.Store
	mu    sync.Mutex
	lists map[string]int
	gets  map[string]int
}

func newCountingStore(inner docstore.Store) *countingStore {
	return &countingStore{
		Store: inner,
		lists: make(map[string]int),
		gets:  make(map[string]int),
	}
}

func (s *countingStore) ListCollection(ctx context.Context, path string) ([]docstore.Document, error) {
	s.mu.Lock()
	s.lists[path]++
	s.mu.Unlock()
	return s.Store.ListCollection(ctx, path)
}

func (s *countingStore) GetDocument(ctx context.Context, path string) (docstore.Document, error) {
	s.mu.Lock()
	s.gets[path]++
	s.mu.Unlock()
	return s.Store.GetDocument(ctx, path)
}

func (s *countingStore) listCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lists[path]
}

type fixture struct {
	store    *countingStore
	cache    *caching.DocumentCache
	registry *listeners.Registry
	logger   *logging.ChanneledLogger
}

func newFixture(t *testing.T) (*fixture, *docstore.MemoryStore) {
	t.Helper()
	mem := docstore.NewMemoryStore()
	f := &fixture{
		store:    newCountingStore(mem),
		cache:    caching.NewDocumentCache(100),
		registry: listeners.NewRegistry(5*time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil))),
		logger:   newTestLogger(t),
	}
	return f, mem
}

func (f *fixture) menuService() *MenuService {
	return NewMenuService(f.store, f.cache, f.registry, f.logger, testBusinessID)
}

func (f *fixture) businessService() *BusinessService {
	return NewBusinessService(f.store, f.cache, f.registry, f.logger, testBusinessID)
}

func seedDoc(t *testing.T, store *docstore.MemoryStore, path string, data map[string]any) {
	t.Helper()
	require.NoError(t, store.PutDocument(context.Background(), path, data))
}
