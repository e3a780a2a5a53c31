package docstore

import (
	"context"
	"sort"
	"sync"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
)

// MemoryStore is a map-backed Store for tests and dev mode. It shares
// the notifier mechanics with SQLStore so subscription behavior is
// identical across backends.
type MemoryStore struct {
	mu       sync.RWMutex
	docs     map[string]Document
	byColl   map[string]map[string]struct{}
	notifier *notifier
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:     make(map[string]Document),
		byColl:   make(map[string]map[string]struct{}),
		notifier: newNotifier(),
	}
}

func (s *MemoryStore) GetDocument(ctx context.Context, path string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[path]
	if !ok {
		return Document{}, menu.ErrNotFound
	}
	return doc, nil
}

func (s *MemoryStore) ListCollection(ctx context.Context, path string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := []Document{}
	for docPath := range s.byColl[path] {
		docs = append(docs, s.docs[docPath])
	}
	// Listing order is id-ascending, matching the SQL backend, so
	// stable sorts downstream break ties the same way everywhere.
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
	return docs, nil
}

func (s *MemoryStore) PutDocument(ctx context.Context, path string, data map[string]any) error {
	collection, id := splitPath(path)

	s.mu.Lock()
	s.docs[path] = Document{ID: id, Path: path, Data: data}
	if s.byColl[collection] == nil {
		s.byColl[collection] = make(map[string]struct{})
	}
	s.byColl[collection][path] = struct{}{}
	s.mu.Unlock()

	s.notifier.publish(collection)
	return nil
}

func (s *MemoryStore) DeleteDocument(ctx context.Context, path string) error {
	collection, _ := splitPath(path)

	s.mu.Lock()
	if _, ok := s.docs[path]; !ok {
		s.mu.Unlock()
		return menu.ErrNotFound
	}
	delete(s.docs, path)
	delete(s.byColl[collection], path)
	s.mu.Unlock()

	s.notifier.publish(collection)
	return nil
}

func (s *MemoryStore) Subscribe(ctx context.Context, path string, fn SnapshotFunc) (CancelFunc, error) {
	docs, err := s.ListCollection(ctx, path)
	if err != nil {
		return nil, err
	}
	fn(docs, nil)

	detach := s.notifier.subscribe(path, func() {
		docs, err := s.ListCollection(ctx, path)
		fn(docs, err)
	})

	return CancelFunc(detach), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
