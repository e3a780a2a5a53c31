// Package docstore provides the document store behind the menu data
// gateway. Documents live at slash-separated paths, with collections
// holding documents and documents holding sub-collections, so the same
// layout works for both the legacy and the multi-menu schema.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Document is a stored record with its JSON payload decoded to a map.
type Document struct {
	ID   string
	Path string
	Data map[string]any
}

// Decode unmarshals the document payload into v and injects the
// document id under the "id" key when v carries one.
func (d Document) Decode(v any) error {
	merged := make(map[string]any, len(d.Data)+1)
	for k, val := range d.Data {
		merged[k] = val
	}
	merged["id"] = d.ID

	raw, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", d.Path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode document %s: %w", d.Path, err)
	}
	return nil
}

// SnapshotFunc receives collection snapshots on a live subscription.
// A delivery error does not tear the subscription down.
type SnapshotFunc func(docs []Document, err error)

// CancelFunc detaches a subscription. Safe to call more than once.
type CancelFunc func()

// Store is the narrow surface the gateway talks to. Reads on missing
// documents return menu.ErrNotFound via the implementations; listing
// an empty or absent collection returns an empty slice, not an error.
type Store interface {
	GetDocument(ctx context.Context, path string) (Document, error)
	ListCollection(ctx context.Context, path string) ([]Document, error)
	PutDocument(ctx context.Context, path string, data map[string]any) error
	DeleteDocument(ctx context.Context, path string) error

	// Subscribe watches a collection path. The initial snapshot is
	// delivered before Subscribe returns.
	Subscribe(ctx context.Context, path string, fn SnapshotFunc) (CancelFunc, error)

	Close() error
}

// splitPath separates a document path into its collection and id.
func splitPath(path string) (collection, id string) {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}
