package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/GrooveMedia/groove-menu-go/internal/domain/entities/menu"
	"github.com/GrooveMedia/groove-menu-go/internal/infrastructure/observability/logging"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
)

// Config selects the SQL backend. Turso is used when both the database
// URL and token are present, otherwise a local SQLite file.
type Config struct {
	TursoDatabase string
	TursoToken    string
	SQLitePath    string
}

// SQLStore keeps documents in a single table keyed by path, with the
// JSON payload stored as text. Writes publish to the notifier so live
// subscriptions see them.
type SQLStore struct {
	conn     *sql.DB
	notifier *notifier
	logger   *logging.ChanneledLogger
	useTurso bool
}

func NewSQLStore(cfg *Config, logger *logging.ChanneledLogger) (*SQLStore, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	if cfg.TursoDatabase != "" && cfg.TursoToken != "" {
		connStr := cfg.TursoDatabase + "?authToken=" + cfg.TursoToken
		conn, err = sql.Open("libsql", connStr)
		if err != nil {
			return nil, fmt.Errorf("turso connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("turso ping failed: %w", err)
		}
		useTurso = true
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		conn, err = sql.Open("sqlite3", cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection failed: %w", err)
		}
		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("sqlite ping failed: %w", err)
		}
	}

	conn.SetMaxOpenConns(10)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(30 * time.Minute)

	store := &SQLStore{
		conn:     conn,
		notifier: newNotifier(),
		logger:   logger,
		useTurso: useTurso,
	}

	if err := store.ensureSchema(); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Store().Info("Document store ready", "backend", store.Backend())
	return store, nil
}

// Backend names the active SQL backend for startup logging.
func (s *SQLStore) Backend() string {
	if s.useTurso {
		return "turso"
	}
	return "sqlite"
}

func (s *SQLStore) ensureSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS documents (
			path TEXT PRIMARY KEY,
			collection TEXT NOT NULL,
			doc_id TEXT NOT NULL,
			data TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create documents schema: %w", err)
	}
	return nil
}

func (s *SQLStore) GetDocument(ctx context.Context, path string) (Document, error) {
	start := time.Now()

	var raw string
	var id string
	err := s.conn.QueryRowContext(ctx,
		"SELECT doc_id, data FROM documents WHERE path = ?", path).Scan(&id, &raw)
	if err == sql.ErrNoRows {
		return Document{}, menu.ErrNotFound
	}
	if err != nil {
		s.logger.Store().Error("Document read failed", "path", path, "error", err)
		return Document{}, fmt.Errorf("failed to read document %s: %w", path, err)
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return Document{}, fmt.Errorf("corrupt document payload at %s: %w", path, err)
	}

	s.logger.Store().Debug("Document read", "path", path, "duration", time.Since(start))
	return Document{ID: id, Path: path, Data: data}, nil
}

func (s *SQLStore) ListCollection(ctx context.Context, path string) ([]Document, error) {
	start := time.Now()

	rows, err := s.conn.QueryContext(ctx,
		"SELECT path, doc_id, data FROM documents WHERE collection = ? ORDER BY doc_id", path)
	if err != nil {
		s.logger.Store().Error("Collection read failed", "path", path, "error", err)
		return nil, fmt.Errorf("failed to list collection %s: %w", path, err)
	}
	defer rows.Close()

	docs := []Document{}
	for rows.Next() {
		var docPath, id, raw string
		if err := rows.Scan(&docPath, &id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		var data map[string]any
		if err := json.Unmarshal([]byte(raw), &data); err != nil {
			return nil, fmt.Errorf("corrupt document payload at %s: %w", docPath, err)
		}
		docs = append(docs, Document{ID: id, Path: docPath, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate collection %s: %w", path, err)
	}

	s.logger.Store().Debug("Collection read", "path", path, "count", len(docs), "duration", time.Since(start))
	return docs, nil
}

func (s *SQLStore) PutDocument(ctx context.Context, path string, data map[string]any) error {
	collection, id := splitPath(path)

	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode document %s: %w", path, err)
	}

	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO documents (path, collection, doc_id, data, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		path, collection, id, string(raw), time.Now().Unix())
	if err != nil {
		s.logger.Store().Error("Document write failed", "path", path, "error", err)
		return fmt.Errorf("failed to write document %s: %w", path, err)
	}

	s.notifier.publish(collection)
	return nil
}

func (s *SQLStore) DeleteDocument(ctx context.Context, path string) error {
	collection, _ := splitPath(path)

	result, err := s.conn.ExecContext(ctx, "DELETE FROM documents WHERE path = ?", path)
	if err != nil {
		return fmt.Errorf("failed to delete document %s: %w", path, err)
	}
	if affected, _ := result.RowsAffected(); affected == 0 {
		return menu.ErrNotFound
	}

	s.notifier.publish(collection)
	return nil
}

func (s *SQLStore) Subscribe(ctx context.Context, path string, fn SnapshotFunc) (CancelFunc, error) {
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

func (s *SQLStore) Close() error {
	return s.conn.Close()
}
