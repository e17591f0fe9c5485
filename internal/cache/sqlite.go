package cache

import (
	"context"
	"fmt"

	"github.com/ryanm101/flashman/internal/db"
)

// SQLiteStore keeps entries in the cache_entries table of a flashman database.
type SQLiteStore struct {
	db *db.DB
}

// OpenSQLiteStore opens (and migrates) the database at path.
func OpenSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	database, err := db.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	return &SQLiteStore{db: database}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.db.GetCacheEntry(ctx, key)
}

func (s *SQLiteStore) Put(ctx context.Context, e Entry) error {
	return s.db.PutCacheEntry(ctx, e.Key, e.URL, e.Data)
}

func (s *SQLiteStore) Stats(ctx context.Context) (Stats, error) {
	n, size, err := s.db.CacheStats(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{Entries: n, Bytes: size}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// OpenStore opens the store named by backend: "file" (default) or "sqlite".
func OpenStore(ctx context.Context, backend, dir, dbPath string) (Store, error) {
	switch backend {
	case "", "file":
		return NewFileStore(dir)
	case "sqlite":
		return OpenSQLiteStore(ctx, dbPath)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
