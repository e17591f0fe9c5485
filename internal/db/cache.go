package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetCacheEntry returns the body stored under key. ok is false when absent.
func (db *DB) GetCacheEntry(ctx context.Context, key string) ([]byte, bool, error) {
	var body []byte
	err := db.conn.QueryRowContext(ctx, "SELECT body FROM cache_entries WHERE key = ?", key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cache entry: %w", err)
	}
	return body, true, nil
}

// PutCacheEntry stores body under key, replacing an existing row.
func (db *DB) PutCacheEntry(ctx context.Context, key, url string, body []byte) error {
	query := `
		INSERT INTO cache_entries (key, url, body, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			url = excluded.url,
			body = excluded.body,
			created_at = CURRENT_TIMESTAMP
	`
	if _, err := db.conn.ExecContext(ctx, query, key, url, body); err != nil {
		return fmt.Errorf("failed to save cache entry: %w", err)
	}
	return nil
}

// CacheStats returns the number of entries and their total body size.
func (db *DB) CacheStats(ctx context.Context) (entries int, bytes int64, err error) {
	err = db.conn.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(SUM(LENGTH(body)), 0) FROM cache_entries",
	).Scan(&entries, &bytes)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to count cache entries: %w", err)
	}
	return entries, bytes, nil
}
