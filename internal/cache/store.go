package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Entry is one cached response.
type Entry struct {
	Key  string // md5 of URL
	URL  string // clear-text request URL
	Data []byte // raw JSON body
}

// Stats summarises the contents of a store.
type Stats struct {
	Entries int
	Bytes   int64
}

// Store persists cached responses by key.
type Store interface {
	// Get returns the body stored under key; ok is false on a miss.
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	// Put stores an entry, replacing any previous body under the same key.
	Put(ctx context.Context, e Entry) error
	Stats(ctx context.Context) (Stats, error)
	Close() error
}

// FileStore keeps one <key>.json file per entry in a directory.
type FileStore struct {
	dir string
}

// NewFileStore creates the cache directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // Standard dir permissions
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the cache directory.
func (s *FileStore) Dir() string {
	return s.dir
}

// Path returns the file holding key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cache entry: %w", err)
	}
	return data, true, nil
}

func (s *FileStore) Put(_ context.Context, e Entry) error {
	if err := os.WriteFile(s.Path(e.Key), e.Data, 0o600); err != nil {
		return fmt.Errorf("failed to write to cache: %w", err)
	}
	return nil
}

func (s *FileStore) Stats(_ context.Context) (Stats, error) {
	var st Stats
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return st, fmt.Errorf("failed to list cache: %w", err)
	}
	for _, de := range entries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		st.Entries++
		st.Bytes += info.Size()
	}
	return st, nil
}

func (s *FileStore) Close() error {
	return nil
}
