// Package collection persists the user's list of saved games as a JSON array.
package collection

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/ryanm101/flashman/internal/catalog"
	"github.com/ryanm101/flashman/internal/logging"
	"github.com/ryanm101/flashman/internal/metrics"
)

// Store is the in-memory collection and its backing file. It is not safe
// for concurrent use.
type Store struct {
	path  string
	games []catalog.Record
}

// Open loads the collection at path. A missing file is an empty collection.
func Open(path string) (*Store, error) {
	s := &Store{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logging.Debug("no collection file, starting empty", "path", path)
		metrics.CollectionSize.Set(0)
		return s, nil
	}
	if err != nil {
		return nil, &CorruptStateError{Path: path, Err: err}
	}

	var games []catalog.Record
	if err := json.Unmarshal(data, &games); err != nil {
		return nil, &CorruptStateError{Path: path, Err: err}
	}
	s.games = games

	logging.Info("loaded collection", "path", path, "games", len(games))
	metrics.CollectionSize.Set(float64(len(games)))
	return s, nil
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// Len returns the number of games.
func (s *Store) Len() int {
	return len(s.games)
}

// Contains reports whether a record for the same game is stored.
func (s *Store) Contains(r catalog.Record) bool {
	return s.index(r) >= 0
}

// Snapshot returns a copy of the collection in insertion order.
func (s *Store) Snapshot() []catalog.Record {
	return slices.Clone(s.games)
}

// Add appends r and rewrites the file.
func (s *Store) Add(r catalog.Record) error {
	if r == nil || catalog.IsPlaceholder(r) {
		return &CollectionError{Op: "add", Err: ErrInvalidRecord}
	}
	if s.Contains(r) {
		return &CollectionError{Op: "add", Game: label(r), Err: ErrDuplicate}
	}

	s.games = append(s.games, r)
	if err := s.save(); err != nil {
		s.games = s.games[:len(s.games)-1]
		return &CollectionError{Op: "add", Game: label(r), Err: err}
	}

	logging.Info("added game to collection", "id", r.ID(), "title", r.Title())
	metrics.CollectionSize.Set(float64(len(s.games)))
	return nil
}

// Remove deletes the stored record for the same game as r and rewrites the file.
func (s *Store) Remove(r catalog.Record) error {
	i := s.index(r)
	if i < 0 {
		return &CollectionError{Op: "remove", Game: label(r), Err: ErrNotFound}
	}

	prev := s.games
	s.games = slices.Delete(slices.Clone(prev), i, i+1)
	if err := s.save(); err != nil {
		s.games = prev
		return &CollectionError{Op: "remove", Game: label(r), Err: err}
	}

	logging.Info("removed game from collection", "id", r.ID(), "title", r.Title())
	metrics.CollectionSize.Set(float64(len(s.games)))
	return nil
}

// Filter returns the games whose title contains text, ignoring case.
// An empty text returns the whole collection.
func (s *Store) Filter(text string) []catalog.Record {
	if text == "" {
		return s.Snapshot()
	}
	fold := cases.Fold()
	needle := fold.String(text)

	var out []catalog.Record
	for _, g := range s.games {
		if strings.Contains(fold.String(g.Title()), needle) {
			out = append(out, g)
		}
	}
	return out
}

func (s *Store) index(r catalog.Record) int {
	return slices.IndexFunc(s.games, func(g catalog.Record) bool {
		return catalog.SameGame(g, r)
	})
}

// save rewrites the whole collection file.
func (s *Store) save() error {
	games := s.games
	if games == nil {
		games = []catalog.Record{}
	}
	data, err := json.MarshalIndent(games, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil { //nolint:gosec // Standard dir permissions
			return fmt.Errorf("failed to create collection directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil { //nolint:gosec // User data, not secret
		return fmt.Errorf("failed to write collection: %w", err)
	}
	return nil
}

func label(r catalog.Record) string {
	if id := r.ID(); id != "" {
		return id
	}
	return r.Title()
}
