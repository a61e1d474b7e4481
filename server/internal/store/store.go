package store

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/oeeboard/oeeboard/pkg/types"
)

// Entry is a computed table together with when and how it was loaded.
type Entry struct {
	Source   string
	Table    types.Table
	LoadID   string
	LoadedAt time.Time
}

// LoadFunc produces the computed table for a source.
type LoadFunc func() (types.Table, error)

// Store is a thread-safe dataset cache keyed by source. Failed loads are
// not cached, but the most recent failure per source is kept for reporting.
type Store struct {
	mu    sync.RWMutex
	data  map[string]*Entry
	errs  map[string]error
	group singleflight.Group
	now   func() time.Time // injectable for deterministic tests
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		data: make(map[string]*Entry),
		errs: make(map[string]error),
		now:  time.Now,
	}
}

// SourceKey normalises a source path into a cache key. Relative paths are
// resolved against the working directory.
func SourceKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// GetOrLoad returns the cached entry for source, calling load to build it
// on the first request. Concurrent callers for the same source share one
// call to load. A failed load is returned to every waiting caller and is
// retried on the next GetOrLoad.
func (s *Store) GetOrLoad(source string, load LoadFunc) (*Entry, error) {
	if e, ok := s.Get(source); ok {
		return e, nil
	}

	v, err, shared := s.group.Do(source, func() (interface{}, error) {
		if e, ok := s.Get(source); ok {
			return e, nil
		}
		t, err := load()
		if err != nil {
			s.mu.Lock()
			s.errs[source] = err
			s.mu.Unlock()
			return nil, err
		}
		return s.Put(source, t), nil
	})
	if err != nil {
		return nil, fmt.Errorf("store: load %q: %w", source, err)
	}
	if shared {
		slog.Debug("store: shared in-flight load", "source", source)
	}
	return v.(*Entry), nil
}

// Put stores table under source, replacing any previous entry, and returns
// the new Entry. Callers must not modify t after calling Put.
func (s *Store) Put(source string, t types.Table) *Entry {
	e := &Entry{
		Source:   source,
		Table:    t,
		LoadID:   uuid.NewString(),
		LoadedAt: s.now(),
	}
	s.mu.Lock()
	s.data[source] = e
	delete(s.errs, source)
	s.mu.Unlock()

	slog.Info("store: dataset cached", "source", source, "rows", len(t), "load_id", e.LoadID)
	return e
}

// Get returns the Entry for source and whether one was found.
func (s *Store) Get(source string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.data[source]
	return e, ok
}

// Err returns the most recent load failure for source, or nil.
func (s *Store) Err(source string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errs[source]
}
