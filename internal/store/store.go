// Package store persists run artifacts - screenshots and raw results HTML
// kept around for debugging a scrape. Departure data itself is never stored.
package store

import (
	"os"
	"path/filepath"
	"sync"
)

// Store is a write-only sink for run artifacts.
type Store interface {
	Put(name string, data []byte) error
	Close() error
}

// Local is a directory-backed implementation of Store.
type Local struct {
	dir string
	mu  sync.Mutex
}

// NewLocal creates a Local store rooted at the specified directory,
// creating it if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Local{dir: dir}, nil
}

// Put writes an artifact, replacing any previous one with the same name.
func (s *Local) Put(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return os.WriteFile(filepath.Join(s.dir, name), data, 0644)
}

// Close is a no-op for the directory-backed store.
func (s *Local) Close() error {
	return nil
}
