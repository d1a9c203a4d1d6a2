// Package client is the Go consumer of the tradepost HTTP API. It keeps a
// durable session token on disk, tracks the authenticated state derived from
// it, and exposes typed calls for the marketplace endpoints.
package client

import (
	"os"
	"path/filepath"
	"sync"

	goerrors "github.com/goliatone/go-errors"
)

// Storage is a minimal durable key value store for session material. The
// token is treated as an opaque string, implementations never inspect it.
type Storage interface {
	ReadString(key string) (string, bool, error)
	WriteString(key, value string) error
	RemoveKey(key string) error
}

// FileStorage keeps each key in its own file under a private directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the backing directory if needed. Pass an empty dir
// to use the per user config location.
func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "unable to resolve config dir")
		}
		dir = filepath.Join(base, "tradepost")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "unable to create storage dir")
	}

	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key)
}

func (s *FileStorage) ReadString(key string) (string, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, goerrors.Wrap(err, goerrors.CategoryOperation, "unable to read storage key")
	}
	return string(data), true, nil
}

func (s *FileStorage) WriteString(key, value string) error {
	if err := os.WriteFile(s.path(key), []byte(value), 0o600); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to write storage key")
	}
	return nil
}

// RemoveKey is idempotent, removing a missing key is not an error.
func (s *FileStorage) RemoveKey(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "unable to remove storage key")
	}
	return nil
}

// MemoryStorage is an in process Storage, used in tests.
type MemoryStorage struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: map[string]string{}}
}

func (s *MemoryStorage) ReadString(key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *MemoryStorage) WriteString(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStorage) RemoveKey(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}
