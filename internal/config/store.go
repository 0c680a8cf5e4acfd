package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	pcerrors "github.com/zhubert/chatmodal/internal/errors"
)

// Store is a small persistent key/value file, the terminal counterpart of
// browser local storage. A Store with no file path keeps values in memory.
type Store struct {
	mu       sync.RWMutex
	values   map[string]string
	filePath string
}

// StorePath returns the default storage file path.
func StorePath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "storage.json"), nil
}

// NewMemoryStore returns a Store that is never written to disk.
func NewMemoryStore() *Store {
	return &Store{values: make(map[string]string)}
}

// OpenStore loads the storage file at path. A missing file yields an empty
// store that will be created on the first Set.
func OpenStore(path string) (*Store, error) {
	s := &Store{values: make(map[string]string), filePath: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, pcerrors.ConfigLoadFailed(path, err)
	}
	if len(data) == 0 {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.values); err != nil {
		return nil, pcerrors.ConfigLoadFailed(path, err)
	}
	if s.values == nil {
		s.values = make(map[string]string)
	}
	return s, nil
}

// Get returns the value stored under key.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores value under key and persists the store.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	if err := s.saveLocked(); err != nil {
		return pcerrors.StorageWriteFailed(key, err)
	}
	return nil
}

// Remove deletes key and persists the store.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	if err := s.saveLocked(); err != nil {
		return pcerrors.StorageWriteFailed(key, err)
	}
	return nil
}

func (s *Store) saveLocked() error {
	if s.filePath == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, s.filePath)
}
