package session

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/zhubert/chatmodal/internal/logger"
)

// Storage is the persistent key/value store the session id lives in.
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
}

// Store hands out session ids backed by Storage.
type Store struct {
	storage Storage
	key     string
	newID   func() string
	log     *slog.Logger
}

// NewStore returns a Store reading and writing key in storage.
func NewStore(storage Storage, key string) *Store {
	return &Store{
		storage: storage,
		key:     key,
		newID:   uuid.NewString,
		log:     logger.WithComponent("session"),
	}
}

// Key returns the storage key holding the session id.
func (s *Store) Key() string {
	return s.key
}

// GetOrCreate returns provided when non-empty. Otherwise it returns the
// stored id, creating and persisting one if none exists.
func (s *Store) GetOrCreate(provided string) string {
	if provided != "" {
		return provided
	}
	if id, ok := s.storage.Get(s.key); ok && id != "" {
		return id
	}
	return s.CreateNew()
}

// CreateNew always generates a new id and persists it.
func (s *Store) CreateNew() string {
	id := s.newID()
	s.persist(id)
	s.log.Info("created session", "sessionID", id)
	return id
}

// Select persists an id chosen by the user.
func (s *Store) Select(id string) {
	if id == "" {
		return
	}
	s.persist(id)
}

// Forget removes the stored id so the next GetOrCreate starts fresh.
func (s *Store) Forget() error {
	return s.storage.Remove(s.key)
}

func (s *Store) persist(id string) {
	if err := s.storage.Set(s.key, id); err != nil {
		s.log.Warn("failed to persist session id", "sessionID", id, "error", err)
	}
}
