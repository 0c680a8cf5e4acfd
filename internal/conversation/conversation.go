// Package conversation lists a user's past conversations and deletes them.
package conversation

import (
	"context"
	"log/slog"
	"strconv"
	"sync"

	"github.com/zhubert/chatmodal/internal/backend"
	pcerrors "github.com/zhubert/chatmodal/internal/errors"
	"github.com/zhubert/chatmodal/internal/logger"
	"github.com/zhubert/chatmodal/internal/query"
)

// Item is one conversation as shown in the sidebar.
type Item struct {
	SessionID      string
	Title          string
	ConversationID int64
}

// Source is the backend surface this package uses.
type Source interface {
	FetchConversations(ctx context.Context, userID int) ([]backend.Conversation, error)
	DeleteConversation(ctx context.Context, conversationID int64) error
}

// ListRoot is the cache key prefix shared by every user's list.
var ListRoot = query.Key{"chatList"}

// ListKey is the cache key of userID's list.
func ListKey(userID int) query.Key {
	return query.Key{"chatList", strconv.Itoa(userID)}
}

// ErrDeleteInFlight is returned when the same conversation is already being
// deleted.
var ErrDeleteInFlight = pcerrors.E(pcerrors.Op("conversation.Delete"), pcerrors.KindInvalid, "delete already in progress")

// Service reads the conversation list and performs deletes.
type Service struct {
	source Source
	cache  *query.Client
	log    *slog.Logger

	mu      sync.Mutex
	pending map[int64]bool
}

// NewService returns a Service.
func NewService(source Source, cache *query.Client) *Service {
	return &Service{
		source:  source,
		cache:   cache,
		log:     logger.WithComponent("conversation"),
		pending: make(map[int64]bool),
	}
}

// List returns userID's conversations. On failure the last known list (or
// nil) is returned together with the error, which has already been logged.
func (s *Service) List(ctx context.Context, userID int) ([]Item, error) {
	items, err := query.Fetch(ctx, s.cache, ListKey(userID), func(ctx context.Context) ([]Item, error) {
		convs, err := s.source.FetchConversations(ctx, userID)
		if err != nil {
			return nil, err
		}
		return toItems(convs), nil
	})
	if err != nil {
		s.log.Error("failed to load conversation list", "userID", userID, "error", err, "stale", len(items))
	}
	return items, err
}

// Cached returns the last known list for userID without I/O.
func (s *Service) Cached(userID int) ([]Item, bool) {
	return query.Peek[[]Item](s.cache, ListKey(userID))
}

// Invalidate marks every cached list stale.
func (s *Service) Invalidate() {
	s.cache.Invalidate(ListRoot)
}

// Delete removes a conversation. On success every cached list is
// invalidated. Deletes of different conversations may overlap; a second
// delete of the same one while the first is running fails with
// ErrDeleteInFlight.
func (s *Service) Delete(ctx context.Context, conversationID int64) error {
	s.mu.Lock()
	if s.pending[conversationID] {
		s.mu.Unlock()
		return ErrDeleteInFlight
	}
	s.pending[conversationID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.pending, conversationID)
		s.mu.Unlock()
	}()

	if err := s.source.DeleteConversation(ctx, conversationID); err != nil {
		s.log.Warn("delete failed", "conversationID", conversationID, "error", err)
		return err
	}
	s.cache.Invalidate(ListRoot)
	return nil
}

// Deleting reports whether a delete of conversationID is in flight.
func (s *Service) Deleting(conversationID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending[conversationID]
}

// Contains reports whether items holds a conversation for sessionID.
func Contains(items []Item, sessionID string) bool {
	for _, it := range items {
		if it.SessionID == sessionID {
			return true
		}
	}
	return false
}

func toItems(convs []backend.Conversation) []Item {
	items := make([]Item, len(convs))
	for i, c := range convs {
		items[i] = Item{SessionID: c.IDSesion, Title: c.Titulo, ConversationID: c.ID}
	}
	return items
}
