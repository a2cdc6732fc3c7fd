package chatstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/climalab/clima-chat/internal/domain/chat"
)

// MemoryStore is an in-memory chat.Repository used for tests/dev.
type MemoryStore struct {
	mu         sync.RWMutex
	nextConvID int64
	nextTurnID int64

	conversations map[int64]chat.Conversation
	turns         map[int64][]chat.Turn

	now func() time.Time
}

// NewMemoryStore constructs a store backed by memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextConvID:    1,
		nextTurnID:    1,
		conversations: make(map[int64]chat.Conversation),
		turns:         make(map[int64][]chat.Turn),
		now:           time.Now,
	}
}

// CreateConversation implements chat.Repository.
func (s *MemoryStore) CreateConversation(_ context.Context, userID int64, title string) (chat.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	conv := chat.Conversation{
		ID:        s.nextConvID,
		UserID:    userID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.nextConvID++
	s.conversations[conv.ID] = conv
	return conv, nil
}

// ListConversations implements chat.Repository. Newest first.
func (s *MemoryStore) ListConversations(_ context.Context, userID int64) ([]chat.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]chat.Conversation, 0)
	for _, conv := range s.conversations {
		if conv.UserID == userID {
			out = append(out, conv)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetConversation implements chat.Repository.
func (s *MemoryStore) GetConversation(_ context.Context, id int64) (chat.Conversation, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conv, ok := s.conversations[id]
	return conv, ok, nil
}

// UpdateTitle implements chat.Repository.
func (s *MemoryStore) UpdateTitle(_ context.Context, id int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	conv, ok := s.conversations[id]
	if !ok {
		return nil
	}
	conv.Title = title
	conv.UpdatedAt = s.now()
	s.conversations[id] = conv
	return nil
}

// DeleteConversation implements chat.Repository. Turns go with it.
func (s *MemoryStore) DeleteConversation(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.conversations, id)
	delete(s.turns, id)
	return nil
}

// AppendTurn implements chat.Repository.
func (s *MemoryStore) AppendTurn(_ context.Context, turn chat.Turn) (chat.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn.ID = s.nextTurnID
	s.nextTurnID++
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = s.now()
	}
	s.turns[turn.ConversationID] = append(s.turns[turn.ConversationID], turn)
	return turn, nil
}

// ListTurns implements chat.Repository. Chronological order.
func (s *MemoryStore) ListTurns(_ context.Context, conversationID int64) ([]chat.Turn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	turns := append([]chat.Turn(nil), s.turns[conversationID]...)
	sort.SliceStable(turns, func(i, j int) bool {
		if turns[i].CreatedAt.Equal(turns[j].CreatedAt) {
			return turns[i].ID < turns[j].ID
		}
		return turns[i].CreatedAt.Before(turns[j].CreatedAt)
	})
	return turns, nil
}

var _ chat.Repository = (*MemoryStore)(nil)
