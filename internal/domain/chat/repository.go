package chat

import "context"

// Repository persists conversations and their turns.
//
// Implementations must return conversations newest-first from
// ListConversations and turns in chronological order (creation time, then ID)
// from ListTurns. DeleteConversation removes the conversation together with
// all of its turns.
type Repository interface {
	CreateConversation(ctx context.Context, userID int64, title string) (Conversation, error)
	ListConversations(ctx context.Context, userID int64) ([]Conversation, error)
	GetConversation(ctx context.Context, id int64) (Conversation, bool, error)
	UpdateTitle(ctx context.Context, id int64, title string) error
	DeleteConversation(ctx context.Context, id int64) error

	AppendTurn(ctx context.Context, turn Turn) (Turn, error)
	ListTurns(ctx context.Context, conversationID int64) ([]Turn, error)
}
