package chatstore

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/climalab/clima-chat/internal/domain/chat"
)

// PostgresStore implements chat.Repository using pgx.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the chat tables when they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS conversations (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			title TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS conversations_user_id_idx ON conversations (user_id);
		CREATE TABLE IF NOT EXISTS turns (
			id BIGSERIAL PRIMARY KEY,
			conversation_id BIGINT NOT NULL REFERENCES conversations (id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			from_weather BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS turns_conversation_id_idx ON turns (conversation_id);
	`)
	return err
}

// CreateConversation inserts a new conversation row.
func (s *PostgresStore) CreateConversation(ctx context.Context, userID int64, title string) (chat.Conversation, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO conversations (user_id, title)
		VALUES ($1, $2)
		RETURNING id, user_id, title, created_at, updated_at
	`, userID, title)
	return scanConversation(row)
}

// ListConversations fetches a user's conversations newest first.
func (s *PostgresStore) ListConversations(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chat.Conversation, 0)
	for rows.Next() {
		conv, err := scanConversation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, conv)
	}
	return out, rows.Err()
}

// GetConversation fetches one conversation by ID.
func (s *PostgresStore) GetConversation(ctx context.Context, id int64) (chat.Conversation, bool, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, title, created_at, updated_at
		FROM conversations
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return chat.Conversation{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return chat.Conversation{}, false, rows.Err()
	}
	conv, err := scanConversation(rows)
	if err != nil {
		return chat.Conversation{}, false, err
	}
	return conv, true, rows.Err()
}

// UpdateTitle renames a conversation and bumps its updated_at.
func (s *PostgresStore) UpdateTitle(ctx context.Context, id int64, title string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE conversations
		SET title = $2, updated_at = now()
		WHERE id = $1
	`, id, title)
	return err
}

// DeleteConversation removes a conversation; turns cascade.
func (s *PostgresStore) DeleteConversation(ctx context.Context, id int64) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	return err
}

// AppendTurn inserts a turn row.
func (s *PostgresStore) AppendTurn(ctx context.Context, turn chat.Turn) (chat.Turn, error) {
	row := s.pool.QueryRow(ctx, `
		INSERT INTO turns (conversation_id, role, content, from_weather)
		VALUES ($1, $2, $3, $4)
		RETURNING id, conversation_id, role, content, from_weather, created_at
	`, turn.ConversationID, string(turn.Role), turn.Content, turn.FromWeather)
	return scanTurn(row)
}

// ListTurns fetches a conversation's turns in chronological order.
func (s *PostgresStore) ListTurns(ctx context.Context, conversationID int64) ([]chat.Turn, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, conversation_id, role, content, from_weather, created_at
		FROM turns
		WHERE conversation_id = $1
		ORDER BY created_at ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chat.Turn, 0)
	for rows.Next() {
		turn, err := scanTurn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, turn)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversation(row rowScanner) (chat.Conversation, error) {
	var conv chat.Conversation
	if err := row.Scan(&conv.ID, &conv.UserID, &conv.Title, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return chat.Conversation{}, err
	}
	return conv, nil
}

func scanTurn(row rowScanner) (chat.Turn, error) {
	var (
		turn chat.Turn
		role string
	)
	if err := row.Scan(&turn.ID, &turn.ConversationID, &role, &turn.Content, &turn.FromWeather, &turn.CreatedAt); err != nil {
		return chat.Turn{}, err
	}
	turn.Role = chat.Role(role)
	return turn, nil
}

var _ chat.Repository = (*PostgresStore)(nil)
