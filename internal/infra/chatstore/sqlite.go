package chatstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/climalab/clima-chat/internal/domain/chat"
)

type conversationRow struct {
	ID        int64 `gorm:"primaryKey"`
	UserID    int64 `gorm:"index"`
	Title     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (conversationRow) TableName() string { return "conversations" }

type turnRow struct {
	ID             int64 `gorm:"primaryKey"`
	ConversationID int64 `gorm:"index"`
	Role           string
	Content        string
	FromWeather    bool
	CreatedAt      time.Time
}

func (turnRow) TableName() string { return "turns" }

// SQLiteStore implements chat.Repository on a local SQLite file via GORM.
type SQLiteStore struct {
	db *gorm.DB
}

// NewSQLiteStore migrates the chat tables on the shared GORM handle.
func NewSQLiteStore(db *gorm.DB) (*SQLiteStore, error) {
	if err := db.AutoMigrate(&conversationRow{}, &turnRow{}); err != nil {
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// CreateConversation implements chat.Repository.
func (s *SQLiteStore) CreateConversation(ctx context.Context, userID int64, title string) (chat.Conversation, error) {
	row := conversationRow{UserID: userID, Title: title}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return chat.Conversation{}, err
	}
	return toConversation(row), nil
}

// ListConversations implements chat.Repository. Newest first.
func (s *SQLiteStore) ListConversations(ctx context.Context, userID int64) ([]chat.Conversation, error) {
	var rows []conversationRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]chat.Conversation, 0, len(rows))
	for _, row := range rows {
		out = append(out, toConversation(row))
	}
	return out, nil
}

// GetConversation implements chat.Repository.
func (s *SQLiteStore) GetConversation(ctx context.Context, id int64) (chat.Conversation, bool, error) {
	var row conversationRow
	err := s.db.WithContext(ctx).First(&row, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return chat.Conversation{}, false, nil
	}
	if err != nil {
		return chat.Conversation{}, false, err
	}
	return toConversation(row), true, nil
}

// UpdateTitle implements chat.Repository.
func (s *SQLiteStore) UpdateTitle(ctx context.Context, id int64, title string) error {
	return s.db.WithContext(ctx).
		Model(&conversationRow{}).
		Where("id = ?", id).
		Update("title", title).Error
}

// DeleteConversation implements chat.Repository. Removes the turns too.
func (s *SQLiteStore) DeleteConversation(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", id).Delete(&turnRow{}).Error; err != nil {
			return err
		}
		return tx.Delete(&conversationRow{}, id).Error
	})
}

// AppendTurn implements chat.Repository.
func (s *SQLiteStore) AppendTurn(ctx context.Context, turn chat.Turn) (chat.Turn, error) {
	row := turnRow{
		ConversationID: turn.ConversationID,
		Role:           string(turn.Role),
		Content:        turn.Content,
		FromWeather:    turn.FromWeather,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return chat.Turn{}, err
	}
	return toTurn(row), nil
}

// ListTurns implements chat.Repository. Chronological order.
func (s *SQLiteStore) ListTurns(ctx context.Context, conversationID int64) ([]chat.Turn, error) {
	var rows []turnRow
	err := s.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]chat.Turn, 0, len(rows))
	for _, row := range rows {
		out = append(out, toTurn(row))
	}
	return out, nil
}

func toConversation(row conversationRow) chat.Conversation {
	return chat.Conversation{
		ID:        row.ID,
		UserID:    row.UserID,
		Title:     row.Title,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func toTurn(row turnRow) chat.Turn {
	return chat.Turn{
		ID:             row.ID,
		ConversationID: row.ConversationID,
		Role:           chat.Role(row.Role),
		Content:        row.Content,
		FromWeather:    row.FromWeather,
		CreatedAt:      row.CreatedAt,
	}
}

var _ chat.Repository = (*SQLiteStore)(nil)
