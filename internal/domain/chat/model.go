package chat

import "time"

// Role tags who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// DefaultTitle is the sentinel title of a conversation that has not yet
// received its first message.
const DefaultTitle = "Nueva conversación"

// Conversation is a titled, user-owned sequence of turns.
type Conversation struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Turn is one message within a conversation. Role and content are fixed at
// creation; FromWeather marks replies produced from structured weather data
// instead of the language model.
type Turn struct {
	ID             int64     `json:"id"`
	ConversationID int64     `json:"conversationId"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	FromWeather    bool      `json:"fromWeather"`
	CreatedAt      time.Time `json:"createdAt"`
}
