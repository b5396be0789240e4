package entity

import "github.com/google/uuid"

const DefaultConversationTitle = "New Conversation"

type Conversation struct {
	BaseNoDelete
	UserID  uuid.UUID `db:"user_id"`
	Title   string    `db:"title"`
	Preview string    `db:"preview"`
}

type MessageRole string

const (
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is immutable once stored.
type Message struct {
	BaseSimple
	ConversationID uuid.UUID   `db:"conversation_id"`
	Role           MessageRole `db:"role"`
	Content        string      `db:"content"`
}
