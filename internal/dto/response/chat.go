package response

import (
	"time"

	"knowledge-assistant/internal/data/entity"
)

type ConversationResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Preview   string    `json:"preview"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type MessageResponse struct {
	ID        string             `json:"id"`
	Role      entity.MessageRole `json:"role"`
	Content   string             `json:"content"`
	Timestamp time.Time          `json:"timestamp"`
}

type ConversationDetailResponse struct {
	ConversationResponse
	Messages []MessageResponse `json:"messages"`
}

// SendMessageResponse carries both sides of one exchange. AIMessage is nil
// when the provider failed.
type SendMessageResponse struct {
	UserMessage MessageResponse  `json:"user_message"`
	AIMessage   *MessageResponse `json:"ai_message,omitempty"`
}

func ConversationToResponse(c *entity.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:        c.ID.String(),
		Title:     c.Title,
		Preview:   c.Preview,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ConversationsToResponse(conversations []*entity.Conversation) []ConversationResponse {
	result := make([]ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		result = append(result, ConversationToResponse(c))
	}
	return result
}

func MessageToResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:        m.ID.String(),
		Role:      m.Role,
		Content:   m.Content,
		Timestamp: m.CreatedAt,
	}
}

func MessagesToResponse(messages []*entity.Message) []MessageResponse {
	result := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, MessageToResponse(m))
	}
	return result
}
