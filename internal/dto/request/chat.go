package request

type CreateConversationRequest struct {
	Title string `json:"title" validate:"max=200"`
}

type SendMessageRequest struct {
	ConversationID string `json:"conversation_id" validate:"required,uuid"`
	Message        string `json:"message" validate:"required,max=4000"`
}
