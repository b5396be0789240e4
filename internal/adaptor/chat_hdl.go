package adaptor

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"knowledge-assistant/internal/dto/request"
	"knowledge-assistant/internal/usecase"
	"knowledge-assistant/pkg/utils"

	"go.uber.org/zap"
)

type ChatHandler struct {
	service usecase.ChatService
	log     *zap.Logger
}

func NewChatHandler(service usecase.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		log:     log.With(zap.String("handler", "chat")),
	}
}

// ListConversations handles GET /api/conversations
func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	conversations, err := h.service.ListConversations(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list conversations", nil)
		return
	}

	utils.ResponseSuccess(w, "success", conversations)
}

// CreateConversation handles POST /api/conversations. The body is optional.
func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	conversation, err := h.service.CreateConversation(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create conversation", nil)
		return
	}

	utils.ResponseCreated(w, "Conversation created", conversation)
}

// GetConversation handles GET /api/conversations/{id}
func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	conversation, err := h.service.GetConversation(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, h.log, err, "get conversation", nil)
		return
	}

	utils.ResponseSuccess(w, "success", conversation)
}

// DeleteConversation handles DELETE /api/conversations/{id}
func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteConversation(r.Context(), userID, id); err != nil {
		handleServiceError(w, h.log, err, "delete conversation", nil)
		return
	}

	utils.ResponseSuccess(w, "Conversation deleted", nil)
}

// SendMessage handles POST /api/messages. When the AI provider fails the
// 502 body still carries the saved user message.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.SendMessageRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	response, err := h.service.SendMessage(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "send message", response)
		return
	}

	utils.ResponseSuccess(w, "success", response)
}
