package wire

import (
	"knowledge-assistant/internal/adaptor"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireChat(
	r chi.Router,
	chatHandler *adaptor.ChatHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/api/conversations", chatHandler.ListConversations)
		r.Post("/api/conversations", chatHandler.CreateConversation)
		r.Get("/api/conversations/{id}", chatHandler.GetConversation)
		r.Delete("/api/conversations/{id}", chatHandler.DeleteConversation)

		// POST /api/messages - ask the assistant inside a conversation
		r.Post("/api/messages", chatHandler.SendMessage)
	})
}
