package adaptor

import (
	"knowledge-assistant/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Notification *NotificationHandler
	Article      *ArticleHandler
	Chat         *ChatHandler
	Enquiry      *EnquiryHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(service.Auth, log),
		User:         NewUserHandler(service.User, log),
		Notification: NewNotificationHandler(service.Notification, log),
		Article:      NewArticleHandler(service.Article, log),
		Chat:         NewChatHandler(service.Chat, log),
		Enquiry:      NewEnquiryHandler(service.Enquiry, log),
	}
}
