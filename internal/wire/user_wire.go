package wire

import (
	"knowledge-assistant/internal/adaptor"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	notificationHandler *adaptor.NotificationHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		// Profile & settings
		r.Get("/api/user/profile", userHandler.GetProfile)
		r.Put("/api/user/profile", userHandler.UpdateProfile)
		r.Put("/api/user/password", userHandler.ChangePassword)
		r.Get("/api/user/settings", userHandler.GetSettings)
		r.Put("/api/user/settings", userHandler.UpdateSetting)
		r.Get("/api/user/dashboard", userHandler.Dashboard)

		// Notifications
		r.Get("/api/notifications", notificationHandler.List)
		r.Post("/api/notifications/{id}/read", notificationHandler.MarkRead)
		r.Delete("/api/notifications", notificationHandler.ClearAll)
	})
}
