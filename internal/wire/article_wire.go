package wire

import (
	"knowledge-assistant/internal/adaptor"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireArticle(
	r chi.Router,
	articleHandler *adaptor.ArticleHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/categories", articleHandler.Categories)

	// ==================== PROTECTED ROUTES (require auth) ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))

		r.Get("/api/articles", articleHandler.List)
		// Detail counts a view and records the read for the current user
		r.Get("/api/articles/{slug}", articleHandler.Detail)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/articles", func(r chi.Router) {
		// Apply middleware chain: AuthSession → Admin
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Post("/", articleHandler.Create)
	})
}
