package wire

import (
	"knowledge-assistant/internal/adaptor"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireEnquiry(
	r chi.Router,
	enquiryHandler *adaptor.EnquiryHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Anonymous visitors may write in; a valid token attaches the user
	r.With(middleware.OptionalAuth(repo.Session, repo.User, log)).Post("/api/contact", enquiryHandler.Submit)

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/enquiries", func(r chi.Router) {
		r.Use(middleware.AuthSession(repo.Session, repo.User, log))
		r.Use(middleware.Admin(log))

		r.Get("/", enquiryHandler.List)
		r.Put("/{id}", enquiryHandler.Update)
	})
}
