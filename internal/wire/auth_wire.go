package wire

import (
	"knowledge-assistant/internal/adaptor"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	repo *repository.Repository,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Signup is two steps: signup stages the account, verify-otp creates it
	r.Post("/api/signup", authHandler.Signup)
	r.Post("/api/verify-otp", authHandler.VerifyOTP)
	r.Post("/api/resend-otp", authHandler.ResendOTP)
	r.Post("/api/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(repo.Session, repo.User, log)).Post("/api/logout", authHandler.Logout)
}
