package middleware

import (
	"context"
	"net/http"
	"strings"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type authFailure struct {
	status  int
	message string
}

// bearerToken extracts the token from "Authorization: Bearer <token>".
func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}

func authenticate(
	ctx context.Context,
	token string,
	sessionRepo repository.SessionRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) (context.Context, *authFailure) {
	tokenID, err := uuid.Parse(token)
	if err != nil {
		return nil, &authFailure{http.StatusUnauthorized, "Invalid or expired session"}
	}

	// 1. Find valid session
	session, err := sessionRepo.FindValidSession(ctx, tokenID)
	if err != nil {
		logger.Error("Failed to validate session", zap.Error(err))
		return nil, &authFailure{http.StatusInternalServerError, "Internal server error"}
	}
	if session == nil {
		logger.Warn("Invalid or expired session")
		return nil, &authFailure{http.StatusUnauthorized, "Invalid or expired session"}
	}

	// 2. Load the user for role and status
	user, err := userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		logger.Error("Failed to load session user",
			zap.Error(err), zap.String("user_id", session.UserID.String()))
		return nil, &authFailure{http.StatusInternalServerError, "Internal server error"}
	}
	if user == nil || !user.IsActive {
		return nil, &authFailure{http.StatusUnauthorized, "Invalid or expired session"}
	}

	return utils.SetUserContext(ctx, user.ID, string(user.Role), token), nil
}

// AuthSession requires a valid bearer session token.
func AuthSession(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			ctx, fail := authenticate(r.Context(), token, sessionRepo, userRepo, logger)
			if fail != nil {
				utils.ResponseJSON(w, fail.status, false, fail.message, nil, nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the user when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(sessionRepo repository.SessionRepository, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, fail := authenticate(r.Context(), token, sessionRepo, userRepo, logger)
			if fail != nil {
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin must run after AuthSession.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			role, _ := utils.GetRoleFromContext(r.Context())
			if role != string(entity.RoleAdmin) {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path))
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
