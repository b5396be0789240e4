package usecase

import (
	"context"
	"fmt"
	"strings"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/internal/dto/request"
	"knowledge-assistant/internal/dto/response"
	"knowledge-assistant/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	recentlyReadLimit      = 5
	dashboardConversations = 5
	dashboardArticles      = 6
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
	GetSettings(ctx context.Context, userID uuid.UUID) (*response.SettingsResponse, error)
	UpdateSetting(ctx context.Context, userID uuid.UUID, req *request.UpdateSettingRequest) (*response.SettingsResponse, error)
	Dashboard(ctx context.Context, userID uuid.UUID) (*response.DashboardResponse, error)
}

type userService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  Clock
}

func NewUserService(repo *repository.Repository, log *zap.Logger, now Clock) UserService {
	return &userService{
		repo: repo,
		log:  log.With(zap.String("service", "user")),
		now:  now,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.ProfileResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	articlesRead, err := s.repo.Profile.CountArticlesRead(ctx, userID)
	if err != nil {
		s.log.Error("Failed to count read articles", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}

	recent, err := s.repo.Article.FindReadByUser(ctx, userID, recentlyReadLimit)
	if err != nil {
		s.log.Error("Failed to list read articles", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}

	return response.ProfileToResponse(user, profile, articlesRead, recent), nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.ProfileResponse, error) {
	// 1. Validasi
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Update profile validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensureProfile(ctx, userID); err != nil {
		return nil, err
	}

	// 2. Email baru tidak boleh dipakai user lain
	if req.Email != user.Email {
		existing, err := s.repo.User.FindByEmail(ctx, req.Email)
		if err != nil {
			s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
			return nil, fmt.Errorf("failed to update profile")
		}
		if existing != nil && existing.ID != user.ID {
			return nil, ErrEmailTaken
		}
	}

	// 3. Update user dan profile
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Email = req.Email
	user.UpdatedAt = s.now()

	err = s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		if err := tx.User.Update(ctx, user); err != nil {
			return err
		}
		return tx.Profile.UpdateBio(ctx, userID, strings.TrimSpace(req.Bio))
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		s.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update profile")
	}

	s.log.Info("Profile updated", zap.String("user_id", userID.String()))

	return s.GetProfile(ctx, userID)
}

func (s *userService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(utils.FormatValidationErrors(errs))
	}

	user, err := s.findUser(ctx, userID)
	if err != nil {
		return err
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		s.log.Warn("Wrong current password", zap.String("user_id", userID.String()))
		return validationError("current password is incorrect")
	}

	hashed, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return fmt.Errorf("failed to process password")
	}

	if err := s.repo.User.UpdatePassword(ctx, userID, hashed); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("failed to update password")
	}

	s.log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}

func (s *userService) GetSettings(ctx context.Context, userID uuid.UUID) (*response.SettingsResponse, error) {
	settings, err := s.ensureSettings(ctx, userID)
	if err != nil {
		return nil, err
	}
	return response.SettingsToResponse(settings), nil
}

func (s *userService) UpdateSetting(ctx context.Context, userID uuid.UUID, req *request.UpdateSettingRequest) (*response.SettingsResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	settings, err := s.ensureSettings(ctx, userID)
	if err != nil {
		return nil, err
	}

	value := *req.Value
	switch entity.SettingType(req.Type) {
	case entity.SettingEmailNotifications:
		settings.EmailNotifications = value
	case entity.SettingArticleAlerts:
		settings.ArticleAlerts = value
	case entity.SettingChatNotifications:
		settings.ChatNotifications = value
	case entity.SettingDarkMode:
		settings.DarkMode = value
	default:
		return nil, validationError("unknown setting " + req.Type)
	}
	settings.UpdatedAt = s.now()

	if err := s.repo.Settings.Update(ctx, settings); err != nil {
		s.log.Error("Failed to update settings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to update settings")
	}

	return response.SettingsToResponse(settings), nil
}

func (s *userService) Dashboard(ctx context.Context, userID uuid.UUID) (*response.DashboardResponse, error) {
	profile, err := s.ensureProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	fail := func(what string, err error) (*response.DashboardResponse, error) {
		s.log.Error("Failed to load dashboard", zap.String("part", what), zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to load dashboard")
	}

	conversations, err := s.repo.Conversation.FindByUser(ctx, userID, dashboardConversations)
	if err != nil {
		return fail("conversations", err)
	}
	articles, err := s.repo.Article.FindPublished(ctx, repository.ArticleFilter{}, 0, dashboardArticles)
	if err != nil {
		return fail("articles", err)
	}
	totalArticles, err := s.repo.Article.CountPublished(ctx, repository.ArticleFilter{})
	if err != nil {
		return fail("article_count", err)
	}
	userConversations, err := s.repo.Conversation.CountByUser(ctx, userID)
	if err != nil {
		return fail("conversation_count", err)
	}
	articlesRead, err := s.repo.Profile.CountArticlesRead(ctx, userID)
	if err != nil {
		return fail("articles_read", err)
	}
	unread, err := s.repo.Notification.CountUnread(ctx, userID)
	if err != nil {
		return fail("unread", err)
	}

	return &response.DashboardResponse{
		TotalConversations:  profile.TotalConversations,
		TotalMessages:       profile.TotalMessages,
		UserConversations:   userConversations,
		TotalArticles:       totalArticles,
		ArticlesRead:        articlesRead,
		UnreadNotifications: unread,
		RecentConversations: response.ConversationsToResponse(conversations),
		RecentArticles:      response.ArticlesToSummaries(articles),
	}, nil
}

// ==================== HELPER METHODS ====================

func (s *userService) findUser(ctx context.Context, userID uuid.UUID) (*entity.User, error) {
	user, err := s.repo.User.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	return user, nil
}

// ensureProfile returns the user's profile, creating an empty one for
// accounts made outside the signup flow.
func (s *userService) ensureProfile(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	profile, err := s.repo.Profile.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}
	if profile != nil {
		return profile, nil
	}

	profile = &entity.Profile{UserID: userID, JoinedAt: s.now()}
	if err := s.repo.Profile.Create(ctx, profile); err != nil && !repository.IsUniqueViolation(err) {
		s.log.Error("Failed to create profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get profile")
	}
	return profile, nil
}

func (s *userService) ensureSettings(ctx context.Context, userID uuid.UUID) (*entity.Settings, error) {
	settings, err := s.repo.Settings.FindByUserID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find settings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get settings")
	}
	if settings != nil {
		return settings, nil
	}

	settings = entity.DefaultSettings(userID, s.now())
	if err := s.repo.Settings.Create(ctx, settings); err != nil && !repository.IsUniqueViolation(err) {
		s.log.Error("Failed to create settings", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get settings")
	}
	return settings, nil
}
