package repository

import (
	"context"
	"errors"
	"fmt"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SettingsRepository interface {
	Create(ctx context.Context, settings *entity.Settings) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Settings, error)
	Update(ctx context.Context, settings *entity.Settings) error
}

type settingsRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewSettingsRepository(db database.DBTX, log *zap.Logger) SettingsRepository {
	return &settingsRepository{
		db:  db,
		log: log.With(zap.String("repository", "settings")),
	}
}

func (r *settingsRepository) Create(ctx context.Context, s *entity.Settings) error {
	query := `
		INSERT INTO user_settings (user_id, email_notifications, article_alerts,
		                           chat_notifications, dark_mode, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		s.UserID,
		s.EmailNotifications,
		s.ArticleAlerts,
		s.ChatNotifications,
		s.DarkMode,
		s.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create settings",
			zap.Error(err),
			zap.String("user_id", s.UserID.String()),
		)
		return fmt.Errorf("failed to create settings: %w", err)
	}

	return nil
}

func (r *settingsRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Settings, error) {
	query := `
		SELECT user_id, email_notifications, article_alerts,
		       chat_notifications, dark_mode, updated_at
		FROM user_settings
		WHERE user_id = $1
	`

	var s entity.Settings
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&s.UserID,
		&s.EmailNotifications,
		&s.ArticleAlerts,
		&s.ChatNotifications,
		&s.DarkMode,
		&s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find settings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("failed to find settings: %w", err)
	}

	return &s, nil
}

func (r *settingsRepository) Update(ctx context.Context, s *entity.Settings) error {
	query := `
		UPDATE user_settings
		SET email_notifications = $2, article_alerts = $3,
		    chat_notifications = $4, dark_mode = $5, updated_at = $6
		WHERE user_id = $1
	`

	result, err := r.db.Exec(ctx, query,
		s.UserID,
		s.EmailNotifications,
		s.ArticleAlerts,
		s.ChatNotifications,
		s.DarkMode,
		s.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update settings",
			zap.Error(err),
			zap.String("user_id", s.UserID.String()),
		)
		return fmt.Errorf("failed to update settings: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("settings for user %s not found", s.UserID)
	}

	return nil
}
