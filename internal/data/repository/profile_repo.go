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

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error)
	UpdateBio(ctx context.Context, userID uuid.UUID, bio string) error
	IncrementConversations(ctx context.Context, userID uuid.UUID, delta int) error
	IncrementMessages(ctx context.Context, userID uuid.UUID, delta int) error
	MarkArticleRead(ctx context.Context, userID, articleID uuid.UUID) error
	CountArticlesRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type profileRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewProfileRepository(db database.DBTX, log *zap.Logger) ProfileRepository {
	return &profileRepository{
		db:  db,
		log: log.With(zap.String("repository", "profile")),
	}
}

func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO user_profiles (user_id, bio, avatar_url, total_conversations,
		                           total_messages, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query,
		profile.UserID,
		profile.Bio,
		profile.AvatarURL,
		profile.TotalConversations,
		profile.TotalMessages,
		profile.JoinedAt,
	)
	if err != nil {
		r.log.Error("Failed to create profile",
			zap.Error(err),
			zap.String("user_id", profile.UserID.String()),
		)
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *profileRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*entity.Profile, error) {
	query := `
		SELECT user_id, bio, avatar_url, total_conversations, total_messages, joined_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var profile entity.Profile
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Bio,
		&profile.AvatarURL,
		&profile.TotalConversations,
		&profile.TotalMessages,
		&profile.JoinedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find profile",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}

	return &profile, nil
}

func (r *profileRepository) UpdateBio(ctx context.Context, userID uuid.UUID, bio string) error {
	_, err := r.db.Exec(ctx, `UPDATE user_profiles SET bio = $2 WHERE user_id = $1`, userID, bio)
	if err != nil {
		r.log.Error("Failed to update bio",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("failed to update bio: %w", err)
	}
	return nil
}

func (r *profileRepository) increment(ctx context.Context, column string, userID uuid.UUID, delta int) error {
	query := fmt.Sprintf(`UPDATE user_profiles SET %[1]s = %[1]s + $2 WHERE user_id = $1`, column)

	if _, err := r.db.Exec(ctx, query, userID, delta); err != nil {
		r.log.Error("Failed to increment profile counter",
			zap.Error(err),
			zap.String("column", column),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("failed to increment %s: %w", column, err)
	}
	return nil
}

func (r *profileRepository) IncrementConversations(ctx context.Context, userID uuid.UUID, delta int) error {
	return r.increment(ctx, "total_conversations", userID, delta)
}

func (r *profileRepository) IncrementMessages(ctx context.Context, userID uuid.UUID, delta int) error {
	return r.increment(ctx, "total_messages", userID, delta)
}

// MarkArticleRead is idempotent per (user, article).
func (r *profileRepository) MarkArticleRead(ctx context.Context, userID, articleID uuid.UUID) error {
	query := `
		INSERT INTO user_articles_read (user_id, article_id, read_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, article_id) DO NOTHING
	`

	if _, err := r.db.Exec(ctx, query, userID, articleID); err != nil {
		r.log.Error("Failed to mark article read",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("article_id", articleID.String()),
		)
		return fmt.Errorf("failed to mark article read: %w", err)
	}
	return nil
}

func (r *profileRepository) CountArticlesRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_articles_read WHERE user_id = $1`, userID).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count articles read",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("failed to count articles read: %w", err)
	}
	return total, nil
}
