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

type ConversationRepository interface {
	Create(ctx context.Context, c *entity.Conversation) error
	// FindByIDAndUser scopes the lookup to the owner; other users get nil.
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Conversation, error)
	// FindByUser lists newest-updated first. limit <= 0 returns all.
	FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Conversation, error)
	Update(ctx context.Context, c *entity.Conversation) error
	Delete(ctx context.Context, id, userID uuid.UUID) (bool, error)
	CountByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}

type conversationRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewConversationRepository(db database.DBTX, log *zap.Logger) ConversationRepository {
	return &conversationRepository{
		db:  db,
		log: log.With(zap.String("repository", "conversation")),
	}
}

func (r *conversationRepository) Create(ctx context.Context, c *entity.Conversation) error {
	query := `
		INSERT INTO conversations (id, user_id, title, preview, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, c.ID, c.UserID, c.Title, c.Preview, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to create conversation",
			zap.Error(err),
			zap.String("user_id", c.UserID.String()),
		)
		return fmt.Errorf("failed to create conversation: %w", err)
	}

	return nil
}

func (r *conversationRepository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*entity.Conversation, error) {
	query := `
		SELECT id, user_id, title, preview, created_at, updated_at
		FROM conversations
		WHERE id = $1 AND user_id = $2
	`

	var c entity.Conversation
	err := r.db.QueryRow(ctx, query, id, userID).Scan(
		&c.ID,
		&c.UserID,
		&c.Title,
		&c.Preview,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find conversation",
			zap.Error(err),
			zap.String("conversation_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find conversation: %w", err)
	}

	return &c, nil
}

func (r *conversationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entity.Conversation, error) {
	query := `
		SELECT id, user_id, title, preview, created_at, updated_at
		FROM conversations
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list conversations",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var conversations []*entity.Conversation
	for rows.Next() {
		var c entity.Conversation
		if err := rows.Scan(&c.ID, &c.UserID, &c.Title, &c.Preview, &c.CreatedAt, &c.UpdatedAt); err != nil {
			r.log.Error("Failed to scan conversation row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		conversations = append(conversations, &c)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return conversations, nil
}

func (r *conversationRepository) Update(ctx context.Context, c *entity.Conversation) error {
	query := `
		UPDATE conversations
		SET title = $2, preview = $3, updated_at = $4
		WHERE id = $1
	`

	if _, err := r.db.Exec(ctx, query, c.ID, c.Title, c.Preview, c.UpdatedAt); err != nil {
		r.log.Error("Failed to update conversation",
			zap.Error(err),
			zap.String("conversation_id", c.ID.String()),
		)
		return fmt.Errorf("failed to update conversation: %w", err)
	}

	return nil
}

func (r *conversationRepository) Delete(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM conversations WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.log.Error("Failed to delete conversation",
			zap.Error(err),
			zap.String("conversation_id", id.String()),
		)
		return false, fmt.Errorf("failed to delete conversation: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *conversationRepository) CountByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM conversations WHERE user_id = $1`, userID).Scan(&total); err != nil {
		r.log.Error("Failed to count conversations",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("failed to count conversations: %w", err)
	}
	return total, nil
}
