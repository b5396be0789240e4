package repository

import (
	"context"
	"fmt"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MessageRepository interface {
	Create(ctx context.Context, m *entity.Message) error
	// FindByConversation returns the full transcript, oldest first.
	FindByConversation(ctx context.Context, conversationID uuid.UUID) ([]*entity.Message, error)
	// FindRecent returns up to limit messages, newest first.
	FindRecent(ctx context.Context, conversationID uuid.UUID, limit int) ([]*entity.Message, error)
	// CountByRole counts the conversation's messages with the given role.
	CountByRole(ctx context.Context, conversationID uuid.UUID, role entity.MessageRole) (int64, error)
}

type messageRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewMessageRepository(db database.DBTX, log *zap.Logger) MessageRepository {
	return &messageRepository{
		db:  db,
		log: log.With(zap.String("repository", "message")),
	}
}

func (r *messageRepository) Create(ctx context.Context, m *entity.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.db.Exec(ctx, query, m.ID, m.ConversationID, m.Role, m.Content, m.CreatedAt); err != nil {
		r.log.Error("Failed to create message",
			zap.Error(err),
			zap.String("conversation_id", m.ConversationID.String()),
			zap.String("role", string(m.Role)),
		)
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

func (r *messageRepository) FindByConversation(ctx context.Context, conversationID uuid.UUID) ([]*entity.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, conversationID)
	if err != nil {
		r.log.Error("Failed to list messages",
			zap.Error(err),
			zap.String("conversation_id", conversationID.String()),
		)
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return r.scanRows(rows)
}

func (r *messageRepository) FindRecent(ctx context.Context, conversationID uuid.UUID, limit int) ([]*entity.Message, error) {
	query := `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, conversationID, limit)
	if err != nil {
		r.log.Error("Failed to list recent messages",
			zap.Error(err),
			zap.String("conversation_id", conversationID.String()),
		)
		return nil, fmt.Errorf("failed to list recent messages: %w", err)
	}
	return r.scanRows(rows)
}

func (r *messageRepository) scanRows(rows pgx.Rows) ([]*entity.Message, error) {
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			r.log.Error("Failed to scan message row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &m)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return messages, nil
}

func (r *messageRepository) CountByRole(ctx context.Context, conversationID uuid.UUID, role entity.MessageRole) (int64, error) {
	query := `SELECT COUNT(*) FROM messages WHERE conversation_id = $1 AND role = $2`

	var total int64
	err := r.db.QueryRow(ctx, query, conversationID, role).Scan(&total)
	if err != nil {
		r.log.Error("Failed to count messages",
			zap.Error(err),
			zap.String("conversation_id", conversationID.String()),
			zap.String("role", string(role)),
		)
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return total, nil
}
