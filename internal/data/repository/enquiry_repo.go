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

type EnquiryRepository interface {
	Create(ctx context.Context, e *entity.Enquiry) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Enquiry, error)
	FindAll(ctx context.Context, status *string, offset, limit int) ([]*entity.Enquiry, error)
	CountAll(ctx context.Context, status *string) (int64, error)
	Update(ctx context.Context, e *entity.Enquiry) error
}

type enquiryRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewEnquiryRepository(db database.DBTX, log *zap.Logger) EnquiryRepository {
	return &enquiryRepository{
		db:  db,
		log: log.With(zap.String("repository", "enquiry")),
	}
}

const enquiryColumns = `id, user_id, name, email, phone, subject, message,
		       status, admin_notes, created_at, updated_at`

func scanEnquiry(row pgx.Row) (*entity.Enquiry, error) {
	var e entity.Enquiry
	err := row.Scan(
		&e.ID,
		&e.UserID,
		&e.Name,
		&e.Email,
		&e.Phone,
		&e.Subject,
		&e.Message,
		&e.Status,
		&e.AdminNotes,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *enquiryRepository) Create(ctx context.Context, e *entity.Enquiry) error {
	query := `
		INSERT INTO enquiries (id, user_id, name, email, phone, subject, message,
		                       status, admin_notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		e.ID,
		e.UserID,
		e.Name,
		e.Email,
		e.Phone,
		e.Subject,
		e.Message,
		e.Status,
		e.AdminNotes,
		e.CreatedAt,
		e.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create enquiry",
			zap.Error(err),
			zap.String("email", e.Email),
		)
		return fmt.Errorf("failed to create enquiry: %w", err)
	}

	return nil
}

func (r *enquiryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Enquiry, error) {
	e, err := scanEnquiry(r.db.QueryRow(ctx, `SELECT `+enquiryColumns+` FROM enquiries WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find enquiry",
			zap.Error(err),
			zap.String("enquiry_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find enquiry: %w", err)
	}
	return e, nil
}

func (r *enquiryRepository) FindAll(ctx context.Context, status *string, offset, limit int) ([]*entity.Enquiry, error) {
	query := `SELECT ` + enquiryColumns + ` FROM enquiries`
	args := []any{}

	if status != nil && *status != "" {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list enquiries",
			zap.Error(err),
			zap.Stringp("status", status),
		)
		return nil, fmt.Errorf("failed to list enquiries: %w", err)
	}
	defer rows.Close()

	var enquiries []*entity.Enquiry
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			r.log.Error("Failed to scan enquiry row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan enquiry: %w", err)
		}
		enquiries = append(enquiries, e)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return enquiries, nil
}

func (r *enquiryRepository) CountAll(ctx context.Context, status *string) (int64, error) {
	query := `SELECT COUNT(*) FROM enquiries`
	args := []any{}

	if status != nil && *status != "" {
		query += ` WHERE status = $1`
		args = append(args, *status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		r.log.Error("Failed to count enquiries", zap.Error(err))
		return 0, fmt.Errorf("failed to count enquiries: %w", err)
	}
	return total, nil
}

func (r *enquiryRepository) Update(ctx context.Context, e *entity.Enquiry) error {
	query := `
		UPDATE enquiries
		SET status = $2, admin_notes = $3, updated_at = $4
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, e.ID, e.Status, e.AdminNotes, e.UpdatedAt)
	if err != nil {
		r.log.Error("Failed to update enquiry",
			zap.Error(err),
			zap.String("enquiry_id", e.ID.String()),
		)
		return fmt.Errorf("failed to update enquiry: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("enquiry %s not found", e.ID)
	}

	return nil
}
