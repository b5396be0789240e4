package repository

import (
	"context"
	"errors"
	"fmt"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// OTPRepository stores pending signups keyed by email.
type OTPRepository interface {
	// Upsert replaces any existing record for the email.
	Upsert(ctx context.Context, otp *entity.EmailOTP) error
	FindByEmail(ctx context.Context, email string) (*entity.EmailOTP, error)
	// FindByEmailForUpdate locks the row until the surrounding transaction ends.
	FindByEmailForUpdate(ctx context.Context, email string) (*entity.EmailOTP, error)
	// IncrementAttempts bumps attempts and returns the new count; 0 means no row.
	IncrementAttempts(ctx context.Context, email string) (int, error)
	// Refresh swaps in a new code and resets attempts. created_at is kept.
	Refresh(ctx context.Context, email, code string) error
	MarkVerified(ctx context.Context, email string) error
	Delete(ctx context.Context, email string) error
}

type otpRepository struct {
	db  database.DBTX
	log *zap.Logger
}

func NewOTPRepository(db database.DBTX, log *zap.Logger) OTPRepository {
	return &otpRepository{
		db:  db,
		log: log.With(zap.String("repository", "otp")),
	}
}

func (r *otpRepository) Upsert(ctx context.Context, otp *entity.EmailOTP) error {
	query := `
		INSERT INTO email_otps (email, otp_code, created_at, is_verified, attempts,
		                        username, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (email) DO UPDATE
		SET otp_code = EXCLUDED.otp_code,
		    created_at = EXCLUDED.created_at,
		    is_verified = EXCLUDED.is_verified,
		    attempts = EXCLUDED.attempts,
		    username = EXCLUDED.username,
		    first_name = EXCLUDED.first_name,
		    last_name = EXCLUDED.last_name,
		    password_hash = EXCLUDED.password_hash
	`

	_, err := r.db.Exec(ctx, query,
		otp.Email,
		otp.OTPCode,
		otp.CreatedAt,
		otp.IsVerified,
		otp.Attempts,
		otp.Username,
		otp.FirstName,
		otp.LastName,
		otp.PasswordHash,
	)
	if err != nil {
		r.log.Error("Failed to upsert OTP",
			zap.Error(err),
			zap.String("email", otp.Email),
		)
		return fmt.Errorf("upsert OTP for %s: %w", otp.Email, err)
	}

	return nil
}

const otpSelect = `
		SELECT email, otp_code, created_at, is_verified, attempts,
		       username, first_name, last_name, password_hash
		FROM email_otps
		WHERE email = $1`

func (r *otpRepository) find(ctx context.Context, query, email string) (*entity.EmailOTP, error) {
	var otp entity.EmailOTP
	err := r.db.QueryRow(ctx, query, email).Scan(
		&otp.Email,
		&otp.OTPCode,
		&otp.CreatedAt,
		&otp.IsVerified,
		&otp.Attempts,
		&otp.Username,
		&otp.FirstName,
		&otp.LastName,
		&otp.PasswordHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find OTP",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find OTP for %s: %w", email, err)
	}

	return &otp, nil
}

func (r *otpRepository) FindByEmail(ctx context.Context, email string) (*entity.EmailOTP, error) {
	return r.find(ctx, otpSelect, email)
}

func (r *otpRepository) FindByEmailForUpdate(ctx context.Context, email string) (*entity.EmailOTP, error) {
	return r.find(ctx, otpSelect+` FOR UPDATE`, email)
}

func (r *otpRepository) IncrementAttempts(ctx context.Context, email string) (int, error) {
	query := `
		UPDATE email_otps
		SET attempts = attempts + 1
		WHERE email = $1
		RETURNING attempts
	`

	var attempts int
	err := r.db.QueryRow(ctx, query, email).Scan(&attempts)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		r.log.Error("Failed to increment OTP attempts",
			zap.Error(err),
			zap.String("email", email),
		)
		return 0, fmt.Errorf("increment OTP attempts for %s: %w", email, err)
	}

	return attempts, nil
}

func (r *otpRepository) Refresh(ctx context.Context, email, code string) error {
	query := `
		UPDATE email_otps
		SET otp_code = $2, attempts = 0
		WHERE email = $1
	`

	result, err := r.db.Exec(ctx, query, email, code)
	if err != nil {
		r.log.Error("Failed to refresh OTP",
			zap.Error(err),
			zap.String("email", email),
		)
		return fmt.Errorf("refresh OTP for %s: %w", email, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("OTP for %s not found", email)
	}

	return nil
}

func (r *otpRepository) MarkVerified(ctx context.Context, email string) error {
	query := `
		UPDATE email_otps
		SET is_verified = true
		WHERE email = $1
	`

	if _, err := r.db.Exec(ctx, query, email); err != nil {
		r.log.Error("Failed to mark OTP as verified",
			zap.Error(err),
			zap.String("email", email),
		)
		return fmt.Errorf("mark OTP for %s verified: %w", email, err)
	}

	return nil
}

func (r *otpRepository) Delete(ctx context.Context, email string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM email_otps WHERE email = $1`, email); err != nil {
		r.log.Error("Failed to delete OTP",
			zap.Error(err),
			zap.String("email", email),
		)
		return fmt.Errorf("delete OTP for %s: %w", email, err)
	}

	return nil
}
