package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/internal/dto/request"
	"knowledge-assistant/internal/dto/response"
	"knowledge-assistant/pkg/mailer"
	"knowledge-assistant/pkg/metrics"
	"knowledge-assistant/pkg/ratelimit"
	"knowledge-assistant/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OTP policy. Fixed, not configurable per request.
const (
	OTPValidity    = 10 * time.Minute
	OTPMaxAttempts = 5
	OTPLength      = 6
)

const (
	welcomeTitle   = "Welcome to AI Assistant! 🎉"
	welcomeMessage = "Get started by exploring our knowledge base or starting a new conversation."
)

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.AuthResponse, error)
	ResendOTP(ctx context.Context, req *request.ResendOTPRequest) (*response.SignupResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo    *repository.Repository
	config  *utils.Config
	mail    EmailQueue
	limiter ratelimit.Limiter
	log     *zap.Logger
	now     Clock
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	mail EmailQueue,
	limiter ratelimit.Limiter,
	log *zap.Logger,
	now Clock,
) AuthService {
	return &authService{
		repo:    repo,
		config:  config,
		mail:    mail,
		limiter: limiter,
		log:     log.With(zap.String("service", "auth")),
		now:     now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	// 1. Validasi input
	req.Username = strings.TrimSpace(req.Username)
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signup validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	// 2. Username dan email belum dipakai
	if err := s.checkAvailable(ctx, s.repo, req.Username, req.Email); err != nil {
		return nil, err
	}

	// 3. Rate limit pengiriman OTP
	if err := s.checkSendLimit(ctx, req.Email); err != nil {
		return nil, err
	}

	// 4. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	// 5. Generate OTP
	code, err := utils.GenerateOTP(OTPLength)
	if err != nil {
		s.log.Error("Failed to generate OTP", zap.Error(err))
		return nil, fmt.Errorf("failed to generate verification code")
	}

	// 6. Simpan pending signup (replaces any earlier one for this email)
	pending := &entity.EmailOTP{
		Email:        req.Email,
		OTPCode:      code,
		CreatedAt:    s.now(),
		IsVerified:   false,
		Attempts:     0,
		Username:     req.Username,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		PasswordHash: hashedPassword,
	}
	if err := s.repo.OTP.Upsert(ctx, pending); err != nil {
		s.log.Error("Failed to save OTP", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to start signup")
	}

	// 7. Kirim email (async)
	s.sendOTPEmail(req.Email, code)
	metrics.OTPEvent("issued")

	s.log.Info("Signup pending verification",
		zap.String("email", req.Email),
		zap.String("username", req.Username))

	return &response.SignupResponse{
		Email:        req.Email,
		ValidMinutes: int(OTPValidity / time.Minute),
	}, nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.AuthResponse, error) {
	// 1. Validasi
	req.Email = normalizeEmail(req.Email)
	req.OTP = strings.TrimSpace(req.OTP)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Verify OTP validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	// 2. Find pending signup
	pending, err := s.repo.OTP.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find OTP", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to verify code")
	}
	if pending == nil {
		return nil, ErrOTPNotFound
	}

	// 3. Expired
	now := s.now()
	if pending.IsExpired(now, OTPValidity) {
		s.discardOTP(ctx, req.Email)
		metrics.OTPEvent("expired")
		return nil, ErrOTPExpired
	}

	// 4. Locked
	if pending.Attempts >= OTPMaxAttempts {
		s.discardOTP(ctx, req.Email)
		metrics.OTPEvent("locked")
		return nil, ErrOTPLocked
	}

	// 5. Wrong code
	if req.OTP != pending.OTPCode {
		return nil, s.recordFailedAttempt(ctx, req.Email)
	}

	// 6. Create account
	user, session, err := s.materialize(ctx, req.Email, req.OTP, now)
	if err != nil {
		switch {
		case errors.Is(err, ErrDuplicateAccount):
			s.discardOTP(ctx, req.Email)
			metrics.OTPEvent("duplicate")
			return nil, err
		case errors.Is(err, ErrOTPExpired):
			s.discardOTP(ctx, req.Email)
			metrics.OTPEvent("expired")
			return nil, err
		case errors.Is(err, ErrOTPLocked):
			s.discardOTP(ctx, req.Email)
			metrics.OTPEvent("locked")
			s.log.Warn("OTP locked after failed attempts", zap.String("email", req.Email))
			return nil, err
		case errors.Is(err, ErrOTPNotFound), errors.Is(err, ErrOTPInvalid):
			return nil, err
		}
		s.log.Error("Failed to create account", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to create account")
	}

	metrics.OTPEvent("verified")
	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return response.AuthToResponse(user, session), nil
}

func (s *authService) ResendOTP(ctx context.Context, req *request.ResendOTPRequest) (*response.SignupResponse, error) {
	// 1. Validasi
	req.Email = normalizeEmail(req.Email)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	// 2. Pending signup harus ada
	pending, err := s.repo.OTP.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find OTP", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to resend code")
	}
	if pending == nil {
		return nil, ErrOTPNotFound
	}

	// 3. The window runs from signup, a resend does not extend it
	if pending.IsExpired(s.now(), OTPValidity) {
		s.discardOTP(ctx, req.Email)
		metrics.OTPEvent("expired")
		return nil, ErrOTPExpired
	}

	// 4. Rate limit
	if err := s.checkSendLimit(ctx, req.Email); err != nil {
		return nil, err
	}

	// 5. New code, attempts reset
	code, err := utils.GenerateOTP(OTPLength)
	if err != nil {
		s.log.Error("Failed to generate OTP", zap.Error(err))
		return nil, fmt.Errorf("failed to generate verification code")
	}
	if err := s.repo.OTP.Refresh(ctx, req.Email, code); err != nil {
		s.log.Error("Failed to refresh OTP", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("failed to resend code")
	}

	s.sendOTPEmail(req.Email, code)
	metrics.OTPEvent("resent")

	remaining := pending.CreatedAt.Add(OTPValidity).Sub(s.now())
	return &response.SignupResponse{
		Email:        req.Email,
		ValidMinutes: int((remaining + time.Minute - 1) / time.Minute),
	}, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validasi
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, validationError(utils.FormatValidationErrors(errs))
	}

	// 2. Find user by email, then username
	identifier := strings.TrimSpace(req.Username)
	user, err := s.repo.User.FindByEmail(ctx, normalizeEmail(identifier))
	if err != nil {
		s.log.Error("Failed to find user by email", zap.Error(err), zap.String("identifier", identifier))
		return nil, fmt.Errorf("failed to find user")
	}
	if user == nil {
		user, err = s.repo.User.FindByUsername(ctx, identifier)
		if err != nil {
			s.log.Error("Failed to find user by username", zap.Error(err), zap.String("identifier", identifier))
			return nil, fmt.Errorf("failed to find user")
		}
	}

	// 3. User not found / wrong password
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login", zap.String("identifier", identifier))
		return nil, ErrInvalidCredentials
	}

	// 4. Check if user is active
	if !user.IsActive {
		s.log.Warn("Inactive user tried to login", zap.String("user_id", user.ID.String()))
		return nil, ErrAccountInactive
	}

	// 5. Create session
	session := s.newSession(user.ID, s.now())
	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username))

	return response.AuthToResponse(user, session), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	// 1. Parse token
	tokenUUID, err := uuid.Parse(token)
	if err != nil {
		s.log.Warn("Invalid token format", zap.Error(err))
		return validationError("invalid token format")
	}

	// 2. Revoke session
	if err := s.repo.Session.Revoke(ctx, tokenUUID); err != nil {
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("failed to logout")
	}

	s.log.Info("User logged out")
	return nil
}

// ==================== HELPER METHODS ====================

// materialize turns the pending signup into an account. Everything happens
// in one transaction so a concurrent verify or signup can never leave half
// an account behind.
func (s *authService) materialize(ctx context.Context, email, code string, now time.Time) (*entity.User, *entity.Session, error) {
	var user *entity.User
	var session *entity.Session

	err := s.repo.Tx.WithinTx(ctx, func(tx *repository.Repository) error {
		// 1. Lock the pending row
		pending, err := tx.OTP.FindByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if pending == nil {
			return ErrOTPNotFound
		}
		// Re-check on the locked row; wrong codes may have landed since the first read
		if pending.IsExpired(now, OTPValidity) {
			return ErrOTPExpired
		}
		if pending.Attempts >= OTPMaxAttempts {
			return ErrOTPLocked
		}
		if pending.OTPCode != code {
			return ErrOTPInvalid
		}

		// 2. Someone may have taken the name since signup
		if err := s.checkAvailable(ctx, tx, pending.Username, pending.Email); err != nil {
			if errors.Is(err, ErrUsernameTaken) || errors.Is(err, ErrEmailTaken) {
				return fmt.Errorf("%w: %v", ErrDuplicateAccount, err)
			}
			return err
		}

		// 3. User
		user = &entity.User{
			Base:          entity.NewBase(now),
			Username:      pending.Username,
			Email:         pending.Email,
			FirstName:     pending.FirstName,
			LastName:      pending.LastName,
			PasswordHash:  pending.PasswordHash,
			Role:          entity.RoleUser,
			EmailVerified: true,
			IsActive:      true,
		}
		if err := tx.User.Create(ctx, user); err != nil {
			if repository.IsUniqueViolation(err) {
				return ErrDuplicateAccount
			}
			return err
		}

		if err := tx.OTP.MarkVerified(ctx, email); err != nil {
			return err
		}

		// 4. Profile, settings, welcome notification
		if err := tx.Profile.Create(ctx, &entity.Profile{UserID: user.ID, JoinedAt: now}); err != nil {
			return err
		}
		if err := tx.Settings.Create(ctx, entity.DefaultSettings(user.ID, now)); err != nil {
			return err
		}
		welcome := &entity.Notification{
			BaseSimple: entity.NewBaseSimple(now),
			UserID:     user.ID,
			Title:      welcomeTitle,
			Message:    welcomeMessage,
			Type:       entity.NotificationWelcome,
		}
		if err := tx.Notification.Create(ctx, welcome); err != nil {
			return err
		}

		// 5. Consume the code and log the user in
		if err := tx.OTP.Delete(ctx, email); err != nil {
			return err
		}
		session = s.newSession(user.ID, now)
		return tx.Session.Create(ctx, session)
	})
	if err != nil {
		return nil, nil, err
	}

	return user, session, nil
}

func (s *authService) recordFailedAttempt(ctx context.Context, email string) error {
	attempts, err := s.repo.OTP.IncrementAttempts(ctx, email)
	if err != nil {
		s.log.Error("Failed to record OTP attempt", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to verify code")
	}
	if attempts == 0 {
		// consumed or discarded concurrently
		return ErrOTPNotFound
	}

	if attempts >= OTPMaxAttempts {
		s.discardOTP(ctx, email)
		metrics.OTPEvent("locked")
		s.log.Warn("OTP locked after failed attempts", zap.String("email", email))
		return ErrOTPLocked
	}

	metrics.OTPEvent("invalid")
	return &InvalidCodeError{Remaining: OTPMaxAttempts - attempts}
}

func (s *authService) checkAvailable(ctx context.Context, repo *repository.Repository, username, email string) error {
	existing, err := repo.User.FindByUsername(ctx, username)
	if err != nil {
		s.log.Error("Failed to check username", zap.Error(err), zap.String("username", username))
		return fmt.Errorf("failed to check username")
	}
	if existing != nil {
		return ErrUsernameTaken
	}

	existing, err = repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return fmt.Errorf("failed to check email")
	}
	if existing != nil {
		return ErrEmailTaken
	}

	return nil
}

func (s *authService) checkSendLimit(ctx context.Context, email string) error {
	err := s.limiter.Allow(ctx, email)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ratelimit.ErrTooSoon), errors.Is(err, ratelimit.ErrTooMany):
		metrics.OTPEvent("throttled")
		s.log.Warn("OTP send throttled", zap.String("email", email), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrTooManyRequests, err)
	default:
		// fail open
		s.log.Warn("OTP limiter unavailable", zap.Error(err))
		return nil
	}
}

func (s *authService) discardOTP(ctx context.Context, email string) {
	if err := s.repo.OTP.Delete(ctx, email); err != nil {
		s.log.Warn("Failed to delete OTP", zap.Error(err), zap.String("email", email))
	}
}

func (s *authService) newSession(userID uuid.UUID, now time.Time) *entity.Session {
	hours := s.config.Session.ExpiryHours
	if hours <= 0 {
		hours = 24
	}

	return &entity.Session{
		BaseSimple: entity.NewBaseSimple(now),
		UserID:     userID,
		Token:      utils.GenerateSessionToken(),
		ExpiresAt:  now.Add(time.Duration(hours) * time.Hour),
	}
}

func (s *authService) sendOTPEmail(email, code string) {
	s.log.Debug("OTP issued", zap.String("email", email), zap.String("otp_code", code))

	job, err := mailer.OTPJob(email, mailer.OTPData{
		AppName:      s.config.App.Name,
		Code:         code,
		ValidMinutes: int(OTPValidity / time.Minute),
	})
	if err != nil {
		s.log.Error("Failed to render OTP email", zap.Error(err), zap.String("email", email))
		return
	}

	if err := s.mail.Submit(job); err != nil {
		s.log.Error("Failed to queue OTP email", zap.Error(err), zap.String("email", email))
	}
}
