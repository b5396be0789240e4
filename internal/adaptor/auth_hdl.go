package adaptor

import (
	"net/http"

	"knowledge-assistant/internal/dto/request"
	"knowledge-assistant/internal/usecase"
	"knowledge-assistant/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log.With(zap.String("handler", "auth")),
	}
}

// Signup handles POST /api/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req request.SignupRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	response, err := h.service.Signup(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "signup", nil)
		return
	}

	utils.ResponseAccepted(w, "Verification code sent. Check your email.", response)
}

// VerifyOTP handles POST /api/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	response, err := h.service.VerifyOTP(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "verify OTP", nil)
		return
	}

	utils.ResponseCreated(w, "Account created successfully", response)
}

// ResendOTP handles POST /api/resend-otp
func (h *AuthHandler) ResendOTP(w http.ResponseWriter, r *http.Request) {
	var req request.ResendOTPRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	response, err := h.service.ResendOTP(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "resend OTP", nil)
		return
	}

	utils.ResponseSuccess(w, "A new verification code has been sent", response)
}

// Login handles POST /api/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	response, err := h.service.Login(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "login", nil)
		return
	}

	utils.ResponseSuccess(w, "Login successful", response)
}

// Logout handles POST /api/logout. AuthSession has already validated the
// token and put it on the context.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "No token provided")
		return
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		handleServiceError(w, h.log, err, "logout", nil)
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}
