package adaptor

import (
	"net/http"

	"knowledge-assistant/internal/dto/request"
	"knowledge-assistant/internal/usecase"
	"knowledge-assistant/pkg/utils"

	"go.uber.org/zap"
)

type UserHandler struct {
	service usecase.UserService
	log     *zap.Logger
}

func NewUserHandler(service usecase.UserService, log *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		log:     log.With(zap.String("handler", "user")),
	}
}

// GetProfile handles GET /api/user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get profile", nil)
		return
	}

	utils.ResponseSuccess(w, "Profile retrieved", profile)
}

// UpdateProfile handles PUT /api/user/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update profile", nil)
		return
	}

	utils.ResponseSuccess(w, "Profile updated successfully", profile)
}

// ChangePassword handles PUT /api/user/password
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.ChangePasswordRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	if err := h.service.ChangePassword(r.Context(), userID, &req); err != nil {
		handleServiceError(w, h.log, err, "change password", nil)
		return
	}

	utils.ResponseSuccess(w, "Password changed successfully", nil)
}

// GetSettings handles GET /api/user/settings
func (h *UserHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	settings, err := h.service.GetSettings(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get settings", nil)
		return
	}

	utils.ResponseSuccess(w, "Settings retrieved", settings)
}

// UpdateSetting handles PUT /api/user/settings
func (h *UserHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.UpdateSettingRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	settings, err := h.service.UpdateSetting(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update setting", nil)
		return
	}

	utils.ResponseSuccess(w, "Setting updated", settings)
}

// Dashboard handles GET /api/user/dashboard
func (h *UserHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "load dashboard", nil)
		return
	}

	utils.ResponseSuccess(w, "success", dashboard)
}
