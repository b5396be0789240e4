package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"

	"knowledge-assistant/internal/assistant"
	"knowledge-assistant/internal/usecase"
	"knowledge-assistant/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// decodeRequest decodes the JSON body into req and validates it. On failure
// the 400 response is already written.
func decodeRequest(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}

	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return false
	}

	return true
}

// currentUser reads the id AuthSession put on the context.
func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}

// handleServiceError maps usecase and assistant errors onto the response
// envelope. data is only sent with 502s, where it carries what was saved
// before the provider failed.
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string, data any) {
	var invalidCode *usecase.InvalidCodeError
	var modelNotFound *assistant.ModelNotFoundError

	switch {
	case errors.As(err, &invalidCode):
		log.Warn(operation+" failed - wrong code", zap.Int("remaining", invalidCode.Remaining))
		utils.ResponseJSON(w, http.StatusBadRequest, false, err.Error(),
			map[string]int{"remaining_attempts": invalidCode.Remaining}, nil)

	case errors.Is(err, usecase.ErrValidation),
		errors.Is(err, usecase.ErrUsernameTaken),
		errors.Is(err, usecase.ErrEmailTaken),
		errors.Is(err, usecase.ErrOTPNotFound),
		errors.Is(err, usecase.ErrOTPInvalid):
		log.Warn(operation+" failed - bad request", zap.Error(err))
		utils.ResponseBadRequest(w, err.Error(), nil)

	case errors.Is(err, usecase.ErrDuplicateAccount):
		log.Warn(operation+" failed - duplicate account", zap.Error(err))
		utils.ResponseConflict(w, err.Error())

	case errors.Is(err, usecase.ErrOTPExpired):
		log.Warn(operation+" failed - code expired", zap.Error(err))
		utils.ResponseGone(w, err.Error())

	case errors.Is(err, usecase.ErrOTPLocked):
		log.Warn(operation+" failed - locked", zap.Error(err))
		utils.ResponseLocked(w, err.Error())

	case errors.Is(err, usecase.ErrTooManyRequests):
		log.Warn(operation+" failed - throttled", zap.Error(err))
		utils.ResponseTooManyRequests(w, "Please wait before requesting another code")

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials", zap.Error(err))
		utils.ResponseUnauthorized(w, err.Error())

	case errors.Is(err, usecase.ErrAccountInactive),
		errors.Is(err, usecase.ErrForbidden):
		log.Warn(operation+" failed - forbidden", zap.Error(err))
		utils.ResponseForbidden(w, err.Error())

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, err.Error())

	case errors.As(err, &modelNotFound):
		log.Error(operation+" failed - model not found",
			zap.String("model", modelNotFound.Model),
			zap.Strings("available", modelNotFound.Available))
		utils.ResponseBadGateway(w, err.Error(), data)

	case errors.Is(err, assistant.ErrProviderUnavailable):
		log.Error(operation+" failed - provider unavailable", zap.Error(err))
		utils.ResponseBadGateway(w, err.Error(), data)

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, err.Error())
	}
}
