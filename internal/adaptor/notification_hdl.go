package adaptor

import (
	"net/http"

	"knowledge-assistant/internal/usecase"
	"knowledge-assistant/pkg/utils"

	"go.uber.org/zap"
)

type NotificationHandler struct {
	service usecase.NotificationService
	log     *zap.Logger
}

func NewNotificationHandler(service usecase.NotificationService, log *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		log:     log.With(zap.String("handler", "notification")),
	}
}

// List handles GET /api/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "list notifications", nil)
		return
	}

	utils.ResponseSuccess(w, "success", list)
}

// MarkRead handles POST /api/notifications/{id}/read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.MarkRead(r.Context(), userID, id); err != nil {
		handleServiceError(w, h.log, err, "mark notification read", nil)
		return
	}

	utils.ResponseSuccess(w, "Notification marked as read", nil)
}

// ClearAll handles DELETE /api/notifications
func (h *NotificationHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	n, err := h.service.ClearAll(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "clear notifications", nil)
		return
	}

	utils.ResponseSuccess(w, "All notifications cleared", map[string]int64{"deleted": n})
}
