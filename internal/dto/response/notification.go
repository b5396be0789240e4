package response

import (
	"time"

	"knowledge-assistant/internal/data/entity"
)

type NotificationResponse struct {
	ID        string                  `json:"id"`
	Title     string                  `json:"title"`
	Message   string                  `json:"message"`
	Type      entity.NotificationType `json:"type"`
	IsRead    bool                    `json:"is_read"`
	CreatedAt time.Time               `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int64                  `json:"unread"`
}

func NotificationsToResponse(items []*entity.Notification, unread int64) *NotificationListResponse {
	result := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		result = append(result, NotificationResponse{
			ID:        n.ID.String(),
			Title:     n.Title,
			Message:   n.Message,
			Type:      n.Type,
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		})
	}
	return &NotificationListResponse{Notifications: result, Unread: unread}
}
