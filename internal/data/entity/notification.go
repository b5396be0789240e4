package entity

import "github.com/google/uuid"

type NotificationType string

const (
	NotificationWelcome NotificationType = "welcome"
	NotificationArticle NotificationType = "article"
	NotificationFeature NotificationType = "feature"
	NotificationChat    NotificationType = "chat"
	NotificationSystem  NotificationType = "system"
)

type Notification struct {
	BaseSimple
	UserID  uuid.UUID        `db:"user_id"`
	Title   string           `db:"title"`
	Message string           `db:"message"`
	Type    NotificationType `db:"type"`
	IsRead  bool             `db:"is_read"`
}
