package entity

import (
	"time"

	"github.com/google/uuid"
)

type Profile struct {
	UserID             uuid.UUID `db:"user_id"`
	Bio                string    `db:"bio"`
	AvatarURL          string    `db:"avatar_url"`
	TotalConversations int       `db:"total_conversations"`
	TotalMessages      int       `db:"total_messages"`
	JoinedAt           time.Time `db:"joined_at"`
}

type SettingType string

const (
	SettingEmailNotifications SettingType = "email_notifications"
	SettingArticleAlerts      SettingType = "article_alerts"
	SettingChatNotifications  SettingType = "chat_notifications"
	SettingDarkMode           SettingType = "dark_mode"
)

type Settings struct {
	UserID             uuid.UUID `db:"user_id"`
	EmailNotifications bool      `db:"email_notifications"`
	ArticleAlerts      bool      `db:"article_alerts"`
	ChatNotifications  bool      `db:"chat_notifications"`
	DarkMode           bool      `db:"dark_mode"`
	UpdatedAt          time.Time `db:"updated_at"`
}

// DefaultSettings mirrors the column defaults.
func DefaultSettings(userID uuid.UUID, now time.Time) *Settings {
	return &Settings{
		UserID:             userID,
		EmailNotifications: true,
		ArticleAlerts:      true,
		ChatNotifications:  true,
		DarkMode:           false,
		UpdatedAt:          now,
	}
}
