package response

import (
	"time"

	"knowledge-assistant/internal/data/entity"
	"knowledge-assistant/pkg/utils"
)

type ProfileResponse struct {
	User               UserResponse             `json:"user"`
	Initials           string                   `json:"initials"`
	Bio                string                   `json:"bio"`
	AvatarURL          string                   `json:"avatar_url"`
	TotalConversations int                      `json:"total_conversations"`
	TotalMessages      int                      `json:"total_messages"`
	ArticlesRead       int64                    `json:"articles_read"`
	JoinedAt           time.Time                `json:"joined_at"`
	RecentlyRead       []ArticleSummaryResponse `json:"recently_read"`
}

func ProfileToResponse(user *entity.User, profile *entity.Profile, articlesRead int64, recentlyRead []*entity.Article) *ProfileResponse {
	return &ProfileResponse{
		User:               UserToResponse(user),
		Initials:           utils.Initials(user.FirstName, user.LastName, user.Username),
		Bio:                profile.Bio,
		AvatarURL:          profile.AvatarURL,
		TotalConversations: profile.TotalConversations,
		TotalMessages:      profile.TotalMessages,
		ArticlesRead:       articlesRead,
		JoinedAt:           profile.JoinedAt,
		RecentlyRead:       ArticlesToSummaries(recentlyRead),
	}
}

type SettingsResponse struct {
	EmailNotifications bool      `json:"email_notifications"`
	ArticleAlerts      bool      `json:"article_alerts"`
	ChatNotifications  bool      `json:"chat_notifications"`
	DarkMode           bool      `json:"dark_mode"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func SettingsToResponse(s *entity.Settings) *SettingsResponse {
	return &SettingsResponse{
		EmailNotifications: s.EmailNotifications,
		ArticleAlerts:      s.ArticleAlerts,
		ChatNotifications:  s.ChatNotifications,
		DarkMode:           s.DarkMode,
		UpdatedAt:          s.UpdatedAt,
	}
}

type DashboardResponse struct {
	TotalConversations  int                      `json:"total_conversations"`
	TotalMessages       int                      `json:"total_messages"`
	UserConversations   int64                    `json:"user_conversations"`
	TotalArticles       int64                    `json:"total_articles"`
	ArticlesRead        int64                    `json:"articles_read"`
	UnreadNotifications int64                    `json:"unread_notifications"`
	RecentConversations []ConversationResponse   `json:"recent_conversations"`
	RecentArticles      []ArticleSummaryResponse `json:"recent_articles"`
}
