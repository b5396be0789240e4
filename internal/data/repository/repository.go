package repository

import (
	"knowledge-assistant/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User         UserRepository
	Session      SessionRepository
	OTP          OTPRepository
	Profile      ProfileRepository
	Settings     SettingsRepository
	Notification NotificationRepository
	Conversation ConversationRepository
	Message      MessageRepository
	Category     CategoryRepository
	Article      ArticleRepository
	Enquiry      EnquiryRepository

	// Tx runs a function against repositories bound to one transaction.
	Tx Transactor
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	repo := newRepositories(db, log)
	repo.Tx = NewTransactor(db, log)
	return repo
}

func newRepositories(db database.DBTX, log *zap.Logger) *Repository {
	return &Repository{
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		OTP:          NewOTPRepository(db, log),
		Profile:      NewProfileRepository(db, log),
		Settings:     NewSettingsRepository(db, log),
		Notification: NewNotificationRepository(db, log),
		Conversation: NewConversationRepository(db, log),
		Message:      NewMessageRepository(db, log),
		Category:     NewCategoryRepository(db, log),
		Article:      NewArticleRepository(db, log),
		Enquiry:      NewEnquiryRepository(db, log),
	}
}
