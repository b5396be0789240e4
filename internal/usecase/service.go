package usecase

import (
	"time"

	"knowledge-assistant/internal/assistant"
	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/mailer"
	"knowledge-assistant/pkg/ratelimit"
	"knowledge-assistant/pkg/utils"

	"go.uber.org/zap"
)

// EmailQueue accepts mail for asynchronous delivery. Submit must not block
// on the SMTP round trip.
type EmailQueue interface {
	Submit(job mailer.Job) error
}

// Clock is swapped out in tests.
type Clock func() time.Time

type Service struct {
	Auth         AuthService
	User         UserService
	Knowledge    KnowledgeService
	Article      ArticleService
	Chat         ChatService
	Notification NotificationService
	Enquiry      EnquiryService
	Setup        SetupService
}

type Deps struct {
	Repo    *repository.Repository
	Config  *utils.Config
	Mail    EmailQueue
	Limiter ratelimit.Limiter
	Gateway *assistant.Gateway
	Log     *zap.Logger
	Now     Clock
}

func NewService(d Deps) *Service {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Limiter == nil {
		d.Limiter = ratelimit.Noop{}
	}

	knowledge := NewKnowledgeService(d.Repo.Article, d.Log)

	return &Service{
		Auth:         NewAuthService(d.Repo, d.Config, d.Mail, d.Limiter, d.Log, d.Now),
		User:         NewUserService(d.Repo, d.Log, d.Now),
		Knowledge:    knowledge,
		Article:      NewArticleService(d.Repo, d.Log, d.Now),
		Chat:         NewChatService(d.Repo, knowledge, d.Gateway, d.Log, d.Now),
		Notification: NewNotificationService(d.Repo.Notification, d.Log),
		Enquiry:      NewEnquiryService(d.Repo.Enquiry, d.Config, d.Mail, d.Log, d.Now),
		Setup:        NewSetupService(d.Repo, d.Log, d.Now),
	}
}
