package mailer

import (
	"context"
	"fmt"
	"time"

	"knowledge-assistant/pkg/utils"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const sendTimeout = 30 * time.Second

// SMTPSender sends through an SMTP relay using STARTTLS when offered.
type SMTPSender struct {
	cfg utils.EmailConfig
	log *zap.Logger
}

func NewSMTPSender(cfg utils.EmailConfig, log *zap.Logger) *SMTPSender {
	return &SMTPSender{
		cfg: cfg,
		log: log.With(zap.String("component", "smtp")),
	}
}

func (s *SMTPSender) buildMessage(job Job) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.From); err != nil {
		return nil, fmt.Errorf("set from %q: %w", s.cfg.From, err)
	}
	if err := msg.To(job.To...); err != nil {
		return nil, fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(job.Subject)
	msg.SetDate()
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextPlain, job.Text)
	if job.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, job.HTML)
	}
	return msg, nil
}

func (s *SMTPSender) Send(ctx context.Context, job Job) error {
	if err := job.Validate(); err != nil {
		return err
	}

	msg, err := s.buildMessage(job)
	if err != nil {
		return err
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(sendTimeout),
	}
	if s.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.User),
			mail.WithPassword(s.cfg.Password),
		)
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail %q: %w", job.Subject, err)
	}

	s.log.Debug("Mail sent",
		zap.String("subject", job.Subject),
		zap.Int("recipients", len(job.To)),
	)
	return nil
}

// LogSender writes jobs to the log instead of sending them. Used when no
// SMTP host is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.With(zap.String("component", "mail_log"))}
}

func (s *LogSender) Send(_ context.Context, job Job) error {
	if err := job.Validate(); err != nil {
		return err
	}
	s.log.Info("Mail not sent (SMTP disabled)",
		zap.Strings("to", job.To),
		zap.String("subject", job.Subject),
	)
	s.log.Debug("Mail body", zap.String("text", job.Text))
	return nil
}

// NewSender picks SMTP when a host is configured.
func NewSender(cfg utils.EmailConfig, log *zap.Logger) Sender {
	if cfg.Host == "" {
		return NewLogSender(log)
	}
	return NewSMTPSender(cfg, log)
}
