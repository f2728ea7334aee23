package mailer

import (
	"context"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/bookadzone/launch-api/internal/config"
)

// Sender submits outbound mail. Delivery failure is expected to be treated as
// best-effort by callers; it never blocks the enclosing operation.
type Sender interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendSubscription(ctx context.Context, to string) error
}

const (
	welcomeSubject      = "Welcome to BookAdZone - Launch Notification Registration"
	subscriptionSubject = "Welcome to BookAdZone Newsletter!"
)

// SMTPSender delivers mail over SMTP using the configured transport.
type SMTPSender struct {
	client *mail.Client
	from   string
	logger *zap.Logger
}

// NewSMTPSender builds a sender from SMTP configuration.
func NewSMTPSender(cfg config.SMTPConfig, logger *zap.Logger) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.User),
		mail.WithPassword(cfg.Password),
	}
	if cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, err
	}

	return &SMTPSender{client: client, from: cfg.From, logger: logger}, nil
}

// SendWelcome delivers the launch-notification confirmation.
func (s *SMTPSender) SendWelcome(ctx context.Context, to, name string) error {
	body, err := RenderWelcome(name)
	if err != nil {
		return err
	}
	return s.send(ctx, to, welcomeSubject, body)
}

// SendSubscription delivers the newsletter confirmation.
func (s *SMTPSender) SendSubscription(ctx context.Context, to string) error {
	body, err := RenderSubscription()
	if err != nil {
		return err
	}
	return s.send(ctx, to, subscriptionSubject, body)
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetMessageID()
	msg.SetBodyString(mail.TypeTextHTML, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		s.logger.Error("mail delivery failed",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return err
	}

	s.logger.Info("mail sent",
		zap.String("to", to),
		zap.String("message_id", msg.GetMessageID()),
	)
	return nil
}
