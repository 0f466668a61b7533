// Package email sends transactional mail over SMTP.
package email

import (
	"context"
	"fmt"

	"bloodconnect_backend/platform/config"
	"bloodconnect_backend/platform/logger"

	"github.com/wneessen/go-mail"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers email messages.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender sends mail through an SMTP relay.
type SMTPSender struct {
	cfg config.EmailConfig
	log *logger.Logger
}

// NewSMTPSender creates a sender backed by the configured SMTP host.
func NewSMTPSender(cfg config.EmailConfig, log *logger.Logger) *SMTPSender {
	return &SMTPSender{cfg: cfg, log: log}
}

// Send delivers a single message. The SMTP connection is opened per send;
// volume is low enough that pooling is not worth the state.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.GetEmailFromName(), s.cfg.GetEmailFromAddress()); err != nil {
		return fmt.Errorf("email: invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("email: invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := mail.NewClient(s.cfg.GetSMTPHost(),
		mail.WithPort(s.cfg.GetSMTPPort()),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.GetSMTPUsername()),
		mail.WithPassword(s.cfg.GetSMTPPassword()),
	)
	if err != nil {
		return fmt.Errorf("email: smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		s.log.UpstreamError("smtp", "send", err)
		return fmt.Errorf("email: send to %q: %w", msg.To, err)
	}

	s.log.Info("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// NoopSender discards messages. Used when SMTP is not configured so the
// rest of the system does not need to branch on email availability.
type NoopSender struct {
	log *logger.Logger
}

// NewNoopSender creates a sender that logs and drops every message.
func NewNoopSender(log *logger.Logger) *NoopSender {
	return &NoopSender{log: log}
}

// Send logs the would-be delivery and returns nil.
func (n *NoopSender) Send(_ context.Context, msg Message) error {
	n.log.Info("email delivery disabled, dropping message", "to", msg.To, "subject", msg.Subject)
	return nil
}
