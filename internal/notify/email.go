// Package notify formats, schedules and delivers team notifications.
package notify

import (
	"context"
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"

	"teamchat/internal/config"
)

var ErrNotConfigured = errors.New("email provider is not configured")

// Email is a rendered message ready for delivery.
type Email struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Sender interface {
	Send(ctx context.Context, email Email) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender returns a sender for cfg. When SMTP is not configured every
// Send fails with ErrNotConfigured.
func NewSMTPSender(cfg config.EmailConfig) Sender {
	if !cfg.Configured() {
		return unconfiguredSender{}
	}
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.FromEmail,
	}
}

func (s *smtpSender) Send(ctx context.Context, email Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	from := email.From
	if from == "" {
		from = s.from
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", email.To)
	m.SetHeader("Subject", email.Subject)
	m.SetBody("text/html", email.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send email to %s: %w", email.To, err)
	}
	return nil
}

type unconfiguredSender struct{}

func (unconfiguredSender) Send(context.Context, Email) error {
	return ErrNotConfigured
}
