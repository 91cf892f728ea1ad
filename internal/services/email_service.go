package services

import (
	"context"
	"net/mail"
	"strings"

	"teamchat/internal/models"
	"teamchat/internal/notify"
)

type SendEmailInput struct {
	To      string
	Subject string
	HTML    string
	TaskID  *int64
}

// EmailService sends ad-hoc emails straight through the dispatcher.
type EmailService interface {
	Send(ctx context.Context, in SendEmailInput) error
}

type emailService struct {
	dispatcher Dispatcher
}

func NewEmailService(dispatcher Dispatcher) EmailService {
	return &emailService{dispatcher: dispatcher}
}

func (s *emailService) Send(ctx context.Context, in SendEmailInput) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(in.To))
	if err != nil {
		return validationError("invalid recipient %q", in.To)
	}
	if strings.TrimSpace(in.Subject) == "" || strings.TrimSpace(in.HTML) == "" {
		return validationError("subject and html are required")
	}
	return s.dispatcher.Dispatch(ctx, notify.Job{
		Type:   models.EmailCustom,
		Email:  notify.Email{To: addr.Address, Subject: in.Subject, HTML: in.HTML},
		TaskID: in.TaskID,
	})
}
