package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferencecentral/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer, logger: logger}
}

// SendConferenceConfirmation sends the "conference_created" email.
func (s *emailService) SendConferenceConfirmation(ctx context.Context, data *domain.ConferenceConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("conference confirmation data is nil")
	}
	return s.send(ctx, "conference_created", data.Email, data)
}

// SendSessionConfirmation sends the "session_created" email.
func (s *emailService) SendSessionConfirmation(ctx context.Context, data *domain.SessionConfirmationEmailData) error {
	if data == nil {
		return fmt.Errorf("session confirmation data is nil")
	}
	return s.send(ctx, "session_created", data.Email, data)
}

func (s *emailService) send(ctx context.Context, templateName, to string, data any) error {
	if to == "" {
		return fmt.Errorf("%w: recipient email is empty", domain.ErrInvalidInput)
	}
	subject, htmlBody, textBody, err := s.renderer.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", templateName, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", templateName, err)
	}
	s.logger.InfoContext(ctx, "email sent", "template", templateName, "to", to)
	return nil
}
