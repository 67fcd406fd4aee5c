package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// ConferenceConfirmationEmailData holds data for the email sent after creating a conference.
type ConferenceConfirmationEmailData struct {
	Email          string
	ConferenceName string
	City           string
	StartDate      string
	WebsafeKey     string
}

// SessionConfirmationEmailData holds data for the email sent after creating a session.
type SessionConfirmationEmailData struct {
	Email          string
	SessionName    string
	ConferenceName string
	Speaker        string
	Date           string
	Time           string
}

// EmailService defines the contract for sending domain-level emails.
type EmailService interface {
	SendConferenceConfirmation(ctx context.Context, data *ConferenceConfirmationEmailData) error
	SendSessionConfirmation(ctx context.Context, data *SessionConfirmationEmailData) error
}
