package services

import (
	"context"
	"errors"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMailer struct {
	to, subject, html, text string
	err                     error
}

func (m *mockMailer) Send(_ context.Context, to, subject, html, text string) error {
	m.to, m.subject, m.html, m.text = to, subject, html, text
	return m.err
}

type mockRenderer struct {
	lastTemplate string
	err          error
}

func (r *mockRenderer) Render(templateName string, data any) (string, string, string, error) {
	r.lastTemplate = templateName
	if r.err != nil {
		return "", "", "", r.err
	}
	return "subject:" + templateName, "<p>html</p>", "text", nil
}

func TestEmailService_SendConferenceConfirmation(t *testing.T) {
	mailer := &mockMailer{}
	renderer := &mockRenderer{}
	svc := NewEmailService(mailer, renderer, testLogger)

	err := svc.SendConferenceConfirmation(context.Background(), &domain.ConferenceConfirmationEmailData{Email: "a@example.com", ConferenceName: "GopherCon"})
	require.NoError(t, err)
	assert.Equal(t, "conference_created", renderer.lastTemplate)
	assert.Equal(t, "a@example.com", mailer.to)
	assert.Equal(t, "subject:conference_created", mailer.subject)
}

func TestEmailService_Errors(t *testing.T) {
	svc := NewEmailService(&mockMailer{}, &mockRenderer{}, testLogger)
	assert.Error(t, svc.SendSessionConfirmation(context.Background(), nil))
	assert.ErrorIs(t, svc.SendSessionConfirmation(context.Background(), &domain.SessionConfirmationEmailData{}), domain.ErrInvalidInput)

	svc = NewEmailService(&mockMailer{}, &mockRenderer{err: errors.New("boom")}, testLogger)
	assert.Error(t, svc.SendSessionConfirmation(context.Background(), &domain.SessionConfirmationEmailData{Email: "a@example.com"}))

	svc = NewEmailService(&mockMailer{err: errors.New("ses down")}, &mockRenderer{}, testLogger)
	assert.Error(t, svc.SendConferenceConfirmation(context.Background(), &domain.ConferenceConfirmationEmailData{Email: "a@example.com"}))
}
