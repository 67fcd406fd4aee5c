package services

import (
	"context"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveSpeaker_CreateThenUpdate(t *testing.T) {
	speakers := newFakeSpeakerRepo()
	svc := NewSpeakerService(speakers, testTimeout)
	user := testUser("alice")

	created, err := svc.SaveSpeaker(context.Background(), user, &domain.Speaker{DisplayName: "Ada", MainEmail: " ada@example.com ", Bio: "Engines"})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", created.MainEmail)

	updated, err := svc.SaveSpeaker(context.Background(), user, &domain.Speaker{MainEmail: "ada@example.com", Bio: "Analytical engines"})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.DisplayName)
	assert.Equal(t, "Analytical engines", updated.Bio)

	got, err := svc.GetSpeaker(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Analytical engines", got.Bio)
}

func TestSaveSpeaker_Errors(t *testing.T) {
	svc := NewSpeakerService(newFakeSpeakerRepo(), testTimeout)

	_, err := svc.SaveSpeaker(context.Background(), nil, &domain.Speaker{DisplayName: "Ada", MainEmail: "ada@example.com"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = svc.SaveSpeaker(context.Background(), testUser("alice"), &domain.Speaker{DisplayName: "Ada"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.SaveSpeaker(context.Background(), testUser("alice"), &domain.Speaker{MainEmail: "new@example.com"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.GetSpeaker(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSpeakers_OrderedByDisplayName(t *testing.T) {
	speakers := newFakeSpeakerRepo()
	svc := NewSpeakerService(speakers, testTimeout)
	for _, s := range []*domain.Speaker{
		{DisplayName: "Carol", MainEmail: "carol@example.com"},
		{DisplayName: "Alice", MainEmail: "alice@example.com"},
		{DisplayName: "Bob", MainEmail: "bob@example.com"},
	} {
		require.NoError(t, speakers.Create(context.Background(), s))
	}

	page, total, err := svc.ListSpeakers(context.Background(), domain.PaginationParams{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "Alice", page[0].DisplayName)
	assert.Equal(t, "Bob", page[1].DisplayName)
}
