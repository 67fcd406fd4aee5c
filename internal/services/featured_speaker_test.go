package services

import (
	"context"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeaturedFixture() (domain.FeaturedSpeakerService, *fakeSessionRepo, *fakeSpeakerRepo, *fakeCache) {
	sessions := &fakeSessionRepo{}
	speakers := newFakeSpeakerRepo()
	cache := newFakeCache()
	return NewFeaturedSpeakerService(sessions, speakers, cache, testTimeout), sessions, speakers, cache
}

func TestFeaturedSpeakerRefresh_PicksSpeakerWithMostSessions(t *testing.T) {
	svc, sessions, speakers, cache := newFeaturedFixture()
	require.NoError(t, speakers.Create(context.Background(), &domain.Speaker{DisplayName: "Ada Lovelace", MainEmail: "ada@example.com"}))
	conf := domain.ConferenceKey("organizer", "c1")
	other := domain.ConferenceKey("organizer", "c2")
	seedSession(sessions, conf, "s1", "Engines", "ada@example.com")
	seedSession(sessions, conf, "s2", "Intro", "bob@example.com")
	seedSession(sessions, conf, "s3", "Notes", "ada@example.com")
	seedSession(sessions, other, "s4", "Elsewhere", "bob@example.com")
	seedSession(sessions, conf, "s5", "Loops", "ada@example.com")

	text, err := svc.Refresh(context.Background(), conf.Encode())
	require.NoError(t, err)
	assert.Equal(t, "Featured speaker, Ada Lovelace, will be leading the following sessions Engines, Notes, Loops", text)

	cached, ok := cache.Get(context.Background(), FeaturedSpeakerCacheKey(conf))
	require.True(t, ok)
	assert.Equal(t, text, cached)
}

func TestFeaturedSpeakerRefresh_NoSpeakerWithTwoSessions(t *testing.T) {
	svc, sessions, _, cache := newFeaturedFixture()
	conf := domain.ConferenceKey("organizer", "c1")
	seedSession(sessions, conf, "s1", "One", "ada@example.com")
	seedSession(sessions, conf, "s2", "Two", "bob@example.com")

	text, err := svc.Refresh(context.Background(), conf.Encode())
	require.NoError(t, err)
	assert.Empty(t, text)
	_, ok := cache.Get(context.Background(), FeaturedSpeakerCacheKey(conf))
	assert.False(t, ok)
}

func TestFeaturedSpeakerRefresh_BelowThresholdKeepsCachedText(t *testing.T) {
	svc, sessions, _, cache := newFeaturedFixture()
	conf := domain.ConferenceKey("organizer", "c1")
	cache.Set(context.Background(), FeaturedSpeakerCacheKey(conf), "earlier blurb")
	seedSession(sessions, conf, "s1", "One", "ada@example.com")

	text, err := svc.Refresh(context.Background(), conf.Encode())
	require.NoError(t, err)
	assert.Empty(t, text)
	cached, ok := cache.Get(context.Background(), FeaturedSpeakerCacheKey(conf))
	require.True(t, ok)
	assert.Equal(t, "earlier blurb", cached)
}

func TestFeaturedSpeakerRefresh_TieGoesToGreaterReference(t *testing.T) {
	svc, sessions, _, _ := newFeaturedFixture()
	conf := domain.ConferenceKey("organizer", "c1")
	seedSession(sessions, conf, "s1", "A1", "ada@example.com")
	seedSession(sessions, conf, "s2", "B1", "bob@example.com")
	seedSession(sessions, conf, "s3", "A2", "ada@example.com")
	seedSession(sessions, conf, "s4", "B2", "bob@example.com")

	text, err := svc.Refresh(context.Background(), conf.Encode())
	require.NoError(t, err)
	// No stored speaker, so the reference stands in for the display name.
	assert.Equal(t, "Featured speaker, bob@example.com, will be leading the following sessions B1, B2", text)
}

func TestFeaturedSpeakerGet(t *testing.T) {
	svc, sessions, _, cache := newFeaturedFixture()
	conf := domain.ConferenceKey("organizer", "c1")

	cache.Set(context.Background(), FeaturedSpeakerCacheKey(conf), "cached")
	text, err := svc.Get(context.Background(), conf.Encode())
	require.NoError(t, err)
	assert.Equal(t, "cached", text)

	cache.Delete(context.Background(), FeaturedSpeakerCacheKey(conf))
	seedSession(sessions, conf, "s1", "A1", "ada@example.com")
	seedSession(sessions, conf, "s2", "A2", "ada@example.com")
	text, err = svc.Get(context.Background(), conf.Encode())
	require.NoError(t, err)
	assert.Contains(t, text, "A1, A2")

	_, err = svc.Get(context.Background(), "%%%")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
