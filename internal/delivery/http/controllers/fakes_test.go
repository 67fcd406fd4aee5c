package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"conferencecentral/internal/delivery/http/helpers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var testUser = &domain.AuthUser{UserID: "user-1", Email: "alice@example.com"}

// newRequest builds a request with optional JSON body, path values and authenticated user.
func newRequest(method, target string, body any, pathValues map[string]string, user *domain.AuthUser) *http.Request {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, "http://test"+target, reader)
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	if user != nil {
		req = req.WithContext(middleware.SetUser(req.Context(), user))
	}
	return req
}

// decodeEnvelope decodes rr's body and, when out is non-nil, re-decodes envelope.Data into it.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, out any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if out != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out))
	}
	return envelope
}

func mustDate(s string) *time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &t
}

// fakeConferenceService implements domain.ConferenceService.
type fakeConferenceService struct {
	err           error
	created       *domain.Conference
	lastUser      *domain.AuthUser
	lastFilters   []domain.Filter
	lastKey       string
	conference    *domain.ConferenceWithOrganizer
	conferences   []*domain.Conference
	withOrganizer []*domain.ConferenceWithOrganizer
}

func (f *fakeConferenceService) CreateConference(_ context.Context, user *domain.AuthUser, c *domain.Conference) (*domain.Conference, error) {
	f.lastUser = user
	f.created = c
	if f.err != nil {
		return nil, f.err
	}
	c.PrepareForCreate(user.UserID, "conf-1")
	return c, nil
}

func (f *fakeConferenceService) GetConference(_ context.Context, key string) (*domain.ConferenceWithOrganizer, error) {
	f.lastKey = key
	return f.conference, f.err
}

func (f *fakeConferenceService) QueryConferences(_ context.Context, filters []domain.Filter) ([]*domain.Conference, error) {
	f.lastFilters = filters
	return f.conferences, f.err
}

func (f *fakeConferenceService) ListCreated(_ context.Context, user *domain.AuthUser) ([]*domain.ConferenceWithOrganizer, error) {
	f.lastUser = user
	return f.withOrganizer, f.err
}

func (f *fakeConferenceService) ListAttending(_ context.Context, user *domain.AuthUser) ([]*domain.Conference, error) {
	f.lastUser = user
	return f.conferences, f.err
}

// fakeRegistrationService implements domain.RegistrationService.
type fakeRegistrationService struct {
	result     bool
	err        error
	lastAction string
	lastKey    string
}

func (f *fakeRegistrationService) Register(_ context.Context, _ *domain.AuthUser, key string) (bool, error) {
	f.lastAction, f.lastKey = "register", key
	return f.result, f.err
}

func (f *fakeRegistrationService) Unregister(_ context.Context, _ *domain.AuthUser, key string) (bool, error) {
	f.lastAction, f.lastKey = "unregister", key
	return f.result, f.err
}

// fakeAnnouncementService implements domain.AnnouncementService.
type fakeAnnouncementService struct {
	text string
	err  error
}

func (f *fakeAnnouncementService) Get(context.Context) (string, error)     { return f.text, f.err }
func (f *fakeAnnouncementService) Refresh(context.Context) (string, error) { return f.text, f.err }

// fakeSessionService implements domain.SessionService.
type fakeSessionService struct {
	err         error
	sessions    []*domain.Session
	created     *domain.Session
	lastKey     string
	lastType    domain.SessionType
	lastFilters []domain.Filter
	lastCall    string
}

func (f *fakeSessionService) CreateSession(_ context.Context, _ *domain.AuthUser, key string, s *domain.Session) (*domain.Session, error) {
	f.lastCall, f.lastKey, f.created = "create", key, s
	if f.err != nil {
		return nil, f.err
	}
	confKey, _ := domain.DecodeKey(key)
	s.PrepareForCreate(confKey, "sess-1")
	return s, nil
}

func (f *fakeSessionService) ListByConference(_ context.Context, key string) ([]*domain.Session, error) {
	f.lastCall, f.lastKey = "list", key
	return f.sessions, f.err
}

func (f *fakeSessionService) ListByConferenceAndType(_ context.Context, key string, t domain.SessionType) ([]*domain.Session, error) {
	f.lastCall, f.lastKey, f.lastType = "listByType", key, t
	return f.sessions, f.err
}

func (f *fakeSessionService) QuerySessions(_ context.Context, filters []domain.Filter) ([]*domain.Session, error) {
	f.lastCall, f.lastFilters = "query", filters
	return f.sessions, f.err
}

func (f *fakeSessionService) QueryConferenceSessions(_ context.Context, key string, filters []domain.Filter) ([]*domain.Session, error) {
	f.lastCall, f.lastKey, f.lastFilters = "queryConference", key, filters
	return f.sessions, f.err
}

func (f *fakeSessionService) ListBySpeaker(_ context.Context, email string) ([]*domain.Session, error) {
	f.lastCall, f.lastKey = "bySpeaker", email
	return f.sessions, f.err
}

// fakeWishlistService implements domain.WishlistService.
type fakeWishlistService struct {
	added    bool
	sessions []*domain.Session
	err      error
	lastKey  string
}

func (f *fakeWishlistService) AddToWishlist(_ context.Context, _ *domain.AuthUser, key string) (bool, error) {
	f.lastKey = key
	return f.added, f.err
}

func (f *fakeWishlistService) GetWishlistForConference(_ context.Context, _ *domain.AuthUser, key string) ([]*domain.Session, error) {
	f.lastKey = key
	return f.sessions, f.err
}

// fakeFeaturedSpeakerService implements domain.FeaturedSpeakerService.
type fakeFeaturedSpeakerService struct {
	text    string
	err     error
	lastKey string
}

func (f *fakeFeaturedSpeakerService) Get(_ context.Context, key string) (string, error) {
	f.lastKey = key
	return f.text, f.err
}

func (f *fakeFeaturedSpeakerService) Refresh(_ context.Context, key string) (string, error) {
	f.lastKey = key
	return f.text, f.err
}

// fakeSpeakerService implements domain.SpeakerService.
type fakeSpeakerService struct {
	speaker    *domain.Speaker
	speakers   []*domain.Speaker
	total      int
	err        error
	lastSaved  *domain.Speaker
	lastEmail  string
	lastParams domain.PaginationParams
}

func (f *fakeSpeakerService) SaveSpeaker(_ context.Context, _ *domain.AuthUser, s *domain.Speaker) (*domain.Speaker, error) {
	f.lastSaved = s
	if f.err != nil {
		return nil, f.err
	}
	return s, nil
}

func (f *fakeSpeakerService) GetSpeaker(_ context.Context, email string) (*domain.Speaker, error) {
	f.lastEmail = email
	return f.speaker, f.err
}

func (f *fakeSpeakerService) ListSpeakers(_ context.Context, params domain.PaginationParams) ([]*domain.Speaker, int, error) {
	f.lastParams = params
	return f.speakers, f.total, f.err
}

// fakeProfileService implements domain.ProfileService.
type fakeProfileService struct {
	profile         *domain.Profile
	err             error
	lastDisplayName string
	lastSize        string
}

func (f *fakeProfileService) GetProfile(_ context.Context, _ *domain.AuthUser) (*domain.Profile, error) {
	return f.profile, f.err
}

func (f *fakeProfileService) SaveProfile(_ context.Context, _ *domain.AuthUser, displayName, size string) (*domain.Profile, error) {
	f.lastDisplayName, f.lastSize = displayName, size
	return f.profile, f.err
}
