package domain

import "context"

// Cache is a process-wide key to text store for derived views.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Delete(ctx context.Context, key string)
}

// Task kinds.
const (
	TaskAnnouncementRefresh    = "announcement.refresh"
	TaskFeaturedSpeakerRefresh = "featured_speaker.refresh"
	TaskConferenceConfirmation = "email.conference_confirmation"
	TaskSessionConfirmation    = "email.session_confirmation"
)

// Task parameter names.
const (
	TaskParamConferenceKey = "websafeConferenceKey"
	TaskParamSessionKey    = "websafeSessionKey"
	TaskParamEmail         = "email"
)

// Task is a unit of background work.
type Task struct {
	Kind   string
	Params map[string]string
}

// TaskQueue accepts fire-and-forget background work. Enqueue must not block on
// the work itself; consumers must be safe to run more than once.
type TaskQueue interface {
	Enqueue(ctx context.Context, task Task) error
}

// TxRepositories are the repositories bound to a running transaction.
type TxRepositories struct {
	Conferences ConferenceRepository
	Profiles    ProfileRepository
	Sessions    SessionRepository
	Speakers    SpeakerRepository
}

// Transactor runs fn atomically. If fn returns an error nothing it wrote is kept.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}

// AuthUser is the authenticated caller.
type AuthUser struct {
	UserID string
	Email  string
}

// TokenIssuer issues bearer tokens.
type TokenIssuer interface {
	Issue(user *AuthUser) (string, error)
}

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (*AuthUser, error)
}
