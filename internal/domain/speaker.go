package domain

import "context"

// Speaker represents a person who leads sessions, identified by email.
type Speaker struct {
	DisplayName string
	MainEmail   string
	Bio         string
	SessionKeys []*Key
}

// Key returns the speaker's key.
func (s *Speaker) Key() *Key {
	return NewKey(KindSpeaker, s.MainEmail, nil)
}

// SpeakerRepository defines storage operations for speakers.
type SpeakerRepository interface {
	Create(ctx context.Context, s *Speaker) error
	Update(ctx context.Context, s *Speaker) error
	GetByEmail(ctx context.Context, email string) (*Speaker, error)
	// List returns one page of speakers ordered by display name, and the total count.
	List(ctx context.Context, params PaginationParams) ([]*Speaker, int, error)
	AppendSessionKey(ctx context.Context, email string, session *Key) error
}

// SpeakerService defines speaker-facing operations.
type SpeakerService interface {
	// SaveSpeaker creates the speaker or updates its non-empty display name and bio.
	SaveSpeaker(ctx context.Context, user *AuthUser, s *Speaker) (*Speaker, error)
	GetSpeaker(ctx context.Context, email string) (*Speaker, error)
	ListSpeakers(ctx context.Context, params PaginationParams) ([]*Speaker, int, error)
}
