package domain

import (
	"context"
	"fmt"
	"time"
)

// SessionType is the kind of a conference session.
type SessionType string

// Session types. Lecture is the default.
const (
	SessionTypeLecture  SessionType = "lecture"
	SessionTypeWorkshop SessionType = "workshop"
	SessionTypeKeynote  SessionType = "keynote"
)

// ParseSessionType validates s; the empty string yields the default type.
func ParseSessionType(s string) (SessionType, error) {
	switch SessionType(s) {
	case "":
		return SessionTypeLecture, nil
	case SessionTypeLecture, SessionTypeWorkshop, SessionTypeKeynote:
		return SessionType(s), nil
	}
	return "", fmt.Errorf("%w: unknown session type %q", ErrInvalidInput, s)
}

// Layouts used for session dates and times on the wire and in filters.
const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04"
)

// TimeOfDay maps a wall-clock time onto the fixed epoch date 1970-01-01 UTC.
// Session times are stored this way and time filters must be built with it too,
// otherwise inequality comparisons cross date boundaries.
func TimeOfDay(hour, minute int) time.Time {
	return time.Date(1970, time.January, 1, hour, minute, 0, 0, time.UTC)
}

// ParseTimeOfDay parses "HH:MM" into its canonical TimeOfDay.
func ParseTimeOfDay(s string) (time.Time, error) {
	t, err := time.Parse(TimeOfDayLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return TimeOfDay(t.Hour(), t.Minute()), nil
}

// ParseDate parses a "YYYY-MM-DD" date (longer inputs are truncated to the date part).
func ParseDate(s string) (time.Time, error) {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return time.Parse(DateLayout, s)
}

// Session represents a session held at a conference.
type Session struct {
	Key            *Key
	Speaker        string
	Date           time.Time
	Time           time.Time
	Duration       int
	Location       string
	Name           string
	SessionType    SessionType
	Description    string
	MaxAttendees   int
	SeatsAvailable int
}

// PrepareForCreate assigns the session's key under conference and applies creation
// defaults. SeatsAvailable starts at MaxAttendees.
func (s *Session) PrepareForCreate(conference *Key, id string) {
	s.Key = SessionKey(conference, id)
	if s.SessionType == "" {
		s.SessionType = SessionTypeLecture
	}
	s.SeatsAvailable = 0
	if s.MaxAttendees > 0 {
		s.SeatsAvailable = s.MaxAttendees
	}
}

// ConferenceKey returns the key of the conference holding the session.
func (s *Session) ConferenceKey() *Key {
	if s.Key == nil {
		return nil
	}
	return s.Key.Parent
}

// SessionRepository defines storage operations for sessions.
type SessionRepository interface {
	Create(ctx context.Context, s *Session) error
	// GetMulti returns the sessions that exist among keys, in key order.
	GetMulti(ctx context.Context, keys []*Key) ([]*Session, error)
	// ListByConference returns the conference's sessions in creation order.
	ListByConference(ctx context.Context, conference *Key) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conference *Key, sessionType SessionType) ([]*Session, error)
	Query(ctx context.Context, q *Query) ([]*Session, error)
}

// SessionService defines session-facing operations.
type SessionService interface {
	CreateSession(ctx context.Context, user *AuthUser, conferenceKey string, s *Session) (*Session, error)
	ListByConference(ctx context.Context, conferenceKey string) ([]*Session, error)
	ListByConferenceAndType(ctx context.Context, conferenceKey string, sessionType SessionType) ([]*Session, error)
	QuerySessions(ctx context.Context, filters []Filter) ([]*Session, error)
	QueryConferenceSessions(ctx context.Context, conferenceKey string, filters []Filter) ([]*Session, error)
	ListBySpeaker(ctx context.Context, email string) ([]*Session, error)
}

// WishlistService manages a profile's session wishlist.
type WishlistService interface {
	AddToWishlist(ctx context.Context, user *AuthUser, sessionKey string) (bool, error)
	GetWishlistForConference(ctx context.Context, user *AuthUser, conferenceKey string) ([]*Session, error)
}

// FeaturedSpeakerService serves the per-conference featured speaker blurb.
type FeaturedSpeakerService interface {
	Get(ctx context.Context, conferenceKey string) (string, error)
	Refresh(ctx context.Context, conferenceKey string) (string, error)
}
