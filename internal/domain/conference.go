package domain

import (
	"context"
	"time"
)

// Conference creation defaults for fields the organizer left empty.
const DefaultCity = "Default City"

// DefaultTopics are assigned when a conference is created without topics.
var DefaultTopics = []string{"Default", "Topic"}

// Conference represents a conference organized by a Profile.
type Conference struct {
	Key             *Key
	Name            string
	Description     string
	OrganizerUserID string
	Topics          []string
	City            string
	StartDate       *time.Time
	EndDate         *time.Time
	Month           int
	MaxAttendees    int
	SeatsAvailable  int
}

// PrepareForCreate assigns the conference's key under organizerID and applies creation
// defaults: empty city and topics get their defaults, Month follows StartDate and
// SeatsAvailable starts at MaxAttendees.
func (c *Conference) PrepareForCreate(organizerID, id string) {
	c.Key = ConferenceKey(organizerID, id)
	c.OrganizerUserID = organizerID
	if c.City == "" {
		c.City = DefaultCity
	}
	if len(c.Topics) == 0 {
		c.Topics = append([]string(nil), DefaultTopics...)
	}
	c.Month = 0
	if c.StartDate != nil {
		c.Month = int(c.StartDate.Month())
	}
	c.SeatsAvailable = 0
	if c.MaxAttendees > 0 {
		c.SeatsAvailable = c.MaxAttendees
	}
}

// ConferenceRepository defines storage operations for conferences.
type ConferenceRepository interface {
	Create(ctx context.Context, c *Conference) error
	GetByKey(ctx context.Context, key *Key) (*Conference, error)
	// GetForUpdate reads the conference and, inside a transaction, locks it until commit.
	GetForUpdate(ctx context.Context, key *Key) (*Conference, error)
	// GetMulti returns the conferences that exist among keys, in key order.
	GetMulti(ctx context.Context, keys []*Key) ([]*Conference, error)
	ListByOrganizer(ctx context.Context, organizerUserID string) ([]*Conference, error)
	Query(ctx context.Context, q *Query) ([]*Conference, error)
	// ListNamesBySeatsAvailable projects names of conferences with min < seatsAvailable <= max.
	ListNamesBySeatsAvailable(ctx context.Context, min, max int) ([]string, error)
	UpdateSeatsAvailable(ctx context.Context, key *Key, seats int) error
}

// ConferenceWithOrganizer bundles a conference with its organizer's display name.
type ConferenceWithOrganizer struct {
	Conference           *Conference
	OrganizerDisplayName string
}

// ConferenceService defines conference-facing operations.
type ConferenceService interface {
	CreateConference(ctx context.Context, user *AuthUser, c *Conference) (*Conference, error)
	GetConference(ctx context.Context, websafeKey string) (*ConferenceWithOrganizer, error)
	QueryConferences(ctx context.Context, filters []Filter) ([]*Conference, error)
	ListCreated(ctx context.Context, user *AuthUser) ([]*ConferenceWithOrganizer, error)
	ListAttending(ctx context.Context, user *AuthUser) ([]*Conference, error)
}

// RegistrationService registers and unregisters profiles for conferences.
type RegistrationService interface {
	// Register returns ErrAlreadyRegistered or ErrSoldOut when the seat cannot be taken.
	Register(ctx context.Context, user *AuthUser, conferenceKey string) (bool, error)
	// Unregister returns false when the profile was not registered.
	Unregister(ctx context.Context, user *AuthUser, conferenceKey string) (bool, error)
}

// AnnouncementService serves the near-sold-out announcement.
type AnnouncementService interface {
	Get(ctx context.Context) (string, error)
	Refresh(ctx context.Context) (string, error)
}
