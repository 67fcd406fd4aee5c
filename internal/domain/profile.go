package domain

import (
	"context"
	"fmt"
	"strings"
)

// TeeShirtSize is a profile's shirt size.
type TeeShirtSize string

// Tee-shirt sizes, suffixed _M (men's) or _W (women's).
const (
	TeeShirtNotSpecified TeeShirtSize = "NOT_SPECIFIED"
	TeeShirtXSM          TeeShirtSize = "XS_M"
	TeeShirtXSW          TeeShirtSize = "XS_W"
	TeeShirtSM           TeeShirtSize = "S_M"
	TeeShirtSW           TeeShirtSize = "S_W"
	TeeShirtMM           TeeShirtSize = "M_M"
	TeeShirtMW           TeeShirtSize = "M_W"
	TeeShirtLM           TeeShirtSize = "L_M"
	TeeShirtLW           TeeShirtSize = "L_W"
	TeeShirtXLM          TeeShirtSize = "XL_M"
	TeeShirtXLW          TeeShirtSize = "XL_W"
	TeeShirtXXLM         TeeShirtSize = "XXL_M"
	TeeShirtXXLW         TeeShirtSize = "XXL_W"
	TeeShirtXXXLM        TeeShirtSize = "XXXL_M"
	TeeShirtXXXLW        TeeShirtSize = "XXXL_W"
)

var teeShirtSizes = map[TeeShirtSize]struct{}{
	TeeShirtNotSpecified: {}, TeeShirtXSM: {}, TeeShirtXSW: {}, TeeShirtSM: {}, TeeShirtSW: {},
	TeeShirtMM: {}, TeeShirtMW: {}, TeeShirtLM: {}, TeeShirtLW: {}, TeeShirtXLM: {}, TeeShirtXLW: {},
	TeeShirtXXLM: {}, TeeShirtXXLW: {}, TeeShirtXXXLM: {}, TeeShirtXXXLW: {},
}

// ParseTeeShirtSize validates s against the known sizes.
func ParseTeeShirtSize(s string) (TeeShirtSize, error) {
	size := TeeShirtSize(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := teeShirtSizes[size]; !ok {
		return "", fmt.Errorf("%w: unknown tee shirt size %q", ErrInvalidInput, s)
	}
	return size, nil
}

// Profile holds per-user conference data. Its key id is the user id.
type Profile struct {
	UserID                 string
	DisplayName            string
	MainEmail              string
	TeeShirtSize           TeeShirtSize
	ConferenceKeysToAttend []*Key
	SessionKeysWishList    []*Key
}

// NewProfile returns the profile created on a user's first access.
func NewProfile(user *AuthUser) *Profile {
	displayName, _, _ := strings.Cut(user.Email, "@")
	return &Profile{
		UserID:       user.UserID,
		DisplayName:  displayName,
		MainEmail:    user.Email,
		TeeShirtSize: TeeShirtNotSpecified,
	}
}

// Key returns the profile's key.
func (p *Profile) Key() *Key {
	return ProfileKey(p.UserID)
}

// IsAttending reports whether conference is among the profile's registrations.
func (p *Profile) IsAttending(conference *Key) bool {
	return indexOfKey(p.ConferenceKeysToAttend, conference) >= 0
}

// RemoveConference drops conference from the registrations and reports whether it was present.
func (p *Profile) RemoveConference(conference *Key) bool {
	i := indexOfKey(p.ConferenceKeysToAttend, conference)
	if i < 0 {
		return false
	}
	p.ConferenceKeysToAttend = append(p.ConferenceKeysToAttend[:i:i], p.ConferenceKeysToAttend[i+1:]...)
	return true
}

func indexOfKey(keys []*Key, k *Key) int {
	for i, candidate := range keys {
		if candidate.Equal(k) {
			return i
		}
	}
	return -1
}

// ProfileRepository defines storage operations for profiles.
type ProfileRepository interface {
	// Create stores p unless a profile with the same user id exists.
	Create(ctx context.Context, p *Profile) error
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// GetForUpdate reads the profile and, inside a transaction, locks it until commit.
	GetForUpdate(ctx context.Context, userID string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	SetConferenceKeysToAttend(ctx context.Context, userID string, keys []*Key) error
	AppendWishlistSession(ctx context.Context, userID string, session *Key) error
}

// ProfileService defines profile-facing operations.
type ProfileService interface {
	// GetProfile returns the caller's profile, creating it on first access.
	GetProfile(ctx context.Context, user *AuthUser) (*Profile, error)
	// SaveProfile updates the non-empty fields of the caller's profile.
	SaveProfile(ctx context.Context, user *AuthUser, displayName, teeShirtSize string) (*Profile, error)
}
