package domain

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
)

// Entity kinds used in keys.
const (
	KindProfile    = "Profile"
	KindConference = "Conference"
	KindSession    = "Session"
	KindSpeaker    = "Speaker"
)

// Key identifies a stored entity. Conferences are parented by the organizing
// Profile and sessions by their Conference, so a key carries its full ancestor path.
type Key struct {
	Kind   string
	ID     string
	Parent *Key
}

// NewKey returns a key of the given kind and id under parent (which may be nil).
func NewKey(kind, id string, parent *Key) *Key {
	return &Key{Kind: kind, ID: id, Parent: parent}
}

// ProfileKey returns the key of the profile owned by userID.
func ProfileKey(userID string) *Key {
	return NewKey(KindProfile, userID, nil)
}

// ConferenceKey returns the key of conference id organized by organizerID.
func ConferenceKey(organizerID, id string) *Key {
	return NewKey(KindConference, id, ProfileKey(organizerID))
}

// SessionKey returns the key of session id under conference.
func SessionKey(conference *Key, id string) *Key {
	return NewKey(KindSession, id, conference)
}

// Encode returns the web-safe string form of the key.
func (k *Key) Encode() string {
	if k == nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(k.path()))
}

func (k *Key) String() string {
	return k.Encode()
}

func (k *Key) path() string {
	elem := url.PathEscape(k.Kind) + "," + url.PathEscape(k.ID)
	if k.Parent == nil {
		return elem
	}
	return k.Parent.path() + "/" + elem
}

// Equal reports whether k and o identify the same entity.
func (k *Key) Equal(o *Key) bool {
	if k == nil || o == nil {
		return k == o
	}
	return k.Kind == o.Kind && k.ID == o.ID && k.Parent.Equal(o.Parent)
}

// DecodeKey parses a web-safe key. Malformed input returns an error wrapping ErrNotFound.
func DecodeKey(s string) (*Key, error) {
	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil || len(raw) == 0 {
		return nil, fmt.Errorf("%w: malformed key %q", ErrNotFound, s)
	}
	var key *Key
	for _, elem := range strings.Split(string(raw), "/") {
		kind, id, ok := strings.Cut(elem, ",")
		if !ok {
			return nil, fmt.Errorf("%w: malformed key %q", ErrNotFound, s)
		}
		kind, err1 := url.PathUnescape(kind)
		id, err2 := url.PathUnescape(id)
		if err1 != nil || err2 != nil || kind == "" || id == "" {
			return nil, fmt.Errorf("%w: malformed key %q", ErrNotFound, s)
		}
		key = NewKey(kind, id, key)
	}
	return key, nil
}

// DecodeKeyOfKind decodes s and checks the key's kind.
func DecodeKeyOfKind(s, kind string) (*Key, error) {
	key, err := DecodeKey(s)
	if err != nil {
		return nil, err
	}
	if key.Kind != kind {
		return nil, fmt.Errorf("%w: no %s found with key %s", ErrNotFound, strings.ToLower(kind), s)
	}
	return key, nil
}
