package services

import (
	"context"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

type wishlistService struct {
	profileRepo    domain.ProfileRepository
	sessionRepo    domain.SessionRepository
	contextTimeout time.Duration
}

// NewWishlistService returns a WishlistService.
func NewWishlistService(profileRepo domain.ProfileRepository, sessionRepo domain.SessionRepository, timeout time.Duration) domain.WishlistService {
	return &wishlistService{profileRepo: profileRepo, sessionRepo: sessionRepo, contextTimeout: timeout}
}

// AddToWishlist appends the session to the caller's wishlist. Sessions already on
// the wishlist are appended again.
func (s *wishlistService) AddToWishlist(ctx context.Context, user *domain.AuthUser, sessionKey string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prof, err := getOrCreateProfile(ctx, s.profileRepo, user)
	if err != nil {
		return false, err
	}
	key, err := domain.DecodeKeyOfKind(sessionKey, domain.KindSession)
	if err != nil {
		return false, err
	}
	found, err := s.sessionRepo.GetMulti(ctx, []*domain.Key{key})
	if err != nil {
		return false, fmt.Errorf("get session: %w", err)
	}
	if len(found) == 0 {
		return false, fmt.Errorf("%w: no session found with key %s", domain.ErrNotFound, sessionKey)
	}
	if err := s.profileRepo.AppendWishlistSession(ctx, prof.UserID, key); err != nil {
		return false, fmt.Errorf("append wishlist session: %w", err)
	}
	return true, nil
}

func (s *wishlistService) GetWishlistForConference(ctx context.Context, user *domain.AuthUser, conferenceKey string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prof, err := getOrCreateProfile(ctx, s.profileRepo, user)
	if err != nil {
		return nil, err
	}
	conf, err := domain.DecodeKeyOfKind(conferenceKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	var keys []*domain.Key
	for _, k := range prof.SessionKeysWishList {
		if k.Parent.Equal(conf) {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return []*domain.Session{}, nil
	}
	sessions, err := s.sessionRepo.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}
	return sessions, nil
}
