package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"conferencecentral/internal/domain"
)

type profileService struct {
	profileRepo    domain.ProfileRepository
	contextTimeout time.Duration
}

// NewProfileService returns a ProfileService backed by profileRepo.
func NewProfileService(profileRepo domain.ProfileRepository, timeout time.Duration) domain.ProfileService {
	return &profileService{profileRepo: profileRepo, contextTimeout: timeout}
}

func (s *profileService) GetProfile(ctx context.Context, user *domain.AuthUser) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return getOrCreateProfile(ctx, s.profileRepo, user)
}

func (s *profileService) SaveProfile(ctx context.Context, user *domain.AuthUser, displayName, teeShirtSize string) (*domain.Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prof, err := getOrCreateProfile(ctx, s.profileRepo, user)
	if err != nil {
		return nil, err
	}
	if displayName != "" {
		prof.DisplayName = displayName
	}
	if teeShirtSize != "" {
		size, err := domain.ParseTeeShirtSize(teeShirtSize)
		if err != nil {
			return nil, err
		}
		prof.TeeShirtSize = size
	}
	if err := s.profileRepo.Update(ctx, prof); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return prof, nil
}

// getOrCreateProfile returns the caller's profile, storing a new one on first access.
func getOrCreateProfile(ctx context.Context, repo domain.ProfileRepository, user *domain.AuthUser) (*domain.Profile, error) {
	if user == nil || user.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	prof, err := repo.GetByUserID(ctx, user.UserID)
	if err == nil {
		return prof, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	prof = domain.NewProfile(user)
	if err := repo.Create(ctx, prof); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return prof, nil
}

// organizerDisplayName returns the organizer's display name, or "" when the profile is missing.
func organizerDisplayName(ctx context.Context, repo domain.ProfileRepository, userID string) (string, error) {
	prof, err := repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("get organizer profile: %w", err)
	}
	return prof.DisplayName, nil
}
