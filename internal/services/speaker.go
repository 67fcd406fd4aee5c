package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type speakerService struct {
	speakerRepo    domain.SpeakerRepository
	contextTimeout time.Duration
}

// NewSpeakerService returns a SpeakerService.
func NewSpeakerService(speakerRepo domain.SpeakerRepository, timeout time.Duration) domain.SpeakerService {
	return &speakerService{speakerRepo: speakerRepo, contextTimeout: timeout}
}

func (s *speakerService) SaveSpeaker(ctx context.Context, user *domain.AuthUser, sp *domain.Speaker) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	sp.MainEmail = strings.TrimSpace(sp.MainEmail)
	if sp.MainEmail == "" {
		return nil, fmt.Errorf("%w: speaker 'mainEmail' field required", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(sp.MainEmail) {
		return nil, fmt.Errorf("%w: invalid speaker email %q", domain.ErrInvalidInput, sp.MainEmail)
	}

	existing, err := s.speakerRepo.GetByEmail(ctx, sp.MainEmail)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	if existing == nil {
		if sp.DisplayName == "" {
			return nil, fmt.Errorf("%w: speaker 'displayName' field required", domain.ErrInvalidInput)
		}
		sp.SessionKeys = nil
		if err := s.speakerRepo.Create(ctx, sp); err != nil {
			return nil, fmt.Errorf("create speaker: %w", err)
		}
		return sp, nil
	}

	if sp.DisplayName != "" {
		existing.DisplayName = sp.DisplayName
	}
	if sp.Bio != "" {
		existing.Bio = sp.Bio
	}
	if err := s.speakerRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("update speaker: %w", err)
	}
	return existing, nil
}

func (s *speakerService) GetSpeaker(ctx context.Context, email string) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	return getSpeaker(ctx, s.speakerRepo, email)
}

func (s *speakerService) ListSpeakers(ctx context.Context, params domain.PaginationParams) ([]*domain.Speaker, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speakers, total, err := s.speakerRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list speakers: %w", err)
	}
	return speakers, total, nil
}
