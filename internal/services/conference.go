package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"

	"github.com/google/uuid"
)

type conferenceService struct {
	conferenceRepo domain.ConferenceRepository
	profileRepo    domain.ProfileRepository
	tasks          domain.TaskQueue
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewConferenceService returns a ConferenceService. Creation enqueues a confirmation
// email and an announcement refresh on tasks.
func NewConferenceService(
	conferenceRepo domain.ConferenceRepository,
	profileRepo domain.ProfileRepository,
	tasks domain.TaskQueue,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ConferenceService {
	return &conferenceService{
		conferenceRepo: conferenceRepo,
		profileRepo:    profileRepo,
		tasks:          tasks,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *conferenceService) CreateConference(ctx context.Context, user *domain.AuthUser, c *domain.Conference) (*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%w: conference 'name' field required", domain.ErrInvalidInput)
	}
	if c.MaxAttendees < 0 {
		return nil, fmt.Errorf("%w: maxAttendees must not be negative", domain.ErrInvalidInput)
	}
	if c.StartDate != nil && c.EndDate != nil && c.EndDate.Before(*c.StartDate) {
		return nil, fmt.Errorf("%w: endDate is before startDate", domain.ErrInvalidInput)
	}
	if _, err := getOrCreateProfile(ctx, s.profileRepo, user); err != nil {
		return nil, err
	}

	c.PrepareForCreate(user.UserID, uuid.NewString())
	if err := s.conferenceRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create conference: %w", err)
	}

	enqueue(ctx, s.tasks, s.logger, domain.Task{
		Kind: domain.TaskConferenceConfirmation,
		Params: map[string]string{
			domain.TaskParamConferenceKey: c.Key.Encode(),
			domain.TaskParamEmail:         user.Email,
		},
	})
	enqueue(ctx, s.tasks, s.logger, domain.Task{Kind: domain.TaskAnnouncementRefresh})
	return c, nil
}

func (s *conferenceService) GetConference(ctx context.Context, websafeKey string) (*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := getConference(ctx, s.conferenceRepo, websafeKey)
	if err != nil {
		return nil, err
	}
	name, err := organizerDisplayName(ctx, s.profileRepo, conf.OrganizerUserID)
	if err != nil {
		return nil, err
	}
	return &domain.ConferenceWithOrganizer{Conference: conf, OrganizerDisplayName: name}, nil
}

func (s *conferenceService) QueryConferences(ctx context.Context, filters []domain.Filter) ([]*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	q, err := BuildConferenceQuery(filters)
	if err != nil {
		return nil, err
	}
	confs, err := s.conferenceRepo.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query conferences: %w", err)
	}
	return confs, nil
}

func (s *conferenceService) ListCreated(ctx context.Context, user *domain.AuthUser) ([]*domain.ConferenceWithOrganizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	confs, err := s.conferenceRepo.ListByOrganizer(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("list conferences by organizer: %w", err)
	}
	name, err := organizerDisplayName(ctx, s.profileRepo, user.UserID)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.ConferenceWithOrganizer, 0, len(confs))
	for _, c := range confs {
		out = append(out, &domain.ConferenceWithOrganizer{Conference: c, OrganizerDisplayName: name})
	}
	return out, nil
}

func (s *conferenceService) ListAttending(ctx context.Context, user *domain.AuthUser) ([]*domain.Conference, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	prof, err := getOrCreateProfile(ctx, s.profileRepo, user)
	if err != nil {
		return nil, err
	}
	if len(prof.ConferenceKeysToAttend) == 0 {
		return []*domain.Conference{}, nil
	}
	confs, err := s.conferenceRepo.GetMulti(ctx, prof.ConferenceKeysToAttend)
	if err != nil {
		return nil, fmt.Errorf("get conferences: %w", err)
	}
	return confs, nil
}

// getConference decodes websafeKey and loads the conference it names.
func getConference(ctx context.Context, repo domain.ConferenceRepository, websafeKey string) (*domain.Conference, error) {
	key, err := domain.DecodeKeyOfKind(websafeKey, domain.KindConference)
	if err != nil {
		return nil, err
	}
	conf, err := repo.GetByKey(ctx, key)
	if err != nil {
		return nil, conferenceLookupError(err, websafeKey)
	}
	return conf, nil
}

func conferenceLookupError(err error, websafeKey string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: no conference found with key %s", domain.ErrNotFound, websafeKey)
	}
	return fmt.Errorf("get conference: %w", err)
}
