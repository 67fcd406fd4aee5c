package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"conferencecentral/internal/domain"
)

type registrationService struct {
	tx             domain.Transactor
	profileRepo    domain.ProfileRepository
	tasks          domain.TaskQueue
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewRegistrationService returns a RegistrationService that applies every change to a
// profile and its conference in one transaction.
func NewRegistrationService(
	tx domain.Transactor,
	profileRepo domain.ProfileRepository,
	tasks domain.TaskQueue,
	logger *slog.Logger,
	timeout time.Duration,
) domain.RegistrationService {
	return &registrationService{
		tx:             tx,
		profileRepo:    profileRepo,
		tasks:          tasks,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *registrationService) Register(ctx context.Context, user *domain.AuthUser, conferenceKey string) (bool, error) {
	return s.change(ctx, user, conferenceKey, true)
}

func (s *registrationService) Unregister(ctx context.Context, user *domain.AuthUser, conferenceKey string) (bool, error) {
	return s.change(ctx, user, conferenceKey, false)
}

func (s *registrationService) change(ctx context.Context, user *domain.AuthUser, conferenceKey string, register bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := getOrCreateProfile(ctx, s.profileRepo, user); err != nil {
		return false, err
	}
	key, err := domain.DecodeKeyOfKind(conferenceKey, domain.KindConference)
	if err != nil {
		return false, err
	}

	var changed bool
	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.TxRepositories) error {
		// Lock order: profile, then conference.
		prof, err := repos.Profiles.GetForUpdate(ctx, user.UserID)
		if err != nil {
			return fmt.Errorf("lock profile: %w", err)
		}
		conf, err := repos.Conferences.GetForUpdate(ctx, key)
		if err != nil {
			return conferenceLookupError(err, conferenceKey)
		}

		seats := conf.SeatsAvailable
		if register {
			if prof.IsAttending(conf.Key) {
				return domain.ErrAlreadyRegistered
			}
			if conf.SeatsAvailable <= 0 {
				return domain.ErrSoldOut
			}
			prof.ConferenceKeysToAttend = append(prof.ConferenceKeysToAttend, conf.Key)
			seats--
		} else {
			if !prof.RemoveConference(conf.Key) {
				return nil
			}
			seats++
		}

		if err := repos.Profiles.SetConferenceKeysToAttend(ctx, prof.UserID, prof.ConferenceKeysToAttend); err != nil {
			return fmt.Errorf("update profile: %w", err)
		}
		if err := repos.Conferences.UpdateSeatsAvailable(ctx, conf.Key, seats); err != nil {
			return fmt.Errorf("update conference seats: %w", err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if changed {
		enqueue(ctx, s.tasks, s.logger, domain.Task{Kind: domain.TaskAnnouncementRefresh})
	}
	return changed, nil
}
