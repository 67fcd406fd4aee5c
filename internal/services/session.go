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

// featuredSpeakerThreshold is the number of sessions at one conference that makes a speaker featured.
const featuredSpeakerThreshold = 2

type sessionService struct {
	tx             domain.Transactor
	conferenceRepo domain.ConferenceRepository
	sessionRepo    domain.SessionRepository
	speakerRepo    domain.SpeakerRepository
	tasks          domain.TaskQueue
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewSessionService returns a SessionService. A new session and the speaker's
// reference to it are written in one transaction on tx.
func NewSessionService(
	tx domain.Transactor,
	conferenceRepo domain.ConferenceRepository,
	sessionRepo domain.SessionRepository,
	speakerRepo domain.SpeakerRepository,
	tasks domain.TaskQueue,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SessionService {
	return &sessionService{
		tx:             tx,
		conferenceRepo: conferenceRepo,
		sessionRepo:    sessionRepo,
		speakerRepo:    speakerRepo,
		tasks:          tasks,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, user *domain.AuthUser, conferenceKey string, sess *domain.Session) (*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := validateSession(sess); err != nil {
		return nil, err
	}
	conf, err := getConference(ctx, s.conferenceRepo, conferenceKey)
	if err != nil {
		return nil, err
	}
	if conf.OrganizerUserID != user.UserID {
		return nil, fmt.Errorf("%w: only the owner can add sessions to the conference", domain.ErrForbidden)
	}
	speaker, err := getSpeaker(ctx, s.speakerRepo, sess.Speaker)
	if err != nil {
		return nil, err
	}

	sess.PrepareForCreate(conf.Key, uuid.NewString())

	// The new session counts towards the speaker's tally at this conference.
	tally := 1
	for _, k := range speaker.SessionKeys {
		if k.Parent.Equal(conf.Key) {
			tally++
		}
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context, repos domain.TxRepositories) error {
		if err := repos.Sessions.Create(ctx, sess); err != nil {
			return fmt.Errorf("create session: %w", err)
		}
		if err := repos.Speakers.AppendSessionKey(ctx, speaker.MainEmail, sess.Key); err != nil {
			return fmt.Errorf("append speaker session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	enqueue(ctx, s.tasks, s.logger, domain.Task{
		Kind: domain.TaskSessionConfirmation,
		Params: map[string]string{
			domain.TaskParamSessionKey: sess.Key.Encode(),
			domain.TaskParamEmail:      user.Email,
		},
	})
	if tally >= featuredSpeakerThreshold {
		enqueue(ctx, s.tasks, s.logger, domain.Task{
			Kind:   domain.TaskFeaturedSpeakerRefresh,
			Params: map[string]string{domain.TaskParamConferenceKey: conf.Key.Encode()},
		})
	}
	return sess, nil
}

func validateSession(sess *domain.Session) error {
	switch {
	case sess.Name == "":
		return fmt.Errorf("%w: session 'name' field required", domain.ErrInvalidInput)
	case sess.Speaker == "":
		return fmt.Errorf("%w: session 'speaker' field required", domain.ErrInvalidInput)
	case sess.Date.IsZero():
		return fmt.Errorf("%w: session 'date' field required", domain.ErrInvalidInput)
	case sess.Time.IsZero():
		return fmt.Errorf("%w: session 'time' field required", domain.ErrInvalidInput)
	case sess.Duration <= 0:
		return fmt.Errorf("%w: session 'duration' must be positive", domain.ErrInvalidInput)
	case sess.Location == "":
		return fmt.Errorf("%w: session 'location' field required", domain.ErrInvalidInput)
	case sess.MaxAttendees < 0:
		return fmt.Errorf("%w: maxAttendees must not be negative", domain.ErrInvalidInput)
	}
	if _, err := domain.ParseSessionType(string(sess.SessionType)); err != nil {
		return err
	}
	return nil
}

func (s *sessionService) ListByConference(ctx context.Context, conferenceKey string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := getConference(ctx, s.conferenceRepo, conferenceKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConference(ctx, conf.Key)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListByConferenceAndType(ctx context.Context, conferenceKey string, sessionType domain.SessionType) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	st, err := domain.ParseSessionType(string(sessionType))
	if err != nil {
		return nil, err
	}
	conf, err := getConference(ctx, s.conferenceRepo, conferenceKey)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListByConferenceAndType(ctx, conf.Key, st)
	if err != nil {
		return nil, fmt.Errorf("list sessions by type: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) QuerySessions(ctx context.Context, filters []domain.Filter) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	q, err := BuildSessionQuery(filters, nil)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, q)
}

func (s *sessionService) QueryConferenceSessions(ctx context.Context, conferenceKey string, filters []domain.Filter) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conf, err := getConference(ctx, s.conferenceRepo, conferenceKey)
	if err != nil {
		return nil, err
	}
	q, err := BuildSessionQuery(filters, conf.Key)
	if err != nil {
		return nil, err
	}
	return s.query(ctx, q)
}

func (s *sessionService) query(ctx context.Context, q *domain.Query) ([]*domain.Session, error) {
	sessions, err := s.sessionRepo.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	return sessions, nil
}

func (s *sessionService) ListBySpeaker(ctx context.Context, email string) ([]*domain.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	speaker, err := getSpeaker(ctx, s.speakerRepo, email)
	if err != nil {
		return nil, err
	}
	if len(speaker.SessionKeys) == 0 {
		return []*domain.Session{}, nil
	}
	sessions, err := s.sessionRepo.GetMulti(ctx, speaker.SessionKeys)
	if err != nil {
		return nil, fmt.Errorf("get sessions: %w", err)
	}
	return sessions, nil
}

func getSpeaker(ctx context.Context, repo domain.SpeakerRepository, email string) (*domain.Speaker, error) {
	speaker, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: no speaker found with email %s", domain.ErrNotFound, email)
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}
	return speaker, nil
}
