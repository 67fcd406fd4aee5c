package services

import (
	"context"
	"fmt"
	"log/slog"

	"conferencecentral/internal/domain"
)

// enqueue hands task to the queue. Failures are logged and never returned to the caller.
func enqueue(ctx context.Context, queue domain.TaskQueue, logger *slog.Logger, task domain.Task) {
	if queue == nil {
		return
	}
	if err := queue.Enqueue(context.WithoutCancel(ctx), task); err != nil {
		logger.WarnContext(ctx, "enqueue task failed", "kind", task.Kind, "err", err)
	}
}

// TaskHandlers consumes the background tasks enqueued by the services.
// Every handler may run more than once for the same task.
type TaskHandlers struct {
	Announcements    domain.AnnouncementService
	FeaturedSpeakers domain.FeaturedSpeakerService
	Conferences      domain.ConferenceRepository
	Sessions         domain.SessionRepository
	Email            domain.EmailService
}

// RefreshAnnouncement recomputes the near-sold-out announcement.
func (h *TaskHandlers) RefreshAnnouncement(ctx context.Context, _ map[string]string) error {
	_, err := h.Announcements.Refresh(ctx)
	return err
}

// RefreshFeaturedSpeaker recomputes the featured speaker of one conference.
func (h *TaskHandlers) RefreshFeaturedSpeaker(ctx context.Context, params map[string]string) error {
	_, err := h.FeaturedSpeakers.Refresh(ctx, params[domain.TaskParamConferenceKey])
	return err
}

// SendConferenceConfirmation emails the organizer about a newly created conference.
func (h *TaskHandlers) SendConferenceConfirmation(ctx context.Context, params map[string]string) error {
	key, err := domain.DecodeKeyOfKind(params[domain.TaskParamConferenceKey], domain.KindConference)
	if err != nil {
		return err
	}
	conf, err := h.Conferences.GetByKey(ctx, key)
	if err != nil {
		return fmt.Errorf("get conference: %w", err)
	}
	data := &domain.ConferenceConfirmationEmailData{
		Email:          params[domain.TaskParamEmail],
		ConferenceName: conf.Name,
		City:           conf.City,
		WebsafeKey:     conf.Key.Encode(),
	}
	if conf.StartDate != nil {
		data.StartDate = conf.StartDate.Format(domain.DateLayout)
	}
	return h.Email.SendConferenceConfirmation(ctx, data)
}

// SendSessionConfirmation emails the organizer about a newly created session.
func (h *TaskHandlers) SendSessionConfirmation(ctx context.Context, params map[string]string) error {
	key, err := domain.DecodeKeyOfKind(params[domain.TaskParamSessionKey], domain.KindSession)
	if err != nil {
		return err
	}
	sessions, err := h.Sessions.GetMulti(ctx, []*domain.Key{key})
	if err != nil {
		return fmt.Errorf("get session: %w", err)
	}
	if len(sessions) == 0 {
		return fmt.Errorf("%w: session %s", domain.ErrNotFound, params[domain.TaskParamSessionKey])
	}
	sess := sessions[0]
	data := &domain.SessionConfirmationEmailData{
		Email:       params[domain.TaskParamEmail],
		SessionName: sess.Name,
		Speaker:     sess.Speaker,
		Date:        sess.Date.Format(domain.DateLayout),
		Time:        sess.Time.Format(domain.TimeOfDayLayout),
	}
	if conf, err := h.Conferences.GetByKey(ctx, sess.ConferenceKey()); err == nil {
		data.ConferenceName = conf.Name
	}
	return h.Email.SendSessionConfirmation(ctx, data)
}
