// Package app wires configuration, storage, background work and the HTTP API
// into a running server.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"conferencecentral/config"
	"conferencecentral/internal/adapters/auth"
	"conferencecentral/internal/adapters/email"
	"conferencecentral/internal/adapters/telemetry"
	"conferencecentral/internal/cache"
	delivery "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/domain"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
	"conferencecentral/internal/tasks"
)

const (
	serviceName     = "conferencecentral"
	shutdownTimeout = 15 * time.Second
)

// Run serves the API until ctx is cancelled, then drains HTTP requests and
// background tasks.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	shutdownTelemetry, err := telemetry.Setup(ctx, serviceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown", "err", err)
		}
	}()

	db, err := postgres.Open(ctx, cfg.DBUrl)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:             cfg.Email.SESRegion,
			AccessKeyID:        cfg.Email.SESAccessKeyID,
			SecretAccessKey:    cfg.Email.SESSecretAccessKey,
			InsecureSkipVerify: cfg.Email.InsecureSkipVerify,
		},
	}, logger)
	if err != nil {
		return fmt.Errorf("create mailer: %w", err)
	}
	renderer, err := email.NewTemplateRenderer()
	if err != nil {
		return fmt.Errorf("load email templates: %w", err)
	}

	conferenceRepo := postgres.NewConferenceRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	speakerRepo := postgres.NewSpeakerRepository(db)
	store := cache.NewMemory()

	queue := tasks.NewQueue(tasks.Config{
		Workers:     cfg.Tasks.Workers,
		Buffer:      cfg.Tasks.Buffer,
		MaxAttempts: cfg.Tasks.MaxAttempts,
		RetryDelay:  cfg.Tasks.RetryDelay,
	}, logger)

	transactor := postgres.NewTransactor(db)
	timeout := cfg.ContextTimeout
	announcements := services.NewAnnouncementService(conferenceRepo, store, timeout)
	featured := services.NewFeaturedSpeakerService(sessionRepo, speakerRepo, store, timeout)
	conferences := services.NewConferenceService(conferenceRepo, profileRepo, queue, logger, timeout)
	registrations := services.NewRegistrationService(transactor, profileRepo, queue, logger, timeout)
	sessions := services.NewSessionService(transactor, conferenceRepo, sessionRepo, speakerRepo, queue, logger, timeout)
	wishlist := services.NewWishlistService(profileRepo, sessionRepo, timeout)
	speakers := services.NewSpeakerService(speakerRepo, timeout)
	profiles := services.NewProfileService(profileRepo, timeout)

	RegisterTaskHandlers(queue, &services.TaskHandlers{
		Announcements:    announcements,
		FeaturedSpeakers: featured,
		Conferences:      conferenceRepo,
		Sessions:         sessionRepo,
		Email:            services.NewEmailService(mailer, renderer, logger),
	})

	workerCtx, stopWorkers := context.WithCancel(context.WithoutCancel(ctx))
	defer stopWorkers()
	queue.Start(workerCtx)
	go tasks.RunEvery(ctx, cfg.AnnouncementRefreshInterval, queue,
		domain.Task{Kind: domain.TaskAnnouncementRefresh}, logger)

	tokens := auth.NewJWT(cfg.JWTSecret, cfg.TokenExpiry)
	router := delivery.NewRouter(delivery.Controllers{
		Conferences: controllers.NewConferenceController(logger, conferences, registrations, announcements),
		Sessions:    controllers.NewSessionController(logger, sessions, wishlist, featured),
		Speakers:    controllers.NewSpeakerController(logger, speakers),
		Profiles:    controllers.NewProfileController(logger, profiles),
	}, tokens, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           delivery.NewHandler(router, cfg.AllowedOrigins, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve http: %w", err)
		}
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "err", err)
	}
	if err := queue.Shutdown(shutdownCtx); err != nil {
		logger.Warn("task queue shutdown", "err", err)
	}
	return nil
}

// RegisterTaskHandlers binds every task kind the services enqueue to its consumer.
func RegisterTaskHandlers(queue *tasks.Queue, h *services.TaskHandlers) {
	queue.Handle(domain.TaskAnnouncementRefresh, h.RefreshAnnouncement)
	queue.Handle(domain.TaskFeaturedSpeakerRefresh, h.RefreshFeaturedSpeaker)
	queue.Handle(domain.TaskConferenceConfirmation, h.SendConferenceConfirmation)
	queue.Handle(domain.TaskSessionConfirmation, h.SendSessionConfirmation)
}
