package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

const (
	// AnnouncementCacheKey is the cache slot holding the announcement.
	AnnouncementCacheKey = "CONFERENCE_ANNOUNCEMENTS"

	announcementPrefix = "Last chance to attend! The following conferences are nearly sold out: "

	// Conferences with nearlySoldOutMin < seatsAvailable <= nearlySoldOutMax are nearly sold out.
	nearlySoldOutMin = 0
	nearlySoldOutMax = 5
)

type announcementService struct {
	conferenceRepo domain.ConferenceRepository
	cache          domain.Cache
	contextTimeout time.Duration
}

// NewAnnouncementService returns a read-through cached AnnouncementService.
func NewAnnouncementService(conferenceRepo domain.ConferenceRepository, cache domain.Cache, timeout time.Duration) domain.AnnouncementService {
	return &announcementService{conferenceRepo: conferenceRepo, cache: cache, contextTimeout: timeout}
}

// Refresh recomputes the announcement. It stores the text when some conference is
// nearly sold out and clears the cache slot otherwise.
func (s *announcementService) Refresh(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	names, err := s.conferenceRepo.ListNamesBySeatsAvailable(ctx, nearlySoldOutMin, nearlySoldOutMax)
	if err != nil {
		return "", fmt.Errorf("list nearly sold out conferences: %w", err)
	}
	if len(names) == 0 {
		s.cache.Delete(ctx, AnnouncementCacheKey)
		return "", nil
	}
	text := announcementPrefix + strings.Join(names, ", ")
	s.cache.Set(ctx, AnnouncementCacheKey, text)
	return text, nil
}

func (s *announcementService) Get(ctx context.Context) (string, error) {
	if text, ok := s.cache.Get(ctx, AnnouncementCacheKey); ok {
		return text, nil
	}
	return s.Refresh(ctx)
}
