package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

const featuredSpeakerCacheKeyPrefix = "featuredspeaker-"

// FeaturedSpeakerCacheKey returns the cache slot of the conference's featured speaker.
func FeaturedSpeakerCacheKey(conference *domain.Key) string {
	return featuredSpeakerCacheKeyPrefix + conference.Encode()
}

type featuredSpeakerService struct {
	sessionRepo    domain.SessionRepository
	speakerRepo    domain.SpeakerRepository
	cache          domain.Cache
	contextTimeout time.Duration
}

// NewFeaturedSpeakerService returns a read-through cached FeaturedSpeakerService.
func NewFeaturedSpeakerService(sessionRepo domain.SessionRepository, speakerRepo domain.SpeakerRepository, cache domain.Cache, timeout time.Duration) domain.FeaturedSpeakerService {
	return &featuredSpeakerService{sessionRepo: sessionRepo, speakerRepo: speakerRepo, cache: cache, contextTimeout: timeout}
}

// Refresh derives the featured speaker from the conference's sessions. A speaker
// leading at least two sessions is stored and returned; otherwise nothing is cached
// and the text is empty.
func (s *featuredSpeakerService) Refresh(ctx context.Context, conferenceKey string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	key, err := domain.DecodeKeyOfKind(conferenceKey, domain.KindConference)
	if err != nil {
		return "", err
	}
	sessions, err := s.sessionRepo.ListByConference(ctx, key)
	if err != nil {
		return "", fmt.Errorf("list sessions: %w", err)
	}

	speaker, tally := topSpeaker(sessions)
	if tally < featuredSpeakerThreshold {
		// Nothing is written, so a blurb cached earlier for this conference stays.
		return "", nil
	}

	displayName := speaker
	sp, err := s.speakerRepo.GetByEmail(ctx, speaker)
	switch {
	case err == nil:
		displayName = sp.DisplayName
	case !errors.Is(err, domain.ErrNotFound):
		return "", fmt.Errorf("get speaker: %w", err)
	}

	var names []string
	for _, sess := range sessions {
		if sess.Speaker == speaker {
			names = append(names, sess.Name)
		}
	}
	text := fmt.Sprintf("Featured speaker, %s, will be leading the following sessions %s", displayName, strings.Join(names, ", "))
	s.cache.Set(ctx, FeaturedSpeakerCacheKey(key), text)
	return text, nil
}

func (s *featuredSpeakerService) Get(ctx context.Context, conferenceKey string) (string, error) {
	key, err := domain.DecodeKeyOfKind(conferenceKey, domain.KindConference)
	if err != nil {
		return "", err
	}
	if text, ok := s.cache.Get(ctx, FeaturedSpeakerCacheKey(key)); ok {
		return text, nil
	}
	return s.Refresh(ctx, conferenceKey)
}

// topSpeaker returns the speaker with the most sessions. Ties go to the greater speaker reference.
func topSpeaker(sessions []*domain.Session) (string, int) {
	counts := make(map[string]int)
	for _, sess := range sessions {
		counts[sess.Speaker]++
	}
	type candidate struct {
		speaker string
		tally   int
	}
	candidates := make([]candidate, 0, len(counts))
	for speaker, tally := range counts {
		candidates = append(candidates, candidate{speaker, tally})
	}
	if len(candidates) == 0 {
		return "", 0
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].tally != candidates[j].tally {
			return candidates[i].tally > candidates[j].tally
		}
		return candidates[i].speaker > candidates[j].speaker
	})
	return candidates[0].speaker, candidates[0].tally
}
