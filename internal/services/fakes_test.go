package services

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"conferencecentral/internal/domain"
)

const testTimeout = 2 * time.Second

// testLogger is a no-op logger so tests don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

func cloneKeys(keys []*domain.Key) []*domain.Key {
	if keys == nil {
		return nil
	}
	return append([]*domain.Key(nil), keys...)
}

// fakeConferenceRepo is an in-memory ConferenceRepository that stores copies.
type fakeConferenceRepo struct {
	mu        sync.Mutex
	byKey     map[string]domain.Conference
	order     []string
	lastQuery *domain.Query
	queryOut  []*domain.Conference
	err       error
}

func newFakeConferenceRepo() *fakeConferenceRepo {
	return &fakeConferenceRepo{byKey: make(map[string]domain.Conference)}
}

func (f *fakeConferenceRepo) put(c *domain.Conference) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := c.Key.Encode()
	if _, ok := f.byKey[k]; !ok {
		f.order = append(f.order, k)
	}
	f.byKey[k] = *c
}

func (f *fakeConferenceRepo) get(key *domain.Key) (*domain.Conference, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byKey[key.Encode()]
	if !ok {
		return nil, false
	}
	return &c, true
}

func (f *fakeConferenceRepo) Create(ctx context.Context, c *domain.Conference) error {
	if f.err != nil {
		return f.err
	}
	f.put(c)
	return nil
}

func (f *fakeConferenceRepo) GetByKey(ctx context.Context, key *domain.Key) (*domain.Conference, error) {
	if c, ok := f.get(key); ok {
		return c, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeConferenceRepo) GetForUpdate(ctx context.Context, key *domain.Key) (*domain.Conference, error) {
	return f.GetByKey(ctx, key)
}

func (f *fakeConferenceRepo) GetMulti(ctx context.Context, keys []*domain.Key) ([]*domain.Conference, error) {
	out := []*domain.Conference{}
	for _, k := range keys {
		if c, ok := f.get(k); ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConferenceRepo) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Conference{}
	for _, k := range f.order {
		c := f.byKey[k]
		if c.OrganizerUserID == organizerUserID {
			out = append(out, &c)
		}
	}
	return out, nil
}

func (f *fakeConferenceRepo) Query(ctx context.Context, q *domain.Query) ([]*domain.Conference, error) {
	f.lastQuery = q
	return f.queryOut, f.err
}

func (f *fakeConferenceRepo) ListNamesBySeatsAvailable(ctx context.Context, min, max int) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for _, k := range f.order {
		c := f.byKey[k]
		if c.SeatsAvailable > min && c.SeatsAvailable <= max {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (f *fakeConferenceRepo) UpdateSeatsAvailable(ctx context.Context, key *domain.Key, seats int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.byKey[key.Encode()]
	if !ok {
		return domain.ErrNotFound
	}
	c.SeatsAvailable = seats
	f.byKey[key.Encode()] = c
	return nil
}

// fakeProfileRepo is an in-memory ProfileRepository that stores copies.
type fakeProfileRepo struct {
	mu     sync.Mutex
	byUser map[string]domain.Profile
	err    error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: make(map[string]domain.Profile)}
}

func (f *fakeProfileRepo) store(p *domain.Profile) {
	cp := *p
	cp.ConferenceKeysToAttend = cloneKeys(p.ConferenceKeysToAttend)
	cp.SessionKeysWishList = cloneKeys(p.SessionKeysWishList)
	f.byUser[p.UserID] = cp
}

func (f *fakeProfileRepo) load(userID string) (*domain.Profile, bool) {
	p, ok := f.byUser[userID]
	if !ok {
		return nil, false
	}
	p.ConferenceKeysToAttend = cloneKeys(p.ConferenceKeysToAttend)
	p.SessionKeysWishList = cloneKeys(p.SessionKeysWishList)
	return &p, true
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byUser[p.UserID]; !ok {
		f.store(p)
	}
	return nil
}

func (f *fakeProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.load(userID); ok {
		return p, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeProfileRepo) GetForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	return f.GetByUserID(ctx, userID)
}

func (f *fakeProfileRepo) Update(ctx context.Context, p *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byUser[p.UserID]; !ok {
		return domain.ErrNotFound
	}
	f.store(p)
	return nil
}

func (f *fakeProfileRepo) SetConferenceKeysToAttend(ctx context.Context, userID string, keys []*domain.Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.load(userID)
	if !ok {
		return domain.ErrNotFound
	}
	p.ConferenceKeysToAttend = keys
	f.store(p)
	return nil
}

func (f *fakeProfileRepo) AppendWishlistSession(ctx context.Context, userID string, session *domain.Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.load(userID)
	if !ok {
		return domain.ErrNotFound
	}
	p.SessionKeysWishList = append(p.SessionKeysWishList, session)
	f.store(p)
	return nil
}

// fakeSessionRepo is an in-memory SessionRepository keeping creation order.
type fakeSessionRepo struct {
	mu        sync.Mutex
	sessions  []*domain.Session
	lastQuery *domain.Query
	queryOut  []*domain.Session
	err       error
}

func (f *fakeSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *s
	f.sessions = append(f.sessions, &cp)
	return nil
}

func (f *fakeSessionRepo) GetMulti(ctx context.Context, keys []*domain.Key) ([]*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Session{}
	for _, k := range keys {
		for _, s := range f.sessions {
			if s.Key.Equal(k) {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListByConference(ctx context.Context, conference *domain.Key) ([]*domain.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Session{}
	for _, s := range f.sessions {
		if s.ConferenceKey().Equal(conference) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) ListByConferenceAndType(ctx context.Context, conference *domain.Key, sessionType domain.SessionType) ([]*domain.Session, error) {
	all, err := f.ListByConference(ctx, conference)
	if err != nil {
		return nil, err
	}
	out := []*domain.Session{}
	for _, s := range all {
		if s.SessionType == sessionType {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionRepo) Query(ctx context.Context, q *domain.Query) ([]*domain.Session, error) {
	f.lastQuery = q
	return f.queryOut, f.err
}

// fakeSpeakerRepo is an in-memory SpeakerRepository keyed by email.
type fakeSpeakerRepo struct {
	mu        sync.Mutex
	byEmail   map[string]domain.Speaker
	err       error
	appendErr error
}

func newFakeSpeakerRepo() *fakeSpeakerRepo {
	return &fakeSpeakerRepo{byEmail: make(map[string]domain.Speaker)}
}

func (f *fakeSpeakerRepo) Create(ctx context.Context, s *domain.Speaker) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[s.MainEmail]; ok {
		return domain.ErrConflict
	}
	cp := *s
	cp.SessionKeys = cloneKeys(s.SessionKeys)
	f.byEmail[s.MainEmail] = cp
	return nil
}

func (f *fakeSpeakerRepo) Update(ctx context.Context, s *domain.Speaker) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cur, ok := f.byEmail[s.MainEmail]
	if !ok {
		return domain.ErrNotFound
	}
	cur.DisplayName = s.DisplayName
	cur.Bio = s.Bio
	f.byEmail[s.MainEmail] = cur
	return nil
}

func (f *fakeSpeakerRepo) GetByEmail(ctx context.Context, email string) (*domain.Speaker, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	s.SessionKeys = cloneKeys(s.SessionKeys)
	return &s, nil
}

func (f *fakeSpeakerRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Speaker, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := make([]*domain.Speaker, 0, len(f.byEmail))
	for _, s := range f.byEmail {
		all = append(all, &s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].DisplayName < all[j].DisplayName })
	start := params.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + params.PageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], len(all), nil
}

func (f *fakeSpeakerRepo) AppendSessionKey(ctx context.Context, email string, session *domain.Key) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.byEmail[email]
	if !ok {
		return domain.ErrNotFound
	}
	s.SessionKeys = append(cloneKeys(s.SessionKeys), session)
	f.byEmail[email] = s
	return nil
}

// fakeTransactor serializes transactions over the shared fakes and restores the
// session and speaker fakes when fn fails.
type fakeTransactor struct {
	mu          sync.Mutex
	conferences *fakeConferenceRepo
	profiles    *fakeProfileRepo
	sessions    *fakeSessionRepo
	speakers    *fakeSpeakerRepo
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.TxRepositories) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	repos := domain.TxRepositories{Conferences: f.conferences, Profiles: f.profiles}
	var restore []func()
	if f.sessions != nil {
		repos.Sessions = f.sessions
		f.sessions.mu.Lock()
		saved := append([]*domain.Session(nil), f.sessions.sessions...)
		f.sessions.mu.Unlock()
		restore = append(restore, func() {
			f.sessions.mu.Lock()
			f.sessions.sessions = saved
			f.sessions.mu.Unlock()
		})
	}
	if f.speakers != nil {
		repos.Speakers = f.speakers
		f.speakers.mu.Lock()
		saved := make(map[string]domain.Speaker, len(f.speakers.byEmail))
		for k, v := range f.speakers.byEmail {
			saved[k] = v
		}
		f.speakers.mu.Unlock()
		restore = append(restore, func() {
			f.speakers.mu.Lock()
			f.speakers.byEmail = saved
			f.speakers.mu.Unlock()
		})
	}

	if err := fn(ctx, repos); err != nil {
		for _, r := range restore {
			r()
		}
		return err
	}
	return nil
}

// fakeCache is an in-memory domain.Cache.
type fakeCache struct {
	mu    sync.Mutex
	slots map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{slots: make(map[string]string)}
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.slots[key]
	return v, ok
}

func (c *fakeCache) Set(ctx context.Context, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[key] = value
}

func (c *fakeCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.slots, key)
}

// fakeQueue records enqueued tasks.
type fakeQueue struct {
	mu    sync.Mutex
	tasks []domain.Task
	err   error
}

func (q *fakeQueue) Enqueue(ctx context.Context, task domain.Task) error {
	if q.err != nil {
		return q.err
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tasks = append(q.tasks, task)
	return nil
}

func (q *fakeQueue) kinds() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, 0, len(q.tasks))
	for _, t := range q.tasks {
		out = append(out, t.Kind)
	}
	return out
}

func (q *fakeQueue) count(kind string) int {
	n := 0
	for _, k := range q.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

func testUser(id string) *domain.AuthUser {
	return &domain.AuthUser{UserID: id, Email: id + "@example.com"}
}

func mustDate(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// seedConference stores a conference organized by organizerID with the given seats.
func seedConference(repo *fakeConferenceRepo, organizerID, id, name string, maxAttendees int) *domain.Conference {
	c := &domain.Conference{Name: name, MaxAttendees: maxAttendees}
	c.PrepareForCreate(organizerID, id)
	repo.put(c)
	return c
}

// seedSession stores a session by speaker under conference.
func seedSession(repo *fakeSessionRepo, conference *domain.Key, id, name, speaker string) *domain.Session {
	s := &domain.Session{
		Name:     name,
		Speaker:  speaker,
		Date:     mustDate("2026-05-01"),
		Time:     domain.TimeOfDay(10, 0),
		Duration: 60,
		Location: "Room 1",
	}
	s.PrepareForCreate(conference, id)
	repo.sessions = append(repo.sessions, s)
	return s
}
