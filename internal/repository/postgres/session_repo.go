package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

const sessionColumnList = `websafe_key, name, speaker, date, time_of_day, duration, location, session_type, description, max_attendees, seats_available`

type sessionRepository struct {
	DB dbtx
}

func NewSessionRepository(db *sql.DB) domain.SessionRepository {
	return &sessionRepository{
		DB: db,
	}
}

func (r *sessionRepository) Create(ctx context.Context, s *domain.Session) error {
	query := `
		INSERT INTO sessions (websafe_key, conference_key, name, speaker, date, time_of_day, duration, location, session_type, description, max_attendees, seats_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.DB.ExecContext(ctx, query,
		s.Key.Encode(), s.ConferenceKey().Encode(), s.Name, s.Speaker, s.Date, s.Time, s.Duration,
		s.Location, string(s.SessionType), s.Description, s.MaxAttendees, s.SeatsAvailable,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *sessionRepository) GetMulti(ctx context.Context, keys []*domain.Key) ([]*domain.Session, error) {
	if len(keys) == 0 {
		return []*domain.Session{}, nil
	}
	query := `SELECT ` + sessionColumnList + ` FROM sessions WHERE websafe_key = ANY($1)`
	sessions, err := r.list(ctx, query, pq.Array(encodeKeys(keys)))
	if err != nil {
		return nil, err
	}
	return orderByKeys(keys, sessions, func(s *domain.Session) *domain.Key { return s.Key }), nil
}

func (r *sessionRepository) ListByConference(ctx context.Context, conference *domain.Key) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumnList + `
		FROM sessions
		WHERE conference_key = $1
		ORDER BY created_at, websafe_key
	`
	return r.list(ctx, query, conference.Encode())
}

func (r *sessionRepository) ListByConferenceAndType(ctx context.Context, conference *domain.Key, sessionType domain.SessionType) ([]*domain.Session, error) {
	query := `
		SELECT ` + sessionColumnList + `
		FROM sessions
		WHERE conference_key = $1 AND session_type = $2
		ORDER BY created_at, websafe_key
	`
	return r.list(ctx, query, conference.Encode(), string(sessionType))
}

func (r *sessionRepository) Query(ctx context.Context, q *domain.Query) ([]*domain.Session, error) {
	p := &sqlPlan{}
	if q.Ancestor != nil {
		if q.Ancestor.Kind != domain.KindConference {
			return nil, fmt.Errorf("%w: sessions are scoped by conference", domain.ErrInvalidFilter)
		}
		p.addCondition("conference_key = %s", q.Ancestor.Encode())
	}
	if err := translate(q, sessionColumns, p); err != nil {
		return nil, err
	}
	return r.list(ctx, `SELECT `+sessionColumnList+` FROM sessions`+p.clauses(), p.args...)
}

func (r *sessionRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Session, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]*domain.Session, 0)
	for rows.Next() {
		s := &domain.Session{}
		var key, sessionType string
		if err := rows.Scan(
			&key, &s.Name, &s.Speaker, &s.Date, &s.Time, &s.Duration,
			&s.Location, &sessionType, &s.Description, &s.MaxAttendees, &s.SeatsAvailable,
		); err != nil {
			return nil, err
		}
		k, err := domain.DecodeKey(key)
		if err != nil {
			return nil, fmt.Errorf("decode session key: %w", err)
		}
		s.Key = k
		s.SessionType = domain.SessionType(sessionType)
		s.Date = s.Date.UTC()
		s.Time = s.Time.UTC()
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
