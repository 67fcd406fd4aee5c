package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

const conferenceColumnList = `websafe_key, organizer_user_id, name, description, topics, city, start_date, end_date, month, max_attendees, seats_available`

type conferenceRepository struct {
	DB dbtx
}

func NewConferenceRepository(db *sql.DB) domain.ConferenceRepository {
	return &conferenceRepository{
		DB: db,
	}
}

func (r *conferenceRepository) Create(ctx context.Context, c *domain.Conference) error {
	query := `
		INSERT INTO conferences (` + conferenceColumnList + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.DB.ExecContext(ctx, query,
		c.Key.Encode(), c.OrganizerUserID, c.Name, c.Description, pq.Array(c.Topics), c.City,
		nullTime(c.StartDate), nullTime(c.EndDate), c.Month, c.MaxAttendees, c.SeatsAvailable,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *conferenceRepository) GetByKey(ctx context.Context, key *domain.Key) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumnList + ` FROM conferences WHERE websafe_key = $1`
	return r.getOne(ctx, query, key)
}

func (r *conferenceRepository) GetForUpdate(ctx context.Context, key *domain.Key) (*domain.Conference, error) {
	query := `SELECT ` + conferenceColumnList + ` FROM conferences WHERE websafe_key = $1 FOR UPDATE`
	return r.getOne(ctx, query, key)
}

func (r *conferenceRepository) getOne(ctx context.Context, query string, key *domain.Key) (*domain.Conference, error) {
	c, err := scanConference(r.DB.QueryRowContext(ctx, query, key.Encode()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *conferenceRepository) GetMulti(ctx context.Context, keys []*domain.Key) ([]*domain.Conference, error) {
	if len(keys) == 0 {
		return []*domain.Conference{}, nil
	}
	query := `SELECT ` + conferenceColumnList + ` FROM conferences WHERE websafe_key = ANY($1)`
	confs, err := r.list(ctx, query, pq.Array(encodeKeys(keys)))
	if err != nil {
		return nil, err
	}
	return orderByKeys(keys, confs, func(c *domain.Conference) *domain.Key { return c.Key }), nil
}

func (r *conferenceRepository) ListByOrganizer(ctx context.Context, organizerUserID string) ([]*domain.Conference, error) {
	query := `
		SELECT ` + conferenceColumnList + `
		FROM conferences
		WHERE organizer_user_id = $1
		ORDER BY name
	`
	return r.list(ctx, query, organizerUserID)
}

func (r *conferenceRepository) Query(ctx context.Context, q *domain.Query) ([]*domain.Conference, error) {
	p := &sqlPlan{}
	if q.Ancestor != nil {
		if q.Ancestor.Kind != domain.KindProfile {
			return nil, fmt.Errorf("%w: conferences are scoped by profile", domain.ErrInvalidFilter)
		}
		p.addCondition("organizer_user_id = %s", q.Ancestor.ID)
	}
	if err := translate(q, conferenceColumns, p); err != nil {
		return nil, err
	}
	return r.list(ctx, `SELECT `+conferenceColumnList+` FROM conferences`+p.clauses(), p.args...)
}

func (r *conferenceRepository) ListNamesBySeatsAvailable(ctx context.Context, min, max int) ([]string, error) {
	query := `
		SELECT name
		FROM conferences
		WHERE seats_available > $1 AND seats_available <= $2
		ORDER BY name
	`
	rows, err := r.DB.QueryContext(ctx, query, min, max)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *conferenceRepository) UpdateSeatsAvailable(ctx context.Context, key *domain.Key, seats int) error {
	query := `UPDATE conferences SET seats_available = $2 WHERE websafe_key = $1`
	res, err := r.DB.ExecContext(ctx, query, key.Encode(), seats)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *conferenceRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Conference, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	confs := make([]*domain.Conference, 0)
	for rows.Next() {
		c, err := scanConference(rows)
		if err != nil {
			return nil, err
		}
		confs = append(confs, c)
	}
	return confs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConference(row rowScanner) (*domain.Conference, error) {
	c := &domain.Conference{}
	var key string
	var topics pq.StringArray
	var start, end sql.NullTime
	if err := row.Scan(
		&key, &c.OrganizerUserID, &c.Name, &c.Description, &topics, &c.City,
		&start, &end, &c.Month, &c.MaxAttendees, &c.SeatsAvailable,
	); err != nil {
		return nil, err
	}
	k, err := domain.DecodeKey(key)
	if err != nil {
		return nil, fmt.Errorf("decode conference key: %w", err)
	}
	c.Key = k
	c.Topics = []string(topics)
	c.StartDate = timePtr(start)
	c.EndDate = timePtr(end)
	return c, nil
}
