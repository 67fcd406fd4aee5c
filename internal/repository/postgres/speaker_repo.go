package postgres

import (
	"context"
	"database/sql"
	"errors"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

type speakerRepository struct {
	DB dbtx
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{
		DB: db,
	}
}

func (r *speakerRepository) Create(ctx context.Context, s *domain.Speaker) error {
	query := `
		INSERT INTO speakers (email, display_name, bio, session_keys)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.DB.ExecContext(ctx, query, s.MainEmail, s.DisplayName, s.Bio, pq.Array(encodeKeys(s.SessionKeys)))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *speakerRepository) Update(ctx context.Context, s *domain.Speaker) error {
	query := `UPDATE speakers SET display_name = $2, bio = $3 WHERE email = $1`
	res, err := r.DB.ExecContext(ctx, query, s.MainEmail, s.DisplayName, s.Bio)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *speakerRepository) GetByEmail(ctx context.Context, email string) (*domain.Speaker, error) {
	query := `SELECT email, display_name, bio, session_keys FROM speakers WHERE email = $1`
	s, err := scanSpeaker(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *speakerRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Speaker, int, error) {
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM speakers`).Scan(&total); err != nil {
		return nil, 0, err
	}
	query := `
		SELECT email, display_name, bio, session_keys
		FROM speakers
		ORDER BY display_name, email
		LIMIT $1 OFFSET $2
	`
	rows, err := r.DB.QueryContext(ctx, query, params.Limit(), params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		s, err := scanSpeaker(rows)
		if err != nil {
			return nil, 0, err
		}
		speakers = append(speakers, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return speakers, total, nil
}

func (r *speakerRepository) AppendSessionKey(ctx context.Context, email string, session *domain.Key) error {
	query := `UPDATE speakers SET session_keys = array_append(session_keys, $2) WHERE email = $1`
	res, err := r.DB.ExecContext(ctx, query, email, session.Encode())
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func scanSpeaker(row rowScanner) (*domain.Speaker, error) {
	s := &domain.Speaker{}
	var keys pq.StringArray
	if err := row.Scan(&s.MainEmail, &s.DisplayName, &s.Bio, &keys); err != nil {
		return nil, err
	}
	decoded, err := decodeKeys(keys)
	if err != nil {
		return nil, err
	}
	s.SessionKeys = decoded
	return s, nil
}
