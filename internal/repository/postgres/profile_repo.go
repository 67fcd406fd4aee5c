package postgres

import (
	"context"
	"database/sql"
	"errors"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

const profileColumnList = `user_id, display_name, main_email, tee_shirt_size, conference_keys_to_attend, session_keys_wish_list`

type profileRepository struct {
	DB dbtx
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{
		DB: db,
	}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.Profile) error {
	query := `
		INSERT INTO profiles (` + profileColumnList + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query,
		p.UserID, p.DisplayName, p.MainEmail, string(p.TeeShirtSize),
		pq.Array(encodeKeys(p.ConferenceKeysToAttend)), pq.Array(encodeKeys(p.SessionKeysWishList)),
	)
	return err
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumnList+` FROM profiles WHERE user_id = $1`, userID)
}

func (r *profileRepository) GetForUpdate(ctx context.Context, userID string) (*domain.Profile, error) {
	return r.getOne(ctx, `SELECT `+profileColumnList+` FROM profiles WHERE user_id = $1 FOR UPDATE`, userID)
}

func (r *profileRepository) getOne(ctx context.Context, query, userID string) (*domain.Profile, error) {
	p := &domain.Profile{}
	var size string
	var attend, wishlist pq.StringArray
	err := r.DB.QueryRowContext(ctx, query, userID).Scan(&p.UserID, &p.DisplayName, &p.MainEmail, &size, &attend, &wishlist)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.TeeShirtSize = domain.TeeShirtSize(size)
	if p.ConferenceKeysToAttend, err = decodeKeys(attend); err != nil {
		return nil, err
	}
	if p.SessionKeysWishList, err = decodeKeys(wishlist); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *profileRepository) Update(ctx context.Context, p *domain.Profile) error {
	query := `UPDATE profiles SET display_name = $2, tee_shirt_size = $3 WHERE user_id = $1`
	res, err := r.DB.ExecContext(ctx, query, p.UserID, p.DisplayName, string(p.TeeShirtSize))
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *profileRepository) SetConferenceKeysToAttend(ctx context.Context, userID string, keys []*domain.Key) error {
	query := `UPDATE profiles SET conference_keys_to_attend = $2 WHERE user_id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, pq.Array(encodeKeys(keys)))
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *profileRepository) AppendWishlistSession(ctx context.Context, userID string, session *domain.Key) error {
	query := `UPDATE profiles SET session_keys_wish_list = array_append(session_keys_wish_list, $2) WHERE user_id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, session.Encode())
	if err != nil {
		return err
	}
	return checkAffected(res)
}
