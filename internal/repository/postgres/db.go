package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"conferencecentral/internal/domain"

	"github.com/lib/pq"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so repositories can run inside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

const pqUniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	pqErr, ok := err.(*pq.Error)
	return ok && pqErr.Code == pqUniqueViolation
}

func encodeKeys(keys []*domain.Key) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k.Encode())
	}
	return out
}

func decodeKeys(encoded []string) ([]*domain.Key, error) {
	out := make([]*domain.Key, 0, len(encoded))
	for _, s := range encoded {
		k, err := domain.DecodeKey(s)
		if err != nil {
			return nil, fmt.Errorf("decode stored key: %w", err)
		}
		out = append(out, k)
	}
	return out, nil
}

// orderByKeys returns the items whose key is among keys, in key order.
func orderByKeys[T any](keys []*domain.Key, items []T, keyOf func(T) *domain.Key) []T {
	byKey := make(map[string]T, len(items))
	for _, item := range items {
		byKey[keyOf(item).Encode()] = item
	}
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		if item, ok := byKey[k.Encode()]; ok {
			out = append(out, item)
		}
	}
	return out
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time.UTC()
	return &v
}
