package postgres

import (
	"context"
	"database/sql"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeakerRepository_Create(t *testing.T) {
	ctx := context.Background()
	s := &domain.Speaker{DisplayName: "Ada", MainEmail: "ada@example.com", Bio: "Engines"}

	tests := []struct {
		name    string
		mock    func(mock sqlmock.Sqlmock)
		wantErr error
	}{
		{
			name: "success",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO speakers \(email, display_name, bio, session_keys\)`).
					WithArgs("ada@example.com", "Ada", "Engines", pq.Array([]string{})).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "duplicate email",
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO speakers`).WillReturnError(&pq.Error{Code: "23505"})
			},
			wantErr: domain.ErrConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			err = NewSpeakerRepository(db).Create(ctx, s)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSpeakerRepository_GetByEmail(t *testing.T) {
	ctx := context.Background()
	sessionKey := domain.SessionKey(domain.ConferenceKey("alice", "c1"), "s1")

	t.Run("found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT email, display_name, bio, session_keys FROM speakers WHERE email = \$1`).
			WithArgs("ada@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"email", "display_name", "bio", "session_keys"}).
				AddRow("ada@example.com", "Ada", "", "{"+sessionKey.Encode()+"}"))

		s, err := NewSpeakerRepository(db).GetByEmail(ctx, "ada@example.com")
		require.NoError(t, err)
		require.Len(t, s.SessionKeys, 1)
		assert.True(t, s.SessionKeys[0].Equal(sessionKey))
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`FROM speakers WHERE email = \$1`).WillReturnError(sql.ErrNoRows)

		_, err = NewSpeakerRepository(db).GetByEmail(ctx, "nobody@example.com")
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestSpeakerRepository_List(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM speakers`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(`ORDER BY display_name, email\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(2, 2).
		WillReturnRows(sqlmock.NewRows([]string{"email", "display_name", "bio", "session_keys"}).
			AddRow("carol@example.com", "Carol", "", "{}"))

	speakers, total, err := NewSpeakerRepository(db).List(ctx, domain.PaginationParams{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, speakers, 1)
	assert.Equal(t, "Carol", speakers[0].DisplayName)
	assert.Empty(t, speakers[0].SessionKeys)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSpeakerRepository_AppendSessionKey(t *testing.T) {
	ctx := context.Background()
	sessionKey := domain.SessionKey(domain.ConferenceKey("alice", "c1"), "s1")

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`UPDATE speakers SET session_keys = array_append\(session_keys, \$2\) WHERE email = \$1`).
		WithArgs("ada@example.com", sessionKey.Encode()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewSpeakerRepository(db).AppendSessionKey(ctx, "ada@example.com", sessionKey)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
