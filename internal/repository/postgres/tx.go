package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"conferencecentral/internal/domain"
)

type transactor struct {
	DB *sql.DB
}

// NewTransactor returns a Transactor running each unit of work in a database transaction.
// Repositories handed to the callback share that transaction, so GetForUpdate locks
// rows until commit or rollback.
func NewTransactor(db *sql.DB) domain.Transactor {
	return &transactor{DB: db}
}

func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.TxRepositories) error) error {
	tx, err := t.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	repos := domain.TxRepositories{
		Conferences: &conferenceRepository{DB: tx},
		Profiles:    &profileRepository{DB: tx},
		Sessions:    &sessionRepository{DB: tx},
		Speakers:    &speakerRepository{DB: tx},
	}
	if err := fn(ctx, repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
