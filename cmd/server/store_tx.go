package main

import (
	"context"
	"database/sql"
	"time"

	"projet/internal/geo/service"
	citystore "projet/internal/geo/store/city"
	playerstore "projet/internal/geo/store/player"
	regionstore "projet/internal/geo/store/region"
	dErrors "projet/pkg/domain-errors"
)

const defaultStoreTxTimeout = 5 * time.Second

// postgresStoreTx runs each unit of work in one READ COMMITTED transaction
// with the three stores bound to it.
type postgresStoreTx struct {
	db      *sql.DB
	timeout time.Duration
}

func newPostgresStoreTx(db *sql.DB, timeout time.Duration) *postgresStoreTx {
	return &postgresStoreTx{db: db, timeout: timeout}
}

func (t *postgresStoreTx) RunInTx(ctx context.Context, fn func(stores service.Stores) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = defaultStoreTxTimeout
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		if ctx.Err() != nil {
			return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to begin transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(service.Stores{
		Regions: regionstore.NewPostgres(tx),
		Cities:  citystore.NewPostgres(tx),
		Players: playerstore.NewPostgres(tx),
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit transaction")
	}
	return nil
}
