// Package dbx holds the database plumbing shared by the notes repositories:
// the DBTX handle they are bound to and the transaction runner the services
// use for multi-statement work such as the account cascade.
package dbx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// DBTX is what a repository needs from database/sql. *sql.DB and *sql.Tx
// both satisfy it, so one repository type serves both pooled and
// transactional calls.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TxFunc is the body of a transaction. Repositories built inside it must be
// bound to tx.
type TxFunc func(ctx context.Context, tx DBTX) error

// Runner runs a TxFunc atomically. WithTx is the production Runner.
type Runner func(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) error

// WithTx commits when fn succeeds and rolls back when it fails or panics.
// A failed rollback is joined to fn's error. Panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
//	    if _, err := notesRepo(tx).DeleteByOwner(ctx, username); err != nil {
//	        return err
//	    }
//	    return usersRepo(tx).Delete(ctx, username)
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
			}
			return
		}
		err = tx.Commit()
	}()

	return fn(ctx, tx)
}
