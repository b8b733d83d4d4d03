// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
)

// TxBeginner is implemented by *sql.DB.
type TxBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// WithTx runs fn in a new transaction when q can begin one, and directly on q
// when it is already a transaction. Errors returned by fn are passed through
// unchanged; the transaction is rolled back.
func WithTx(ctx context.Context, q Querier, fn func(q Querier) error) error {
	beginner, ok := q.(TxBeginner)
	if !ok {
		return fn(q)
	}

	tx, err := beginner.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LockElection takes a write lock on the election row for the rest of the
// transaction and reports whether the row exists with the given status. An
// empty status matches any. PostgreSQL holds the row lock until commit;
// SQLite serializes all writers on the database lock.
func LockElection(ctx context.Context, q Querier, electionID, status string) (bool, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE election SET status = status
		WHERE id = $1 AND ($2 = '' OR status = $3)
	`, electionID, status, status)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
