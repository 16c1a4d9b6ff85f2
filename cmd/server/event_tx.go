package main

import (
	"context"
	"database/sql"
	"fmt"

	"lineage/pkg/platform/tx"
)

// sqlTxRunner runs a function inside one database transaction. The
// transaction travels through the context so every store invoked by fn
// joins it.
type sqlTxRunner struct {
	db *sql.DB
}

func newSQLTxRunner(db *sql.DB) *sqlTxRunner {
	return &sqlTxRunner{db: db}
}

func (r *sqlTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx.WithTx(ctx, t)); err != nil {
		if rbErr := t.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original: %w)", rbErr, err)
		}
		return err
	}

	if err := t.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
