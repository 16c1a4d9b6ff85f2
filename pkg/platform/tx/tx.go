// Package tx carries a *sql.Tx through the context so stores join the
// caller's transaction without taking it as a parameter. Stores fall back
// to their own connection when the context carries none.
package tx

import (
	"context"
	"database/sql"
)

type ctxKey struct{}

// WithTx returns a context whose queries should run inside tx.
// A nil tx leaves the context untouched.
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	if tx == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, tx)
}

// From returns the transaction carried by ctx, or nil when there is none.
func From(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(ctxKey{}).(*sql.Tx)
	return tx
}
