package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type dbTransaction struct {
	db   *gorm.DB
	done bool
}

// WithDBTransaction begins a transaction. Every DB(ctx) call on the returned
// context runs inside it until it is committed or rolled back.
func WithDBTransaction(ctx context.Context) context.Context {
	if tx, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !tx.done {
		return ctx
	}

	return context.WithValue(ctx, dbTxKey{}, &dbTransaction{db: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || tx.done {
		return nil
	}

	tx.done = true
	return tx.db.Commit().Error
}

func WithRollbackDBTransaction(ctx context.Context) {
	tx, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || tx.done {
		return
	}

	tx.done = true
	tx.db.Rollback()
}
