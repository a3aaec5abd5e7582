package database

import (
	"context"

	"gorm.io/gorm"
)

// txKey carries an open transaction on the context so every Store method,
// and the services above them, join the same unit of work.
type txKey struct{}

// TransactionFromContext returns the transaction carried by ctx, or nil when
// the context holds none.
func TransactionFromContext(ctx context.Context) *gorm.DB {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok {
		return nil
	}
	return tx
}

// ContextWithTransaction returns a child context carrying tx.
func ContextWithTransaction(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// getDBFromContext resolves the handle a query must run on: the carried
// transaction when one is open, the plain connection otherwise.
func getDBFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	tx := TransactionFromContext(ctx)
	if tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}
