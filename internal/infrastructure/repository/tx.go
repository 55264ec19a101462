package repository

import (
	"context"

	domainRepo "github.com/mercadito-pe/mercadito-api/internal/domain/repository"
	"gorm.io/gorm"
)

type txKey struct{}

type txManager struct {
	db *gorm.DB
}

// NewTxManager creates a transaction manager backed by the given database
func NewTxManager(db *gorm.DB) domainRepo.TxManager {
	return &txManager{db: db}
}

// RunInTx opens one transaction, stores it in the context and runs fn with
// that context. Repositories resolve the transaction via dbFrom, so every
// call inside fn shares it. An error from fn rolls everything back.
func (m *txManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// dbFrom returns the transaction stored in ctx, or the base handle scoped
// to ctx when no transaction is open
func dbFrom(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return base.WithContext(ctx)
}
