package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"paygate/internal/repository"
)

// UnitOfWork runs callbacks inside one database transaction, handing them
// transaction-scoped repositories. Gateway calls stay outside the
// callback so no transaction is held open across a network call.
type UnitOfWork struct {
	db *sql.DB
}

// NewUnitOfWork creates a new UnitOfWork.
func NewUnitOfWork(db *sql.DB) *UnitOfWork {
	return &UnitOfWork{db: db}
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

// WithinTx begins a transaction, runs fn with transaction-scoped
// repositories, and commits. Any error from fn rolls everything back.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(repos repository.TxRepositories) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	repos := repository.TxRepositories{
		Payments:     NewPaymentRepositoryWithTx(tx),
		Transactions: NewTransactionRepositoryWithTx(tx),
	}

	if err := fn(repos); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
