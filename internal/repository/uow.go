package repository

import "context"

// TxRepositories are the repositories scoped to one storage transaction.
type TxRepositories struct {
	Payments     PaymentRepository
	Transactions TransactionRepository
}

// UnitOfWork runs a callback whose writes all commit together or roll
// back together. Gateway calls must stay outside the callback so no
// storage transaction is held open across a blocking network call.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
