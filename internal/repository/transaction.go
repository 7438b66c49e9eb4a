package repository

import (
	"context"

	"paygate/internal/domain"
)

// TransactionRepository defines the persistence operations for the
// transaction ledger. The ledger is append-only: there is deliberately no
// update or delete operation, so recorded gateway attempts cannot be
// altered by later code paths.
type TransactionRepository interface {
	// Create appends a ledger entry.
	Create(ctx context.Context, transaction *domain.Transaction) error

	// GetByID retrieves a ledger entry by ID.
	GetByID(ctx context.Context, id string) (*domain.Transaction, error)

	// ListByPaymentID retrieves a payment's ledger entries ascending by
	// creation time.
	ListByPaymentID(ctx context.Context, paymentID string) ([]*domain.Transaction, error)
}
