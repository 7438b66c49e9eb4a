package repository

import (
	"context"

	"paygate/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID without relations.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetByIDWithRelations retrieves a payment with its customer, status,
	// and ledger entries (ascending by creation time).
	GetByIDWithRelations(ctx context.Context, id string) (*domain.Payment, error)

	// List retrieves payments matching the filter, with the total count
	// before pagination.
	List(ctx context.Context, filter PaymentFilter, page Pagination) ([]*domain.Payment, int, error)

	// UpdateStatus sets the payment's status reference unconditionally.
	UpdateStatus(ctx context.Context, id, paymentStatusID string) error

	// TransitionStatus sets the status reference only if the current
	// status still matches fromStatusID. Returns false when the row was
	// not in the expected status, closing the check-then-write race
	// between concurrent workflows.
	TransitionStatus(ctx context.Context, id, fromStatusID, toStatusID string) (bool, error)

	// MergeMetadata merges entries into the payment's metadata bag
	// without replacing existing keys that are not overridden.
	MergeMetadata(ctx context.Context, id string, entries domain.Metadata) error
}
