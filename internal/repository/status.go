package repository

import (
	"context"

	"paygate/internal/domain"
)

// PaymentStatusRepository defines the persistence operations for the
// payment-status catalog.
type PaymentStatusRepository interface {
	// Create persists a new catalog entry.
	Create(ctx context.Context, status *domain.PaymentStatus) error

	// GetByID retrieves a catalog entry by ID.
	GetByID(ctx context.Context, id string) (*domain.PaymentStatus, error)

	// GetByName retrieves a catalog entry by its unique name.
	GetByName(ctx context.Context, name string) (*domain.PaymentStatus, error)

	// List retrieves catalog entries matching the filter, with the total
	// count before pagination.
	List(ctx context.Context, filter PaymentStatusFilter, page Pagination) ([]*domain.PaymentStatus, int, error)

	// Update persists changes to an existing catalog entry.
	Update(ctx context.Context, status *domain.PaymentStatus) error

	// SoftDelete marks a catalog entry as deleted.
	SoftDelete(ctx context.Context, id string) error
}
