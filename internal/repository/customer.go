package repository

import (
	"context"

	"paygate/internal/domain"
)

// CustomerRepository defines the persistence operations for customers.
// All reads exclude soft-deleted rows.
type CustomerRepository interface {
	// Create persists a new customer.
	Create(ctx context.Context, customer *domain.Customer) error

	// GetByID retrieves a customer by ID.
	GetByID(ctx context.Context, id string) (*domain.Customer, error)

	// GetByEmail retrieves a customer by email.
	// Returns nil if no customer exists with the given email.
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)

	// List retrieves customers matching the filter, with the total count
	// before pagination.
	List(ctx context.Context, filter CustomerFilter, page Pagination) ([]*domain.Customer, int, error)

	// Update persists changes to an existing customer.
	Update(ctx context.Context, customer *domain.Customer) error

	// SoftDelete marks a customer as deleted.
	SoftDelete(ctx context.Context, id string) error
}
