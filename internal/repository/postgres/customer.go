package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"paygate/internal/domain"
	"paygate/internal/repository"
)

var customerSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
	"email":     "email",
}

// CustomerRepository is a PostgreSQL implementation of
// repository.CustomerRepository.
type CustomerRepository struct {
	q Querier
}

// NewCustomerRepository creates a new PostgreSQL customer repository.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{q: db}
}

// NewCustomerRepositoryWithTx creates a customer repository using a transaction.
func NewCustomerRepositoryWithTx(tx *sql.Tx) *CustomerRepository {
	return &CustomerRepository{q: tx}
}

// Create persists a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		customer.ID,
		customer.Name,
		customer.Email,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	return err
}

// GetByID retrieves a customer by ID.
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	query := `
		SELECT id, name, email, created_at, updated_at, deleted_at
		FROM customers WHERE id = $1 AND deleted_at IS NULL
	`

	var customer domain.Customer
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
		&customer.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &customer, nil
}

// GetByEmail retrieves a customer by email.
// Returns nil if no customer exists with the given email.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `
		SELECT id, name, email, created_at, updated_at, deleted_at
		FROM customers WHERE email = $1 AND deleted_at IS NULL
	`

	var customer domain.Customer
	err := r.q.QueryRowContext(ctx, query, email).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
		&customer.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &customer, nil
}

// List retrieves customers matching the filter, with the total count.
func (r *CustomerRepository) List(ctx context.Context, filter repository.CustomerFilter, page repository.Pagination) ([]*domain.Customer, int, error) {
	where := "WHERE deleted_at IS NULL"
	args := []any{}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}
	if filter.Email != "" {
		args = append(args, "%"+filter.Email+"%")
		where += fmt.Sprintf(" AND email ILIKE $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM customers " + where
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT id, name, email, created_at, updated_at, deleted_at FROM customers %s %s LIMIT $%d OFFSET $%d",
		where,
		orderClause(customerSortColumns, page, "created_at"),
		len(args)+1,
		len(args)+2,
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.Name,
			&customer.Email,
			&customer.CreatedAt,
			&customer.UpdatedAt,
			&customer.DeletedAt,
		); err != nil {
			return nil, 0, err
		}
		customers = append(customers, &customer)
	}

	return customers, total, rows.Err()
}

// Update persists changes to an existing customer.
func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers SET name = $1, email = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`

	result, err := r.q.ExecContext(ctx, query,
		customer.Name,
		customer.Email,
		customer.UpdatedAt,
		customer.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// SoftDelete marks a customer as deleted.
func (r *CustomerRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE customers SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
