package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"paygate/internal/domain"
	"paygate/internal/repository"
)

var statusSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"name":      "name",
}

// PaymentStatusRepository is a PostgreSQL implementation of
// repository.PaymentStatusRepository.
type PaymentStatusRepository struct {
	q Querier
}

// NewPaymentStatusRepository creates a new PostgreSQL payment-status repository.
func NewPaymentStatusRepository(db *sql.DB) *PaymentStatusRepository {
	return &PaymentStatusRepository{q: db}
}

// NewPaymentStatusRepositoryWithTx creates a payment-status repository using a transaction.
func NewPaymentStatusRepositoryWithTx(tx *sql.Tx) *PaymentStatusRepository {
	return &PaymentStatusRepository{q: tx}
}

// Create persists a new catalog entry.
func (r *PaymentStatusRepository) Create(ctx context.Context, status *domain.PaymentStatus) error {
	query := `
		INSERT INTO payment_statuses (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		status.ID,
		status.Name,
		status.Description,
		status.CreatedAt,
		status.UpdatedAt,
	)

	return err
}

// GetByID retrieves a catalog entry by ID.
func (r *PaymentStatusRepository) GetByID(ctx context.Context, id string) (*domain.PaymentStatus, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted_at
		FROM payment_statuses WHERE id = $1 AND deleted_at IS NULL
	`

	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a catalog entry by its unique name.
func (r *PaymentStatusRepository) GetByName(ctx context.Context, name string) (*domain.PaymentStatus, error) {
	query := `
		SELECT id, name, description, created_at, updated_at, deleted_at
		FROM payment_statuses WHERE name = $1 AND deleted_at IS NULL
	`

	return r.scanOne(r.q.QueryRowContext(ctx, query, name))
}

func (r *PaymentStatusRepository) scanOne(row *sql.Row) (*domain.PaymentStatus, error) {
	var status domain.PaymentStatus
	err := row.Scan(
		&status.ID,
		&status.Name,
		&status.Description,
		&status.CreatedAt,
		&status.UpdatedAt,
		&status.DeletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &status, nil
}

// List retrieves catalog entries matching the filter, with the total count.
func (r *PaymentStatusRepository) List(ctx context.Context, filter repository.PaymentStatusFilter, page repository.Pagination) ([]*domain.PaymentStatus, int, error) {
	where := "WHERE deleted_at IS NULL"
	args := []any{}

	if filter.Name != "" {
		args = append(args, "%"+filter.Name+"%")
		where += fmt.Sprintf(" AND name ILIKE $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM payment_statuses " + where
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT id, name, description, created_at, updated_at, deleted_at FROM payment_statuses %s %s LIMIT $%d OFFSET $%d",
		where,
		orderClause(statusSortColumns, page, "created_at"),
		len(args)+1,
		len(args)+2,
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var statuses []*domain.PaymentStatus
	for rows.Next() {
		var status domain.PaymentStatus
		if err := rows.Scan(
			&status.ID,
			&status.Name,
			&status.Description,
			&status.CreatedAt,
			&status.UpdatedAt,
			&status.DeletedAt,
		); err != nil {
			return nil, 0, err
		}
		statuses = append(statuses, &status)
	}

	return statuses, total, rows.Err()
}

// Update persists changes to an existing catalog entry.
func (r *PaymentStatusRepository) Update(ctx context.Context, status *domain.PaymentStatus) error {
	query := `
		UPDATE payment_statuses SET name = $1, description = $2, updated_at = $3
		WHERE id = $4 AND deleted_at IS NULL
	`

	result, err := r.q.ExecContext(ctx, query,
		status.Name,
		status.Description,
		status.UpdatedAt,
		status.ID,
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

// SoftDelete marks a catalog entry as deleted.
func (r *PaymentStatusRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE payment_statuses SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`

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
