package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"paygate/internal/domain"
	"paygate/internal/repository"
)

var paymentSortColumns = map[string]string{
	"createdAt":         "created_at",
	"updatedAt":         "updated_at",
	"amount":            "amount",
	"merchantReference": "merchant_reference",
}

// PaymentRepository is a PostgreSQL implementation of
// repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create persists a new payment.
func (r *PaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (id, amount, currency, card_token, merchant_reference,
			customer_id, payment_status_id, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.ExecContext(ctx, query,
		payment.ID,
		payment.Amount,
		payment.Currency,
		payment.CardToken,
		payment.MerchantReference,
		payment.CustomerID,
		payment.PaymentStatusID,
		payment.Metadata,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	return err
}

const paymentColumns = `id, amount, currency, card_token, merchant_reference,
	customer_id, payment_status_id, metadata, created_at, updated_at, deleted_at`

func scanPayment(scanner interface{ Scan(...any) error }) (*domain.Payment, error) {
	var payment domain.Payment
	err := scanner.Scan(
		&payment.ID,
		&payment.Amount,
		&payment.Currency,
		&payment.CardToken,
		&payment.MerchantReference,
		&payment.CustomerID,
		&payment.PaymentStatusID,
		&payment.Metadata,
		&payment.CreatedAt,
		&payment.UpdatedAt,
		&payment.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetByID retrieves a payment by ID without relations.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM payments WHERE id = $1 AND deleted_at IS NULL",
		paymentColumns,
	)

	payment, err := scanPayment(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return payment, nil
}

// GetByIDWithRelations retrieves a payment with its customer, status, and
// ledger entries ascending by creation time.
func (r *PaymentRepository) GetByIDWithRelations(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	customerQuery := `
		SELECT id, name, email, created_at, updated_at, deleted_at
		FROM customers WHERE id = $1
	`
	var customer domain.Customer
	err = r.q.QueryRowContext(ctx, customerQuery, payment.CustomerID).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.CreatedAt,
		&customer.UpdatedAt,
		&customer.DeletedAt,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		payment.Customer = &customer
	}

	statusQuery := `
		SELECT id, name, description, created_at, updated_at, deleted_at
		FROM payment_statuses WHERE id = $1
	`
	var status domain.PaymentStatus
	err = r.q.QueryRowContext(ctx, statusQuery, payment.PaymentStatusID).Scan(
		&status.ID,
		&status.Name,
		&status.Description,
		&status.CreatedAt,
		&status.UpdatedAt,
		&status.DeletedAt,
	)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err == nil {
		payment.Status = &status
	}

	transactions, err := (&TransactionRepository{q: r.q}).ListByPaymentID(ctx, payment.ID)
	if err != nil {
		return nil, err
	}
	payment.Transactions = transactions

	return payment, nil
}

// List retrieves payments matching the filter, with the total count.
func (r *PaymentRepository) List(ctx context.Context, filter repository.PaymentFilter, page repository.Pagination) ([]*domain.Payment, int, error) {
	where := "WHERE deleted_at IS NULL"
	args := []any{}

	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where += fmt.Sprintf(" AND customer_id = $%d", len(args))
	}
	if filter.PaymentStatusID != "" {
		args = append(args, filter.PaymentStatusID)
		where += fmt.Sprintf(" AND payment_status_id = $%d", len(args))
	}
	if filter.MerchantReference != "" {
		args = append(args, filter.MerchantReference)
		where += fmt.Sprintf(" AND merchant_reference = $%d", len(args))
	}
	if filter.Currency != "" {
		args = append(args, filter.Currency)
		where += fmt.Sprintf(" AND currency = $%d", len(args))
	}
	if filter.MinAmount != nil {
		args = append(args, *filter.MinAmount)
		where += fmt.Sprintf(" AND amount >= $%d", len(args))
	}
	if filter.MaxAmount != nil {
		args = append(args, *filter.MaxAmount)
		where += fmt.Sprintf(" AND amount <= $%d", len(args))
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM payments " + where
	if err := r.q.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(
		"SELECT %s FROM payments %s %s LIMIT $%d OFFSET $%d",
		paymentColumns,
		where,
		orderClause(paymentSortColumns, page, "created_at"),
		len(args)+1,
		len(args)+2,
	)
	args = append(args, page.Limit, page.Offset())

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var payments []*domain.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, 0, err
		}
		payments = append(payments, payment)
	}

	return payments, total, rows.Err()
}

// UpdateStatus sets the payment's status reference unconditionally.
func (r *PaymentRepository) UpdateStatus(ctx context.Context, id, paymentStatusID string) error {
	query := `
		UPDATE payments SET payment_status_id = $1, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, paymentStatusID, id)
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

// TransitionStatus sets the status reference only if the current status
// still matches fromStatusID. The conditional write is what makes the
// PENDING claim atomic under concurrent process calls.
func (r *PaymentRepository) TransitionStatus(ctx context.Context, id, fromStatusID, toStatusID string) (bool, error) {
	query := `
		UPDATE payments SET payment_status_id = $1, updated_at = now()
		WHERE id = $2 AND payment_status_id = $3 AND deleted_at IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, toStatusID, id, fromStatusID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// MergeMetadata merges entries into the payment's metadata bag. The merge
// happens in SQL so concurrent writers cannot clobber each other's keys.
func (r *PaymentRepository) MergeMetadata(ctx context.Context, id string, entries domain.Metadata) error {
	query := `
		UPDATE payments
		SET metadata = COALESCE(metadata, '{}'::jsonb) || $1::jsonb, updated_at = now()
		WHERE id = $2 AND deleted_at IS NULL
	`

	result, err := r.q.ExecContext(ctx, query, entries, id)
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
