package postgres

import (
	"context"
	"database/sql"
	"errors"

	"paygate/internal/domain"
	"paygate/internal/repository"
)

// TransactionRepository is a PostgreSQL implementation of
// repository.TransactionRepository. The ledger is insert-only; there is
// no UPDATE statement in this file on purpose.
type TransactionRepository struct {
	q Querier
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{q: db}
}

// NewTransactionRepositoryWithTx creates a transaction repository using a transaction.
func NewTransactionRepositoryWithTx(tx *sql.Tx) *TransactionRepository {
	return &TransactionRepository{q: tx}
}

// Create appends a ledger entry.
func (r *TransactionRepository) Create(ctx context.Context, transaction *domain.Transaction) error {
	query := `
		INSERT INTO transactions (id, payment_id, type, amount, status,
			gateway_response, gateway_transaction_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		transaction.ID,
		transaction.PaymentID,
		string(transaction.Type),
		transaction.Amount,
		string(transaction.Status),
		transaction.GatewayResponse,
		transaction.GatewayTransactionID,
		transaction.CreatedAt,
		transaction.UpdatedAt,
	)

	return err
}

func scanTransaction(scanner interface{ Scan(...any) error }) (*domain.Transaction, error) {
	var (
		transaction          domain.Transaction
		gatewayTransactionID sql.NullString
	)
	err := scanner.Scan(
		&transaction.ID,
		&transaction.PaymentID,
		&transaction.Type,
		&transaction.Amount,
		&transaction.Status,
		&transaction.GatewayResponse,
		&gatewayTransactionID,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	transaction.GatewayTransactionID = gatewayTransactionID.String
	return &transaction, nil
}

// GetByID retrieves a ledger entry by ID.
func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*domain.Transaction, error) {
	query := `
		SELECT id, payment_id, type, amount, status, gateway_response,
			gateway_transaction_id, created_at, updated_at
		FROM transactions WHERE id = $1
	`

	transaction, err := scanTransaction(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return transaction, nil
}

// ListByPaymentID retrieves a payment's ledger entries ascending by
// creation time.
func (r *TransactionRepository) ListByPaymentID(ctx context.Context, paymentID string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, payment_id, type, amount, status, gateway_response,
			gateway_transaction_id, created_at, updated_at
		FROM transactions WHERE payment_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, paymentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}

	return transactions, rows.Err()
}
