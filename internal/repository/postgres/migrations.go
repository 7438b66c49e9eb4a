package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// RunMigrations creates the schema if it does not exist. Statements are
// idempotent so the server can run them on every start.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	stmts := []string{

		`CREATE TABLE IF NOT EXISTS customers (
			id UUID PRIMARY KEY,
			name VARCHAR(200) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			deleted_at TIMESTAMPTZ
		);`,

		`CREATE TABLE IF NOT EXISTS payment_statuses (
			id UUID PRIMARY KEY,
			name VARCHAR(100) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			deleted_at TIMESTAMPTZ
		);`,

		`CREATE TABLE IF NOT EXISTS payments (
			id UUID PRIMARY KEY,
			amount NUMERIC(10,2) NOT NULL,
			currency CHAR(3) NOT NULL,
			card_token VARCHAR(100) NOT NULL,
			merchant_reference VARCHAR(100) NOT NULL,
			customer_id UUID NOT NULL REFERENCES customers(id),
			payment_status_id UUID NOT NULL REFERENCES payment_statuses(id),
			metadata JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL,
			deleted_at TIMESTAMPTZ
		);`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY,
			payment_id UUID NOT NULL REFERENCES payments(id) ON DELETE CASCADE,
			type VARCHAR(20) NOT NULL CHECK (type IN ('AUTHORIZATION', 'CAPTURE', 'REFUND')),
			amount NUMERIC(10,2) NOT NULL,
			status VARCHAR(20) NOT NULL CHECK (status IN ('PENDING', 'SUCCESS', 'FAILED')),
			gateway_response JSONB NOT NULL DEFAULT '{}',
			gateway_transaction_id VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,

		`CREATE INDEX IF NOT EXISTS idx_customers_email ON customers (email);`,
		`CREATE INDEX IF NOT EXISTS idx_payment_statuses_name ON payment_statuses (name);`,
		`CREATE INDEX IF NOT EXISTS idx_payments_customer_id ON payments (customer_id);`,
		`CREATE INDEX IF NOT EXISTS idx_payments_payment_status_id ON payments (payment_status_id);`,
		`CREATE INDEX IF NOT EXISTS idx_payments_merchant_reference ON payments (merchant_reference);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_payment_id ON transactions (payment_id);`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_gateway_transaction_id ON transactions (gateway_transaction_id);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}

	return nil
}
