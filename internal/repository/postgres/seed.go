package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// The catalog rows the payment workflow depends on. Seeding is
// idempotent; rows that already exist are left untouched.
var paymentStatusSeed = []struct {
	name        string
	description string
}{
	{"PENDING", "Payment is pending processing"},
	{"PROCESSING", "Payment is being processed"},
	{"AUTHORIZED", "Payment has been authorized"},
	{"CAPTURED", "Payment has been captured"},
	{"FAILED", "Payment processing failed"},
	{"REFUNDED", "Payment has been fully refunded"},
	{"PARTIALLY_REFUNDED", "Payment has been partially refunded"},
}

// SeedPaymentStatuses inserts the payment-status catalog rows the
// workflow depends on, skipping names that already exist.
func SeedPaymentStatuses(ctx context.Context, db *sql.DB) error {
	query := `
		INSERT INTO payment_statuses (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (name) DO NOTHING
	`

	now := time.Now().UTC()
	for _, status := range paymentStatusSeed {
		if _, err := db.ExecContext(ctx, query, uuid.New().String(), status.name, status.description, now); err != nil {
			return fmt.Errorf("seed payment status %s: %w", status.name, err)
		}
	}

	return nil
}
