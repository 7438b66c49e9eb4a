package domain

import "time"

// Status is the closed set of payment lifecycle states the orchestrator
// moves a payment through. Catalog rows are resolved to ids only at the
// persistence boundary; the workflow itself never handles free-form names.
type Status string

const (
	StatusPending           Status = "PENDING"
	StatusProcessing        Status = "PROCESSING"
	StatusAuthorized        Status = "AUTHORIZED"
	StatusCaptured          Status = "CAPTURED"
	StatusFailed            Status = "FAILED"
	StatusRefunded          Status = "REFUNDED"
	StatusPartiallyRefunded Status = "PARTIALLY_REFUNDED"
)

// PaymentStatus is a row of the payment-status catalog. The catalog is
// managed through its own CRUD endpoints and is read-only from the
// payment workflow's perspective.
type PaymentStatus struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}
