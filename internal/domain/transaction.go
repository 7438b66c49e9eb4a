package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType identifies the gateway operation a ledger entry records.
type TransactionType string

const (
	TransactionTypeAuthorization TransactionType = "AUTHORIZATION"
	TransactionTypeCapture       TransactionType = "CAPTURE"
	TransactionTypeRefund        TransactionType = "REFUND"
)

// TransactionStatus is the outcome recorded for a gateway attempt.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is one immutable ledger entry: a single gateway interaction
// attempt and its outcome. Entries record attempts, not just successes,
// and are never updated once written.
type Transaction struct {
	ID        string
	PaymentID string
	Type      TransactionType
	Amount    decimal.Decimal
	Status    TransactionStatus
	// GatewayResponse holds the gateway's raw payload verbatim for audit.
	GatewayResponse Metadata
	// GatewayTransactionID is empty until the gateway assigns one.
	GatewayTransactionID string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
