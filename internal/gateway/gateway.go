package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// AuthorizeRequest carries everything the gateway needs to reserve funds.
type AuthorizeRequest struct {
	Amount            decimal.Decimal
	Currency          string
	CardToken         string
	MerchantReference string
	Metadata          map[string]any
}

// Result is the structured outcome of an authorize, capture, or refund
// call. Declined cards and gateway-side failures come back as a Result
// with Success=false, not as a Go error; a returned error means the call
// itself could not complete (network failure, malformed response) and is
// treated as unexpected by callers.
type Result struct {
	Success              bool
	GatewayTransactionID string
	Status               string
	Message              string
	ErrorCode            string
	ErrorMessage         string
	// RawResponse is the gateway payload verbatim, stored in the ledger
	// for audit.
	RawResponse map[string]any
}

// TransactionStatus is the gateway's view of a transaction, used for
// reconciliation.
type TransactionStatus struct {
	GatewayTransactionID string
	Status               string
	Amount               decimal.Decimal
	Currency             string
	Message              string
}

// PaymentGateway is the port to the external payment processor. All
// network effects live behind this interface.
type PaymentGateway interface {
	// Authorize reserves funds against a card without moving money.
	Authorize(ctx context.Context, req AuthorizeRequest) (*Result, error)

	// Capture finalizes a previous authorization into an actual charge.
	Capture(ctx context.Context, gatewayTransactionID string, amount decimal.Decimal) (*Result, error)

	// Refund returns previously captured funds, in full or in part.
	Refund(ctx context.Context, gatewayTransactionID string, amount decimal.Decimal) (*Result, error)

	// GetStatus queries the gateway for a transaction's current state.
	GetStatus(ctx context.Context, gatewayTransactionID string) (*TransactionStatus, error)
}
