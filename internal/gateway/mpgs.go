package gateway

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MPGSGateway is a Mastercard Payment Gateway Services adapter. It is a
// stand-in implementation: it produces well-formed gateway responses
// without making network calls, which is enough to exercise the full
// payment workflow. A production build would POST to the MPGS REST API
// using the configured merchant credentials.
type MPGSGateway struct {
	merchantID string
	logger     *zap.Logger
}

// NewMPGSGateway creates a new MPGS adapter.
func NewMPGSGateway(merchantID string, logger *zap.Logger) *MPGSGateway {
	return &MPGSGateway{
		merchantID: merchantID,
		logger:     logger,
	}
}

var _ PaymentGateway = (*MPGSGateway)(nil)

// newTransactionID builds an MPGS-style transaction reference.
func (g *MPGSGateway) newTransactionID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:9]
	return fmt.Sprintf("MPGS_%d_%s", time.Now().UnixMilli(), suffix)
}

// Authorize reserves funds for the given card token.
func (g *MPGSGateway) Authorize(ctx context.Context, req AuthorizeRequest) (*Result, error) {
	g.logger.Info("authorizing payment",
		zap.String("merchant_reference", req.MerchantReference),
		zap.String("currency", req.Currency),
	)

	transactionID := g.newTransactionID()

	return &Result{
		Success:              true,
		GatewayTransactionID: transactionID,
		Status:               "AUTHORIZED",
		Message:              "Payment authorized successfully",
		RawResponse: map[string]any{
			"gateway":       "MPGS",
			"merchantId":    g.merchantID,
			"transactionId": transactionID,
			"status":        "AUTHORIZED",
		},
	}, nil
}

// Capture finalizes a previously authorized transaction.
func (g *MPGSGateway) Capture(ctx context.Context, gatewayTransactionID string, amount decimal.Decimal) (*Result, error) {
	g.logger.Info("capturing payment",
		zap.String("gateway_transaction_id", gatewayTransactionID),
		zap.String("amount", amount.String()),
	)

	return &Result{
		Success:              true,
		GatewayTransactionID: gatewayTransactionID,
		Status:               "CAPTURED",
		Message:              "Payment captured successfully",
		RawResponse: map[string]any{
			"gateway":       "MPGS",
			"merchantId":    g.merchantID,
			"transactionId": gatewayTransactionID,
			"status":        "CAPTURED",
			"amount":        amount.String(),
		},
	}, nil
}

// Refund returns captured funds.
func (g *MPGSGateway) Refund(ctx context.Context, gatewayTransactionID string, amount decimal.Decimal) (*Result, error) {
	g.logger.Info("refunding payment",
		zap.String("gateway_transaction_id", gatewayTransactionID),
		zap.String("amount", amount.String()),
	)

	return &Result{
		Success:              true,
		GatewayTransactionID: gatewayTransactionID,
		Status:               "REFUNDED",
		Message:              "Payment refunded successfully",
		RawResponse: map[string]any{
			"gateway":       "MPGS",
			"merchantId":    g.merchantID,
			"transactionId": gatewayTransactionID,
			"status":        "REFUNDED",
			"amount":        amount.String(),
		},
	}, nil
}

// GetStatus reports a transaction's state for reconciliation.
func (g *MPGSGateway) GetStatus(ctx context.Context, gatewayTransactionID string) (*TransactionStatus, error) {
	g.logger.Info("querying transaction status",
		zap.String("gateway_transaction_id", gatewayTransactionID),
	)

	return &TransactionStatus{
		GatewayTransactionID: gatewayTransactionID,
		Status:               "CAPTURED",
		Amount:               decimal.Zero,
		Currency:             "USD",
		Message:              "Transaction is captured",
	}, nil
}
