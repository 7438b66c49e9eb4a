package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paygate/internal/domain"
	"paygate/internal/gateway"
	"paygate/internal/repository"
)

// Validation policy for payment input. Bounds match the gateway's
// accepted range, not arbitrary limits.
var (
	MinAmount = decimal.NewFromFloat(0.01)
	MaxAmount = decimal.NewFromFloat(999999.99)
)

const (
	MinCardTokenLength         = 10
	MaxCardTokenLength         = 100
	MinMerchantReferenceLength = 3
	MaxMerchantReferenceLength = 100
	CurrencyCodeLength         = 3
)

// PaymentService orchestrates the payment workflow: creation, the
// authorize/capture sequence, and refunds. It is the only writer of
// payment status transitions and ledger entries.
//
// Gateway calls are made outside any open storage transaction. Each
// gateway result is recorded by one unit of work committing the ledger
// entry together with the matching status transition, so the ledger is
// the durable record of every attempt even when the process dies between
// steps.
type PaymentService struct {
	payments     repository.PaymentRepository
	transactions repository.TransactionRepository
	customers    repository.CustomerRepository
	statuses     repository.PaymentStatusRepository
	uow          repository.UnitOfWork
	gateway      gateway.PaymentGateway
	logger       *zap.Logger
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	payments repository.PaymentRepository,
	transactions repository.TransactionRepository,
	customers repository.CustomerRepository,
	statuses repository.PaymentStatusRepository,
	uow repository.UnitOfWork,
	gw gateway.PaymentGateway,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		payments:     payments,
		transactions: transactions,
		customers:    customers,
		statuses:     statuses,
		uow:          uow,
		gateway:      gw,
		logger:       logger,
	}
}

// resolveStatus looks up a catalog row by name immediately before use.
// There is no caching: a missing row is a deployment problem and must
// surface as not-found on the call that hits it.
func (s *PaymentService) resolveStatus(ctx context.Context, status domain.Status) (*domain.PaymentStatus, error) {
	row, err := s.statuses.GetByName(ctx, string(status))
	if err != nil {
		return nil, notFound(err, "PaymentStatus", string(status))
	}
	return row, nil
}

// CreatePaymentRequest contains the parameters for creating a payment.
type CreatePaymentRequest struct {
	Amount            decimal.Decimal
	Currency          string
	CardToken         string
	MerchantReference string
	CustomerID        string
	PaymentStatusID   string
	Metadata          domain.Metadata
}

func (s *PaymentService) validatePaymentInput(req CreatePaymentRequest) error {
	if req.Amount.LessThan(MinAmount) || req.Amount.GreaterThan(MaxAmount) {
		s.logger.Warn("payment validation failed: invalid amount", zap.String("amount", req.Amount.String()))
		return &ValidationError{Reason: fmt.Sprintf("amount must be between %s and %s", MinAmount, MaxAmount)}
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if len(currency) != CurrencyCodeLength {
		s.logger.Warn("payment validation failed: invalid currency", zap.String("currency", req.Currency))
		return &ValidationError{Reason: "currency must be a valid 3-letter ISO code (e.g., USD, EUR)"}
	}

	cardToken := strings.TrimSpace(req.CardToken)
	if len(cardToken) < MinCardTokenLength {
		s.logger.Warn("payment validation failed: invalid card token")
		return &ValidationError{Reason: fmt.Sprintf("card token must be at least %d characters", MinCardTokenLength)}
	}
	if len(cardToken) > MaxCardTokenLength {
		s.logger.Warn("payment validation failed: card token too long")
		return &ValidationError{Reason: fmt.Sprintf("card token must not exceed %d characters", MaxCardTokenLength)}
	}

	reference := strings.TrimSpace(req.MerchantReference)
	if len(reference) < MinMerchantReferenceLength {
		s.logger.Warn("payment validation failed: invalid merchant reference")
		return &ValidationError{Reason: fmt.Sprintf("merchant reference must be at least %d characters", MinMerchantReferenceLength)}
	}
	if len(reference) > MaxMerchantReferenceLength {
		s.logger.Warn("payment validation failed: merchant reference too long")
		return &ValidationError{Reason: fmt.Sprintf("merchant reference must not exceed %d characters", MaxMerchantReferenceLength)}
	}

	return nil
}

// CreatePayment validates and persists a new payment in the
// caller-supplied status. No gateway interaction happens here.
func (s *PaymentService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*domain.Payment, error) {
	s.logger.Info("creating payment", zap.String("merchant_reference", req.MerchantReference))

	if err := s.validatePaymentInput(req); err != nil {
		return nil, err
	}

	if _, err := s.customers.GetByID(ctx, req.CustomerID); err != nil {
		return nil, notFound(err, "Customer", req.CustomerID)
	}

	if _, err := s.statuses.GetByID(ctx, req.PaymentStatusID); err != nil {
		return nil, notFound(err, "PaymentStatus", req.PaymentStatusID)
	}

	metadata := req.Metadata
	if metadata == nil {
		metadata = domain.Metadata{}
	}

	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:                uuid.New().String(),
		Amount:            req.Amount,
		Currency:          strings.ToUpper(strings.TrimSpace(req.Currency)),
		CardToken:         strings.TrimSpace(req.CardToken),
		MerchantReference: strings.TrimSpace(req.MerchantReference),
		CustomerID:        req.CustomerID,
		PaymentStatusID:   req.PaymentStatusID,
		Metadata:          metadata,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment created", zap.String("payment_id", payment.ID))
	return payment, nil
}

// ProcessPayment drives a PENDING payment through authorize and capture.
// The final status is CAPTURED, or FAILED with a PaymentError raised.
// There is no automatic retry: re-invoking on a FAILED or CAPTURED
// payment is rejected by the precondition, not resumed.
func (s *PaymentService) ProcessPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	s.logger.Info("processing payment", zap.String("payment_id", paymentID))

	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, notFound(err, "Payment", paymentID)
	}

	pending, err := s.resolveStatus(ctx, domain.StatusPending)
	if err != nil {
		return nil, err
	}

	if payment.PaymentStatusID != pending.ID {
		s.logger.Warn("payment cannot be processed",
			zap.String("payment_id", paymentID),
			zap.String("payment_status_id", payment.PaymentStatusID),
		)
		return nil, &ValidationError{Reason: "payment can only be processed when status is PENDING"}
	}

	processing, err := s.resolveStatus(ctx, domain.StatusProcessing)
	if err != nil {
		return nil, err
	}

	// Claim the payment. The conditional write is the concurrency guard:
	// two concurrent calls can both see PENDING above, but only one
	// moves the row to PROCESSING.
	claimed, err := s.payments.TransitionStatus(ctx, payment.ID, pending.ID, processing.ID)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, &ValidationError{Reason: "payment is already being processed"}
	}
	payment.PaymentStatusID = processing.ID

	authResult, err := s.gateway.Authorize(ctx, gateway.AuthorizeRequest{
		Amount:            payment.Amount,
		Currency:          payment.Currency,
		CardToken:         payment.CardToken,
		MerchantReference: payment.MerchantReference,
		Metadata:          payment.Metadata,
	})
	if err != nil {
		s.logger.Error("unexpected authorize error", zap.String("payment_id", paymentID), zap.Error(err))
		s.failPayment(ctx, payment)
		return nil, &PaymentError{Reason: "payment authorization failed", Err: err}
	}

	if err := s.recordAttempt(ctx, payment, domain.TransactionTypeAuthorization, payment.Amount, authResult, domain.StatusAuthorized, nil); err != nil {
		s.failPayment(ctx, payment)
		return nil, &PaymentError{Reason: "payment processing failed", Err: err}
	}

	if !authResult.Success {
		s.logger.Warn("authorization declined",
			zap.String("payment_id", paymentID),
			zap.String("error_code", authResult.ErrorCode),
		)
		return nil, resultError("payment authorization failed", authResult)
	}

	captureResult, err := s.gateway.Capture(ctx, authResult.GatewayTransactionID, payment.Amount)
	if err != nil {
		s.logger.Error("unexpected capture error", zap.String("payment_id", paymentID), zap.Error(err))
		s.failPayment(ctx, payment)
		return nil, &PaymentError{Reason: "payment capture failed", Err: err}
	}

	captureMetadata := domain.Metadata{
		"authorizationTransactionId": authResult.GatewayTransactionID,
		"captureTransactionId":       captureResult.GatewayTransactionID,
	}
	if err := s.recordAttempt(ctx, payment, domain.TransactionTypeCapture, payment.Amount, captureResult, domain.StatusCaptured, captureMetadata); err != nil {
		s.failPayment(ctx, payment)
		return nil, &PaymentError{Reason: "payment processing failed", Err: err}
	}

	if !captureResult.Success {
		s.logger.Warn("capture declined",
			zap.String("payment_id", paymentID),
			zap.String("error_code", captureResult.ErrorCode),
		)
		return nil, resultError("payment capture failed", captureResult)
	}

	payment.Metadata = payment.Metadata.Merge(captureMetadata)

	s.logger.Info("payment processed", zap.String("payment_id", payment.ID))
	return payment, nil
}

// RefundPaymentRequest contains the parameters for refunding a payment.
// A nil Amount means a full refund; an explicit zero or negative amount
// is rejected.
type RefundPaymentRequest struct {
	PaymentID string
	Amount    *decimal.Decimal
}

// RefundPayment refunds a captured payment, in full or in part. A failed
// gateway refund leaves the payment status unchanged; the attempt is
// still recorded in the ledger.
func (s *PaymentService) RefundPayment(ctx context.Context, req RefundPaymentRequest) (*domain.Payment, error) {
	requested := "full"
	if req.Amount != nil {
		requested = req.Amount.String()
	}
	s.logger.Info("refunding payment",
		zap.String("payment_id", req.PaymentID),
		zap.String("amount", requested),
	)

	payment, err := s.payments.GetByIDWithRelations(ctx, req.PaymentID)
	if err != nil {
		return nil, notFound(err, "Payment", req.PaymentID)
	}

	captured, err := s.resolveStatus(ctx, domain.StatusCaptured)
	if err != nil {
		return nil, err
	}
	partiallyRefunded, err := s.resolveStatus(ctx, domain.StatusPartiallyRefunded)
	if err != nil {
		return nil, err
	}

	if payment.PaymentStatusID != captured.ID && payment.PaymentStatusID != partiallyRefunded.ID {
		s.logger.Warn("payment cannot be refunded",
			zap.String("payment_id", req.PaymentID),
			zap.String("payment_status_id", payment.PaymentStatusID),
		)
		return nil, &ValidationError{Reason: "payment can only be refunded when status is CAPTURED or PARTIALLY_REFUNDED"}
	}

	capture := findCaptureTransaction(payment.Transactions)
	if capture == nil {
		return nil, &ValidationError{Reason: "cannot find capture transaction for this payment"}
	}

	// Only an absent amount means a full refund; an explicit zero is a
	// caller mistake, not shorthand.
	refundAmount := payment.Amount
	if req.Amount != nil {
		refundAmount = *req.Amount
	}
	if refundAmount.LessThanOrEqual(decimal.Zero) || refundAmount.GreaterThan(payment.Amount) {
		return nil, &ValidationError{Reason: fmt.Sprintf("refund amount must be between 0 and %s", payment.Amount)}
	}

	// Cumulative bound: all successful refunds together can never exceed
	// the original amount.
	alreadyRefunded := sumSuccessfulRefunds(payment.Transactions)
	remaining := payment.Amount.Sub(alreadyRefunded)
	if refundAmount.GreaterThan(remaining) {
		return nil, &ValidationError{Reason: fmt.Sprintf("refund amount %s exceeds remaining refundable balance %s", refundAmount, remaining)}
	}

	result, err := s.gateway.Refund(ctx, capture.GatewayTransactionID, refundAmount)
	if err != nil {
		s.logger.Error("unexpected refund error", zap.String("payment_id", req.PaymentID), zap.Error(err))
		return nil, &PaymentError{Reason: "payment refund failed", Err: err}
	}

	var next *domain.PaymentStatus
	if result.Success {
		if alreadyRefunded.Add(refundAmount).Equal(payment.Amount) {
			next, err = s.resolveStatus(ctx, domain.StatusRefunded)
			if err != nil {
				return nil, err
			}
		} else {
			next = partiallyRefunded
		}
	}

	refundMetadata := domain.Metadata{
		"refundTransactionId": result.GatewayTransactionID,
		"refundAmount":        refundAmount.String(),
	}

	now := time.Now().UTC()
	entry := &domain.Transaction{
		ID:                   uuid.New().String(),
		PaymentID:            payment.ID,
		Type:                 domain.TransactionTypeRefund,
		Amount:               refundAmount,
		Status:               transactionStatus(result),
		GatewayResponse:      domain.Metadata(result.RawResponse),
		GatewayTransactionID: result.GatewayTransactionID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err = s.uow.WithinTx(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Transactions.Create(ctx, entry); err != nil {
			return err
		}
		if !result.Success {
			return nil
		}
		if err := repos.Payments.UpdateStatus(ctx, payment.ID, next.ID); err != nil {
			return err
		}
		return repos.Payments.MergeMetadata(ctx, payment.ID, refundMetadata)
	})
	if err != nil {
		return nil, &PaymentError{Reason: "payment refund failed", Err: err}
	}

	payment.Transactions = append(payment.Transactions, entry)

	if !result.Success {
		s.logger.Warn("refund declined",
			zap.String("payment_id", req.PaymentID),
			zap.String("error_code", result.ErrorCode),
		)
		return nil, resultError("payment refund failed", result)
	}

	payment.PaymentStatusID = next.ID
	payment.Metadata = payment.Metadata.Merge(refundMetadata)

	s.logger.Info("payment refunded", zap.String("payment_id", payment.ID))
	return payment, nil
}

// recordAttempt commits one gateway attempt as a unit: the ledger entry,
// the matching status transition (successStatus on success, FAILED
// otherwise), and any success metadata. The entry is written whatever
// the outcome — the ledger records attempts, not just successes.
func (s *PaymentService) recordAttempt(
	ctx context.Context,
	payment *domain.Payment,
	txType domain.TransactionType,
	amount decimal.Decimal,
	result *gateway.Result,
	successStatus domain.Status,
	successMetadata domain.Metadata,
) error {
	nextStatus := domain.StatusFailed
	if result.Success {
		nextStatus = successStatus
	}
	next, err := s.resolveStatus(ctx, nextStatus)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	entry := &domain.Transaction{
		ID:                   uuid.New().String(),
		PaymentID:            payment.ID,
		Type:                 txType,
		Amount:               amount,
		Status:               transactionStatus(result),
		GatewayResponse:      domain.Metadata(result.RawResponse),
		GatewayTransactionID: result.GatewayTransactionID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err = s.uow.WithinTx(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Transactions.Create(ctx, entry); err != nil {
			return err
		}
		if err := repos.Payments.UpdateStatus(ctx, payment.ID, next.ID); err != nil {
			return err
		}
		if result.Success && len(successMetadata) > 0 {
			return repos.Payments.MergeMetadata(ctx, payment.ID, successMetadata)
		}
		return nil
	})
	if err != nil {
		return err
	}

	payment.PaymentStatusID = next.ID
	payment.Transactions = append(payment.Transactions, entry)
	return nil
}

// failPayment drives a payment to FAILED after an unexpected error.
// Best-effort: the original error is what surfaces to the caller.
func (s *PaymentService) failPayment(ctx context.Context, payment *domain.Payment) {
	failed, err := s.resolveStatus(ctx, domain.StatusFailed)
	if err != nil {
		s.logger.Error("cannot resolve FAILED status", zap.Error(err))
		return
	}

	if err := s.payments.UpdateStatus(ctx, payment.ID, failed.ID); err != nil {
		s.logger.Error("cannot mark payment failed",
			zap.String("payment_id", payment.ID),
			zap.Error(err),
		)
		return
	}

	payment.PaymentStatusID = failed.ID
}

// GetPayment retrieves a payment with its customer, status, and ledger.
func (s *PaymentService) GetPayment(ctx context.Context, paymentID string) (*domain.Payment, error) {
	payment, err := s.payments.GetByIDWithRelations(ctx, paymentID)
	if err != nil {
		return nil, notFound(err, "Payment", paymentID)
	}
	return payment, nil
}

// ListPayments retrieves payments matching the filter, with the total count.
func (s *PaymentService) ListPayments(ctx context.Context, filter repository.PaymentFilter, page repository.Pagination) ([]*domain.Payment, int, error) {
	return s.payments.List(ctx, filter, page)
}

// ListTransactions retrieves a payment's ledger entries ascending by
// creation time.
func (s *PaymentService) ListTransactions(ctx context.Context, paymentID string) ([]*domain.Transaction, error) {
	if _, err := s.payments.GetByID(ctx, paymentID); err != nil {
		return nil, notFound(err, "Payment", paymentID)
	}
	return s.transactions.ListByPaymentID(ctx, paymentID)
}

func transactionStatus(result *gateway.Result) domain.TransactionStatus {
	if result.Success {
		return domain.TransactionStatusSuccess
	}
	return domain.TransactionStatusFailed
}

// resultError builds the PaymentError for a structured gateway failure.
func resultError(reason string, result *gateway.Result) *PaymentError {
	message := result.ErrorMessage
	if message == "" {
		message = reason
	}
	return &PaymentError{
		Reason:         reason,
		GatewayCode:    result.ErrorCode,
		GatewayMessage: message,
	}
}

// findCaptureTransaction returns the first successful CAPTURE entry that
// carries a gateway transaction id, or nil.
func findCaptureTransaction(transactions []*domain.Transaction) *domain.Transaction {
	for _, t := range transactions {
		if t.Type == domain.TransactionTypeCapture &&
			t.Status == domain.TransactionStatusSuccess &&
			t.GatewayTransactionID != "" {
			return t
		}
	}
	return nil
}

// sumSuccessfulRefunds totals the amounts of SUCCESS refund entries.
func sumSuccessfulRefunds(transactions []*domain.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range transactions {
		if t.Type == domain.TransactionTypeRefund && t.Status == domain.TransactionStatusSuccess {
			total = total.Add(t.Amount)
		}
	}
	return total
}
