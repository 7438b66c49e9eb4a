package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"paygate/internal/domain"
	"paygate/internal/repository"
	"paygate/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT PROCESSING (AUTHORIZE + CAPTURE)
// ──────────────────────────────────────────────

// paymentFixture wires a PaymentService against the shared mocks.
type paymentFixture struct {
	payments     *MockPaymentRepository
	transactions *MockTransactionRepository
	customers    *MockCustomerRepository
	statuses     *MockPaymentStatusRepository
	uow          *MockUnitOfWork
	gateway      *MockGateway
	service      *service.PaymentService
	statusIDs    map[domain.Status]string
}

func newPaymentFixture() *paymentFixture {
	payments := NewMockPaymentRepository()
	transactions := NewMockTransactionRepository()
	payments.Transactions = transactions
	customers := NewMockCustomerRepository()
	statuses := NewMockPaymentStatusRepository()
	gw := NewMockGateway()
	uow := NewMockUnitOfWork(payments, transactions)

	return &paymentFixture{
		payments:     payments,
		transactions: transactions,
		customers:    customers,
		statuses:     statuses,
		uow:          uow,
		gateway:      gw,
		statusIDs:    statuses.SeedWorkflowStatuses(),
		service: service.NewPaymentService(
			payments, transactions, customers, statuses, uow, gw, zap.NewNop(),
		),
	}
}

// addPayment stores a payment in the given workflow status.
func (f *paymentFixture) addPayment(amount string, status domain.Status) *domain.Payment {
	now := time.Now().UTC()
	payment := &domain.Payment{
		ID:                uuid.New().String(),
		Amount:            decimal.RequireFromString(amount),
		Currency:          "USD",
		CardToken:         "tok_4111111111111111",
		MerchantReference: "ORDER-001",
		CustomerID:        uuid.New().String(),
		PaymentStatusID:   f.statusIDs[status],
		Metadata:          domain.Metadata{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	f.payments.AddPayment(payment)
	return payment
}

func TestProcessPayment_AuthorizeAndCaptureSucceed(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addPayment("100.00", domain.StatusPending)

	result, err := f.service.ProcessPayment(context.Background(), payment.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PaymentStatusID != f.statusIDs[domain.StatusCaptured] {
		t.Errorf("expected CAPTURED status, got %s", result.PaymentStatusID)
	}

	entries := f.transactions.EntriesForPayment(payment.ID)
	if len(entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(entries))
	}
	if entries[0].Type != domain.TransactionTypeAuthorization || entries[0].Status != domain.TransactionStatusSuccess {
		t.Errorf("expected successful AUTHORIZATION entry, got %s/%s", entries[0].Type, entries[0].Status)
	}
	if entries[1].Type != domain.TransactionTypeCapture || entries[1].Status != domain.TransactionStatusSuccess {
		t.Errorf("expected successful CAPTURE entry, got %s/%s", entries[1].Type, entries[1].Status)
	}
	if !entries[0].Amount.Equal(payment.Amount) {
		t.Errorf("expected authorization for %s, got %s", payment.Amount, entries[0].Amount)
	}

	stored := f.payments.GetPayment(payment.ID)
	if stored.Metadata["authorizationTransactionId"] == nil || stored.Metadata["captureTransactionId"] == nil {
		t.Errorf("expected gateway transaction ids in metadata, got %v", stored.Metadata)
	}
}

func TestProcessPayment_AuthorizationDeclined(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addPayment("100.00", domain.StatusPending)
	f.gateway.AuthorizeResult = DeclinedResult("INSUFFICIENT_FUNDS", "insufficient funds")

	_, err := f.service.ProcessPayment(context.Background(), payment.ID)
	if !errors.Is(err, service.ErrPayment) {
		t.Fatalf("expected payment error, got %v", err)
	}

	var paymentErr *service.PaymentError
	if !errors.As(err, &paymentErr) || paymentErr.GatewayCode != "INSUFFICIENT_FUNDS" {
		t.Errorf("expected gateway code INSUFFICIENT_FUNDS, got %v", err)
	}

	// The decline is on the ledger and the payment is FAILED.
	entries := f.transactions.EntriesForPayment(payment.ID)
	if len(entries) != 1 {
		t.Fatalf("expected 1 ledger entry, got %d", len(entries))
	}
	if entries[0].Type != domain.TransactionTypeAuthorization || entries[0].Status != domain.TransactionStatusFailed {
		t.Errorf("expected failed AUTHORIZATION entry, got %s/%s", entries[0].Type, entries[0].Status)
	}

	if got := f.payments.GetPayment(payment.ID).PaymentStatusID; got != f.statusIDs[domain.StatusFailed] {
		t.Errorf("expected FAILED status, got %s", got)
	}

	if f.gateway.CaptureCallCount != 0 {
		t.Error("capture must not be attempted after a declined authorization")
	}
}

func TestProcessPayment_CaptureDeclined(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addPayment("50.00", domain.StatusPending)
	f.gateway.CaptureResult = DeclinedResult("CAPTURE_REJECTED", "capture rejected")

	_, err := f.service.ProcessPayment(context.Background(), payment.ID)
	if !errors.Is(err, service.ErrPayment) {
		t.Fatalf("expected payment error, got %v", err)
	}

	entries := f.transactions.EntriesForPayment(payment.ID)
	if len(entries) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(entries))
	}
	if entries[0].Status != domain.TransactionStatusSuccess {
		t.Errorf("expected successful AUTHORIZATION entry, got %s", entries[0].Status)
	}
	if entries[1].Type != domain.TransactionTypeCapture || entries[1].Status != domain.TransactionStatusFailed {
		t.Errorf("expected failed CAPTURE entry, got %s/%s", entries[1].Type, entries[1].Status)
	}

	if got := f.payments.GetPayment(payment.ID).PaymentStatusID; got != f.statusIDs[domain.StatusFailed] {
		t.Errorf("expected FAILED status, got %s", got)
	}
}

func TestProcessPayment_RejectsNonPendingPayment(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addPayment("100.00", domain.StatusCaptured)

	_, err := f.service.ProcessPayment(context.Background(), payment.ID)
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if f.gateway.AuthorizeCallCount != 0 {
		t.Error("gateway must not be called for a non-pending payment")
	}
	if f.transactions.CountEntries() != 0 {
		t.Error("no ledger entries expected for a rejected process attempt")
	}
}

func TestProcessPayment_RejectsConcurrentClaim(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addPayment("100.00", domain.StatusPending)
	f.payments.ForceClaimFailure = true

	_, err := f.service.ProcessPayment(context.Background(), payment.ID)
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	if f.gateway.AuthorizeCallCount != 0 {
		t.Error("gateway must not be called when the claim is lost")
	}
}

func TestProcessPayment_UnexpectedGatewayErrorMarksPaymentFailed(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addPayment("100.00", domain.StatusPending)
	f.gateway.AuthorizeError = errors.New("connection reset")

	_, err := f.service.ProcessPayment(context.Background(), payment.ID)
	if !errors.Is(err, service.ErrPayment) {
		t.Fatalf("expected payment error, got %v", err)
	}

	// No gateway result exists, so nothing goes on the ledger; the
	// payment itself still lands in FAILED.
	if f.transactions.CountEntries() != 0 {
		t.Errorf("expected no ledger entries, got %d", f.transactions.CountEntries())
	}
	if got := f.payments.GetPayment(payment.ID).PaymentStatusID; got != f.statusIDs[domain.StatusFailed] {
		t.Errorf("expected FAILED status, got %s", got)
	}
}

func TestProcessPayment_MissingCatalogRowIsNotFound(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addPayment("100.00", domain.StatusPending)
	f.statuses.GetByNameError = repository.ErrNotFound

	// A missing workflow status row is a deployment problem, surfaced
	// through the not-found taxonomy rather than as bad input.
	_, err := f.service.ProcessPayment(context.Background(), payment.ID)
	var notFound *service.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if notFound.Entity != "PaymentStatus" {
		t.Errorf("expected PaymentStatus not found, got %s", notFound.Entity)
	}
	if errors.Is(err, service.ErrValidation) {
		t.Error("catalog absence must not surface as a validation error")
	}

	if f.gateway.AuthorizeCallCount != 0 {
		t.Error("gateway must not be called when the catalog is incomplete")
	}
	if f.transactions.CountEntries() != 0 {
		t.Errorf("expected no ledger entries, got %d", f.transactions.CountEntries())
	}
}

func TestProcessPayment_UnknownPayment(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()

	_, err := f.service.ProcessPayment(context.Background(), uuid.New().String())
	var notFound *service.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
