package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paygate/internal/domain"
	"paygate/internal/repository"
	"paygate/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT REFUNDS
// ──────────────────────────────────────────────

// addCapturedPayment stores a CAPTURED payment with its successful
// capture entry on the ledger, as ProcessPayment would have left it.
func (f *paymentFixture) addCapturedPayment(amount string) *domain.Payment {
	payment := f.addPayment(amount, domain.StatusCaptured)
	now := time.Now().UTC()
	f.transactions.AddTransaction(&domain.Transaction{
		ID:                   uuid.New().String(),
		PaymentID:            payment.ID,
		Type:                 domain.TransactionTypeCapture,
		Amount:               payment.Amount,
		Status:               domain.TransactionStatusSuccess,
		GatewayTransactionID: "CAP_" + uuid.New().String(),
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	return payment
}

func (f *paymentFixture) refund(paymentID, amount string) (*domain.Payment, error) {
	req := service.RefundPaymentRequest{PaymentID: paymentID}
	if amount != "" {
		value := decimal.RequireFromString(amount)
		req.Amount = &value
	}
	return f.service.RefundPayment(context.Background(), req)
}

func TestRefundPayment_FullRefund(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addCapturedPayment("100.00")

	result, err := f.refund(payment.ID, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PaymentStatusID != f.statusIDs[domain.StatusRefunded] {
		t.Errorf("expected REFUNDED status, got %s", result.PaymentStatusID)
	}

	entries := f.transactions.EntriesForPayment(payment.ID)
	if len(entries) != 2 {
		t.Fatalf("expected capture + refund entries, got %d", len(entries))
	}
	refund := entries[1]
	if refund.Type != domain.TransactionTypeRefund || refund.Status != domain.TransactionStatusSuccess {
		t.Errorf("expected successful REFUND entry, got %s/%s", refund.Type, refund.Status)
	}
	if !refund.Amount.Equal(payment.Amount) {
		t.Errorf("expected full refund of %s, got %s", payment.Amount, refund.Amount)
	}

	stored := f.payments.GetPayment(payment.ID)
	if stored.Metadata["refundTransactionId"] == nil {
		t.Errorf("expected refundTransactionId in metadata, got %v", stored.Metadata)
	}
	if stored.Metadata["refundAmount"] != "100" {
		t.Errorf("expected refundAmount 100, got %v", stored.Metadata["refundAmount"])
	}
}

func TestRefundPayment_PartialRefund(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addCapturedPayment("100.00")

	result, err := f.refund(payment.ID, "40.00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.PaymentStatusID != f.statusIDs[domain.StatusPartiallyRefunded] {
		t.Errorf("expected PARTIALLY_REFUNDED status, got %s", result.PaymentStatusID)
	}
}

func TestRefundPayment_CumulativeRefundsCannotExceedAmount(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addCapturedPayment("100.00")

	if _, err := f.refund(payment.ID, "40.00"); err != nil {
		t.Fatalf("unexpected error on first refund: %v", err)
	}

	// 70 > the 60 still refundable.
	_, err := f.refund(payment.ID, "70.00")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	// Refunding the exact remainder completes the refund.
	result, err := f.refund(payment.ID, "60.00")
	if err != nil {
		t.Fatalf("unexpected error on final refund: %v", err)
	}
	if result.PaymentStatusID != f.statusIDs[domain.StatusRefunded] {
		t.Errorf("expected REFUNDED status after exhausting balance, got %s", result.PaymentStatusID)
	}
}

func TestRefundPayment_RejectsExplicitZeroOrNegativeAmount(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addCapturedPayment("100.00")

	// Unlike an omitted amount, an explicit zero is not a full refund.
	for _, amount := range []string{"0", "-10.00"} {
		_, err := f.refund(payment.ID, amount)
		if !errors.Is(err, service.ErrValidation) {
			t.Errorf("expected validation error for amount %s, got %v", amount, err)
		}
	}

	if f.gateway.RefundCallCount != 0 {
		t.Error("gateway must not be called for a rejected refund amount")
	}
	if got := len(f.transactions.EntriesForPayment(payment.ID)); got != 1 {
		t.Errorf("expected only the capture entry on the ledger, got %d", got)
	}
}

func TestRefundPayment_RejectsAmountAbovePayment(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addCapturedPayment("100.00")

	_, err := f.refund(payment.ID, "150.00")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.gateway.RefundCallCount != 0 {
		t.Error("gateway must not be called for an invalid refund amount")
	}
}

func TestRefundPayment_RejectsNonRefundableStatus(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addPayment("100.00", domain.StatusPending)

	_, err := f.refund(payment.ID, "")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRefundPayment_RequiresCaptureTransaction(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	// CAPTURED status but no capture entry on the ledger.
	payment := f.addPayment("100.00", domain.StatusCaptured)

	_, err := f.refund(payment.ID, "")
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRefundPayment_GatewayDeclineKeepsStatus(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addCapturedPayment("100.00")
	f.gateway.RefundResult = DeclinedResult("REFUND_REJECTED", "refund rejected")

	_, err := f.refund(payment.ID, "")
	if !errors.Is(err, service.ErrPayment) {
		t.Fatalf("expected payment error, got %v", err)
	}

	// The failed attempt is on the ledger; the payment status is
	// untouched and the refund can be retried.
	entries := f.transactions.EntriesForPayment(payment.ID)
	if len(entries) != 2 {
		t.Fatalf("expected capture + failed refund entries, got %d", len(entries))
	}
	if entries[1].Status != domain.TransactionStatusFailed {
		t.Errorf("expected failed REFUND entry, got %s", entries[1].Status)
	}

	if got := f.payments.GetPayment(payment.ID).PaymentStatusID; got != f.statusIDs[domain.StatusCaptured] {
		t.Errorf("expected status to stay CAPTURED, got %s", got)
	}
}

func TestRefundPayment_MissingCatalogRowIsNotFound(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addCapturedPayment("100.00")
	f.statuses.GetByNameError = repository.ErrNotFound

	_, err := f.refund(payment.ID, "")
	var notFound *service.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}

	if f.gateway.RefundCallCount != 0 {
		t.Error("gateway must not be called when the catalog is incomplete")
	}
}

func TestRefundPayment_PartiallyRefundedPaymentCanRefundAgain(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	payment := f.addCapturedPayment("100.00")

	if _, err := f.refund(payment.ID, "30.00"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	result, err := f.refund(payment.ID, "20.00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.PaymentStatusID != f.statusIDs[domain.StatusPartiallyRefunded] {
		t.Errorf("expected PARTIALLY_REFUNDED status, got %s", result.PaymentStatusID)
	}

	// Capture + two refunds.
	if got := len(f.transactions.EntriesForPayment(payment.ID)); got != 3 {
		t.Errorf("expected 3 ledger entries, got %d", got)
	}
}
