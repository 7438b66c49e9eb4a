package tests

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"paygate/internal/domain"
	"paygate/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT CREATION AND VALIDATION
// ──────────────────────────────────────────────

func (f *paymentFixture) addCustomer() *domain.Customer {
	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:        uuid.New().String(),
		Name:      "Jordan Blake",
		Email:     "jordan@example.com",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.customers.AddCustomer(customer)
	return customer
}

func (f *paymentFixture) createRequest(customer *domain.Customer) service.CreatePaymentRequest {
	return service.CreatePaymentRequest{
		Amount:            decimal.RequireFromString("100.00"),
		Currency:          "usd",
		CardToken:         "tok_4111111111111111",
		MerchantReference: "ORDER-001",
		CustomerID:        customer.ID,
		PaymentStatusID:   f.statusIDs[domain.StatusPending],
	}
}

func TestCreatePayment_Succeeds(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	customer := f.addCustomer()

	payment, err := f.service.CreatePayment(context.Background(), f.createRequest(customer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payment.Currency != "USD" {
		t.Errorf("expected currency normalized to USD, got %s", payment.Currency)
	}
	if payment.Metadata == nil {
		t.Error("expected metadata to default to an empty bag")
	}
	if payment.PaymentStatusID != f.statusIDs[domain.StatusPending] {
		t.Errorf("expected PENDING status, got %s", payment.PaymentStatusID)
	}
	if f.gateway.AuthorizeCallCount != 0 {
		t.Error("creation must not touch the gateway")
	}
}

func TestCreatePayment_ValidatesInput(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	customer := f.addCustomer()

	cases := []struct {
		name   string
		mutate func(req *service.CreatePaymentRequest)
	}{
		{"amount below minimum", func(req *service.CreatePaymentRequest) {
			req.Amount = decimal.Zero
		}},
		{"amount above maximum", func(req *service.CreatePaymentRequest) {
			req.Amount = decimal.RequireFromString("1000000.00")
		}},
		{"currency not 3 letters", func(req *service.CreatePaymentRequest) {
			req.Currency = "DOLLARS"
		}},
		{"card token too short", func(req *service.CreatePaymentRequest) {
			req.CardToken = "tok_1"
		}},
		{"card token too long", func(req *service.CreatePaymentRequest) {
			req.CardToken = "tok_" + strings.Repeat("x", 120)
		}},
		{"merchant reference too short", func(req *service.CreatePaymentRequest) {
			req.MerchantReference = "AB"
		}},
		{"merchant reference too long", func(req *service.CreatePaymentRequest) {
			req.MerchantReference = strings.Repeat("R", 101)
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := f.createRequest(customer)
			tc.mutate(&req)

			_, err := f.service.CreatePayment(context.Background(), req)
			if !errors.Is(err, service.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}

	if f.payments.CreateCallCount != 0 {
		t.Error("no payment should be persisted for invalid input")
	}
}

func TestCreatePayment_UnknownCustomer(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	customer := f.addCustomer()

	req := f.createRequest(customer)
	req.CustomerID = uuid.New().String()

	_, err := f.service.CreatePayment(context.Background(), req)
	var notFound *service.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
	if notFound.Entity != "Customer" {
		t.Errorf("expected Customer not found, got %s", notFound.Entity)
	}
}

func TestCreatePayment_UnknownStatus(t *testing.T) {
	t.Parallel()

	f := newPaymentFixture()
	customer := f.addCustomer()

	req := f.createRequest(customer)
	req.PaymentStatusID = uuid.New().String()

	_, err := f.service.CreatePayment(context.Background(), req)
	var notFound *service.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not found error, got %v", err)
	}
}
