package tests

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"paygate/internal/service"
)

// ──────────────────────────────────────────────
// CUSTOMER MANAGEMENT
// ──────────────────────────────────────────────

func newCustomerService() (*service.CustomerService, *MockCustomerRepository) {
	repo := NewMockCustomerRepository()
	return service.NewCustomerService(repo, zap.NewNop()), repo
}

func TestCreateCustomer_NormalizesAndPersists(t *testing.T) {
	t.Parallel()

	svc, repo := newCustomerService()

	customer, err := svc.CreateCustomer(context.Background(), service.CreateCustomerRequest{
		Name:  "  Jordan Blake ",
		Email: "Jordan@Example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if customer.Name != "Jordan Blake" {
		t.Errorf("expected trimmed name, got %q", customer.Name)
	}
	if customer.Email != "jordan@example.com" {
		t.Errorf("expected lower-cased email, got %q", customer.Email)
	}
	if repo.CreateCallCount != 1 {
		t.Errorf("expected 1 create call, got %d", repo.CreateCallCount)
	}
}

func TestCreateCustomer_RejectsDuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newCustomerService()
	ctx := context.Background()

	if _, err := svc.CreateCustomer(ctx, service.CreateCustomerRequest{
		Name:  "Jordan Blake",
		Email: "jordan@example.com",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.CreateCustomer(ctx, service.CreateCustomerRequest{
		Name:  "Other Person",
		Email: "jordan@example.com",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateCustomer_RejectsInvalidEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newCustomerService()

	for _, email := range []string{"", "not-an-email", "a@b", "a b@example.com"} {
		_, err := svc.CreateCustomer(context.Background(), service.CreateCustomerRequest{
			Name:  "Jordan Blake",
			Email: email,
		})
		if !errors.Is(err, service.ErrValidation) {
			t.Errorf("expected validation error for %q, got %v", email, err)
		}
	}
}

func TestUpdateCustomer_PartialUpdate(t *testing.T) {
	t.Parallel()

	svc, _ := newCustomerService()
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, service.CreateCustomerRequest{
		Name:  "Jordan Blake",
		Email: "jordan@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newName := "Jordan B."
	updated, err := svc.UpdateCustomer(ctx, customer.ID, service.UpdateCustomerRequest{Name: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.Name != newName {
		t.Errorf("expected updated name, got %q", updated.Name)
	}
	if updated.Email != customer.Email {
		t.Errorf("email must be untouched, got %q", updated.Email)
	}
}

func TestUpdateCustomer_RejectsEmailTakenByAnother(t *testing.T) {
	t.Parallel()

	svc, _ := newCustomerService()
	ctx := context.Background()

	if _, err := svc.CreateCustomer(ctx, service.CreateCustomerRequest{
		Name:  "Jordan Blake",
		Email: "jordan@example.com",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.CreateCustomer(ctx, service.CreateCustomerRequest{
		Name:  "Riley Chen",
		Email: "riley@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	taken := "jordan@example.com"
	_, err = svc.UpdateCustomer(ctx, second.ID, service.UpdateCustomerRequest{Email: &taken})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteCustomer_HidesCustomerFromReads(t *testing.T) {
	t.Parallel()

	svc, _ := newCustomerService()
	ctx := context.Background()

	customer, err := svc.CreateCustomer(ctx, service.CreateCustomerRequest{
		Name:  "Jordan Blake",
		Email: "jordan@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := svc.DeleteCustomer(ctx, customer.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = svc.GetCustomer(ctx, customer.ID)
	var notFound *service.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	// The freed email is usable again.
	if _, err := svc.CreateCustomer(ctx, service.CreateCustomerRequest{
		Name:  "Jordan Blake",
		Email: "jordan@example.com",
	}); err != nil {
		t.Fatalf("expected email to be reusable after delete, got %v", err)
	}
}
