package tests

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"paygate/internal/service"
)

// ──────────────────────────────────────────────
// PAYMENT STATUS CATALOG
// ──────────────────────────────────────────────

func newStatusService() (*service.PaymentStatusService, *MockPaymentStatusRepository) {
	repo := NewMockPaymentStatusRepository()
	return service.NewPaymentStatusService(repo, zap.NewNop()), repo
}

func TestCreatePaymentStatus_UpperCasesName(t *testing.T) {
	t.Parallel()

	svc, _ := newStatusService()

	status, err := svc.CreatePaymentStatus(context.Background(), service.CreatePaymentStatusRequest{
		Name:        "on_hold",
		Description: "Payment is on hold pending review",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if status.Name != "ON_HOLD" {
		t.Errorf("expected upper-cased name, got %q", status.Name)
	}
}

func TestCreatePaymentStatus_RejectsDuplicateName(t *testing.T) {
	t.Parallel()

	svc, repo := newStatusService()
	repo.SeedWorkflowStatuses()

	_, err := svc.CreatePaymentStatus(context.Background(), service.CreatePaymentStatusRequest{
		Name: "pending",
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdatePaymentStatus_RejectsRenameOntoExistingName(t *testing.T) {
	t.Parallel()

	svc, repo := newStatusService()
	ids := repo.SeedWorkflowStatuses()

	name := "captured"
	_, err := svc.UpdatePaymentStatus(context.Background(), ids["PENDING"], service.UpdatePaymentStatusRequest{
		Name: &name,
	})
	if !errors.Is(err, service.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
