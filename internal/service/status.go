package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"paygate/internal/domain"
	"paygate/internal/repository"
)

const (
	MinStatusNameLength        = 2
	MaxStatusNameLength        = 100
	MaxStatusDescriptionLength = 500
)

// PaymentStatusService manages the payment-status catalog. The workflow
// statuses are seeded at startup; this service exists for operational
// inspection and for merchant-defined catalog entries.
type PaymentStatusService struct {
	statuses repository.PaymentStatusRepository
	logger   *zap.Logger
}

// NewPaymentStatusService creates a new PaymentStatusService.
func NewPaymentStatusService(statuses repository.PaymentStatusRepository, logger *zap.Logger) *PaymentStatusService {
	return &PaymentStatusService{statuses: statuses, logger: logger}
}

// CreatePaymentStatusRequest contains the parameters for creating a
// catalog entry.
type CreatePaymentStatusRequest struct {
	Name        string
	Description string
}

func validateStatusName(name string) error {
	if len(name) < MinStatusNameLength {
		return &ValidationError{Reason: fmt.Sprintf("name must be at least %d characters", MinStatusNameLength)}
	}
	if len(name) > MaxStatusNameLength {
		return &ValidationError{Reason: fmt.Sprintf("name must not exceed %d characters", MaxStatusNameLength)}
	}
	return nil
}

// CreatePaymentStatus validates and persists a new catalog entry. Names
// are upper-cased and unique.
func (s *PaymentStatusService) CreatePaymentStatus(ctx context.Context, req CreatePaymentStatusRequest) (*domain.PaymentStatus, error) {
	name := strings.ToUpper(strings.TrimSpace(req.Name))
	description := strings.TrimSpace(req.Description)

	if err := validateStatusName(name); err != nil {
		s.logger.Warn("payment status validation failed", zap.String("reason", err.Error()))
		return nil, err
	}
	if len(description) > MaxStatusDescriptionLength {
		return nil, &ValidationError{Reason: fmt.Sprintf("description must not exceed %d characters", MaxStatusDescriptionLength)}
	}

	existing, err := s.statuses.GetByName(ctx, name)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("payment status %s already exists", name)}
	}

	now := time.Now().UTC()
	status := &domain.PaymentStatus{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.statuses.Create(ctx, status); err != nil {
		return nil, err
	}

	s.logger.Info("payment status created", zap.String("status_id", status.ID), zap.String("name", status.Name))
	return status, nil
}

// GetPaymentStatus retrieves a catalog entry by id.
func (s *PaymentStatusService) GetPaymentStatus(ctx context.Context, statusID string) (*domain.PaymentStatus, error) {
	status, err := s.statuses.GetByID(ctx, statusID)
	if err != nil {
		return nil, notFound(err, "PaymentStatus", statusID)
	}
	return status, nil
}

// ListPaymentStatuses retrieves catalog entries matching the filter,
// with the total count.
func (s *PaymentStatusService) ListPaymentStatuses(ctx context.Context, filter repository.PaymentStatusFilter, page repository.Pagination) ([]*domain.PaymentStatus, int, error) {
	return s.statuses.List(ctx, filter, page)
}

// UpdatePaymentStatusRequest contains the fields to change. Nil fields
// are left untouched.
type UpdatePaymentStatusRequest struct {
	Name        *string
	Description *string
}

// UpdatePaymentStatus applies a partial update to a catalog entry.
// Renaming a workflow status is allowed by storage but will break
// processing; callers are expected to rename only their own entries.
func (s *PaymentStatusService) UpdatePaymentStatus(ctx context.Context, statusID string, req UpdatePaymentStatusRequest) (*domain.PaymentStatus, error) {
	status, err := s.statuses.GetByID(ctx, statusID)
	if err != nil {
		return nil, notFound(err, "PaymentStatus", statusID)
	}

	if req.Name != nil {
		name := strings.ToUpper(strings.TrimSpace(*req.Name))
		if err := validateStatusName(name); err != nil {
			return nil, err
		}
		if name != status.Name {
			existing, err := s.statuses.GetByName(ctx, name)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return nil, err
			}
			if existing != nil && existing.ID != status.ID {
				return nil, &ValidationError{Reason: fmt.Sprintf("payment status %s already exists", name)}
			}
		}
		status.Name = name
	}

	if req.Description != nil {
		description := strings.TrimSpace(*req.Description)
		if len(description) > MaxStatusDescriptionLength {
			return nil, &ValidationError{Reason: fmt.Sprintf("description must not exceed %d characters", MaxStatusDescriptionLength)}
		}
		status.Description = description
	}

	status.UpdatedAt = time.Now().UTC()
	if err := s.statuses.Update(ctx, status); err != nil {
		return nil, notFound(err, "PaymentStatus", statusID)
	}

	s.logger.Info("payment status updated", zap.String("status_id", status.ID))
	return status, nil
}

// DeletePaymentStatus soft-deletes a catalog entry. Payments already
// referencing it keep their foreign key.
func (s *PaymentStatusService) DeletePaymentStatus(ctx context.Context, statusID string) error {
	if err := s.statuses.SoftDelete(ctx, statusID); err != nil {
		return notFound(err, "PaymentStatus", statusID)
	}

	s.logger.Info("payment status deleted", zap.String("status_id", statusID))
	return nil
}
