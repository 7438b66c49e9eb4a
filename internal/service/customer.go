package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"paygate/internal/domain"
	"paygate/internal/repository"
)

const (
	MinCustomerNameLength  = 2
	MaxCustomerNameLength  = 200
	MaxCustomerEmailLength = 255
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// CustomerService manages customer records.
type CustomerService struct {
	customers repository.CustomerRepository
	logger    *zap.Logger
}

// NewCustomerService creates a new CustomerService.
func NewCustomerService(customers repository.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customers: customers, logger: logger}
}

// CreateCustomerRequest contains the parameters for creating a customer.
type CreateCustomerRequest struct {
	Name  string
	Email string
}

func validateCustomerName(name string) error {
	if len(name) < MinCustomerNameLength {
		return &ValidationError{Reason: fmt.Sprintf("name must be at least %d characters", MinCustomerNameLength)}
	}
	if len(name) > MaxCustomerNameLength {
		return &ValidationError{Reason: fmt.Sprintf("name must not exceed %d characters", MaxCustomerNameLength)}
	}
	return nil
}

func validateCustomerEmail(email string) error {
	if len(email) > MaxCustomerEmailLength {
		return &ValidationError{Reason: fmt.Sprintf("email must not exceed %d characters", MaxCustomerEmailLength)}
	}
	if !emailPattern.MatchString(email) {
		return &ValidationError{Reason: "email must be a valid email address"}
	}
	return nil
}

// CreateCustomer validates and persists a new customer. Email addresses
// are unique among non-deleted customers.
func (s *CustomerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*domain.Customer, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := validateCustomerName(name); err != nil {
		s.logger.Warn("customer validation failed", zap.String("reason", err.Error()))
		return nil, err
	}
	if err := validateCustomerEmail(email); err != nil {
		s.logger.Warn("customer validation failed", zap.String("reason", err.Error()))
		return nil, err
	}

	existing, err := s.customers.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, &ValidationError{Reason: fmt.Sprintf("customer with email %s already exists", email)}
	}

	now := time.Now().UTC()
	customer := &domain.Customer{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created", zap.String("customer_id", customer.ID))
	return customer, nil
}

// GetCustomer retrieves a customer by id.
func (s *CustomerService) GetCustomer(ctx context.Context, customerID string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, notFound(err, "Customer", customerID)
	}
	return customer, nil
}

// ListCustomers retrieves customers matching the filter, with the total count.
func (s *CustomerService) ListCustomers(ctx context.Context, filter repository.CustomerFilter, page repository.Pagination) ([]*domain.Customer, int, error) {
	return s.customers.List(ctx, filter, page)
}

// UpdateCustomerRequest contains the fields to change. Nil fields are
// left untouched.
type UpdateCustomerRequest struct {
	Name  *string
	Email *string
}

// UpdateCustomer applies a partial update to a customer.
func (s *CustomerService) UpdateCustomer(ctx context.Context, customerID string, req UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, notFound(err, "Customer", customerID)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if err := validateCustomerName(name); err != nil {
			return nil, err
		}
		customer.Name = name
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if err := validateCustomerEmail(email); err != nil {
			return nil, err
		}
		if email != customer.Email {
			existing, err := s.customers.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil && existing.ID != customer.ID {
				return nil, &ValidationError{Reason: fmt.Sprintf("customer with email %s already exists", email)}
			}
		}
		customer.Email = email
	}

	customer.UpdatedAt = time.Now().UTC()
	if err := s.customers.Update(ctx, customer); err != nil {
		return nil, notFound(err, "Customer", customerID)
	}

	s.logger.Info("customer updated", zap.String("customer_id", customer.ID))
	return customer, nil
}

// DeleteCustomer soft-deletes a customer. The row is retained for
// payment history.
func (s *CustomerService) DeleteCustomer(ctx context.Context, customerID string) error {
	if err := s.customers.SoftDelete(ctx, customerID); err != nil {
		return notFound(err, "Customer", customerID)
	}

	s.logger.Info("customer deleted", zap.String("customer_id", customerID))
	return nil
}
