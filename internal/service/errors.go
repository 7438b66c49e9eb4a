package service

import (
	"errors"
	"fmt"

	"paygate/internal/repository"
)

var (
	// ErrValidation tags business-rule violations: the caller must change
	// its input or the entity's state before retrying.
	ErrValidation = errors.New("validation error")

	// ErrPayment tags gateway failures, structured or unexpected. During
	// processing the payment is driven to FAILED before this surfaces.
	ErrPayment = errors.New("payment error")
)

// NotFoundError reports a missing entity or catalog row. A missing
// catalog row signals a misconfigured deployment, not a bad request, so
// it shares this type rather than ValidationError.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s with id %s not found", e.Entity, e.ID)
}

// Unwrap keeps errors.Is(err, repository.ErrNotFound) working across
// layers.
func (e *NotFoundError) Unwrap() error { return repository.ErrNotFound }

// ValidationError reports a precondition or input violation.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func (e *ValidationError) Unwrap() error { return ErrValidation }

// PaymentError reports a failed gateway interaction, carrying the
// gateway's error code and message for the transport layer.
type PaymentError struct {
	Reason         string
	GatewayCode    string
	GatewayMessage string
	Err            error
}

func (e *PaymentError) Error() string {
	switch {
	case e.GatewayCode != "":
		return fmt.Sprintf("%s: %s", e.Reason, e.GatewayCode)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	default:
		return e.Reason
	}
}

func (e *PaymentError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrPayment, e.Err}
	}
	return []error{ErrPayment}
}

// notFound converts a repository miss into a NotFoundError carrying the
// entity kind and id; other errors pass through.
func notFound(err error, entity, id string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return err
}
