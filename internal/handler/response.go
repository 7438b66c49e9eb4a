package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"paygate/internal/repository"
	"paygate/internal/service"
)

// ErrorResponse represents an error response. Code is a stable machine
// string; GatewayCode is present only for gateway-declined operations.
type ErrorResponse struct {
	Error       string `json:"error"`
	Code        string `json:"code"`
	GatewayCode string `json:"gatewayCode,omitempty"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	status, code := mapErrorToHTTPStatus(err)

	resp := ErrorResponse{Error: err.Error(), Code: code}
	var paymentErr *service.PaymentError
	if errors.As(err, &paymentErr) {
		resp.GatewayCode = paymentErr.GatewayCode
	}

	c.JSON(status, resp)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status
// codes. Gateway declines are 422: the request was well-formed but the
// payment could not be completed.
func mapErrorToHTTPStatus(err error) (int, string) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"

	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "VALIDATION_ERROR"

	case errors.Is(err, service.ErrPayment):
		return http.StatusUnprocessableEntity, "PAYMENT_ERROR"

	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR"
	}
}
