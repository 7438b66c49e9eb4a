package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"paygate/internal/domain"
	"paygate/internal/repository"
	"paygate/internal/service"
)

// PaymentStatusHandler handles HTTP requests for the payment-status
// catalog.
type PaymentStatusHandler struct {
	statuses *service.PaymentStatusService
}

// NewPaymentStatusHandler creates a new PaymentStatusHandler.
func NewPaymentStatusHandler(statuses *service.PaymentStatusService) *PaymentStatusHandler {
	return &PaymentStatusHandler{statuses: statuses}
}

// CreatePaymentStatusRequest is the HTTP request body for catalog
// entry creation.
type CreatePaymentStatusRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdatePaymentStatusRequest is the HTTP request body for catalog entry
// updates. Omitted fields are left untouched.
type UpdatePaymentStatusRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// PaymentStatusResponse is the HTTP response for catalog entries.
type PaymentStatusResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toPaymentStatusResponse(status *domain.PaymentStatus) PaymentStatusResponse {
	return PaymentStatusResponse{
		ID:          status.ID,
		Name:        status.Name,
		Description: status.Description,
		CreatedAt:   status.CreatedAt,
		UpdatedAt:   status.UpdatedAt,
	}
}

// Create handles POST /v1/payment-statuses
func (h *PaymentStatusHandler) Create(c *gin.Context) {
	var req CreatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "VALIDATION_ERROR"})
		return
	}

	status, err := h.statuses.CreatePaymentStatus(c.Request.Context(), service.CreatePaymentStatusRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentStatusResponse(status))
}

// Get handles GET /v1/payment-statuses/:id
func (h *PaymentStatusHandler) Get(c *gin.Context) {
	status, err := h.statuses.GetPaymentStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentStatusResponse(status))
}

// List handles GET /v1/payment-statuses
func (h *PaymentStatusHandler) List(c *gin.Context) {
	page := parsePagination(c)
	filter := repository.PaymentStatusFilter{Name: c.Query("name")}

	statuses, total, err := h.statuses.ListPaymentStatuses(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]PaymentStatusResponse, 0, len(statuses))
	for _, status := range statuses {
		items = append(items, toPaymentStatusResponse(status))
	}

	respondJSON(c, http.StatusOK, paginate(items, total, page))
}

// Update handles PATCH /v1/payment-statuses/:id
func (h *PaymentStatusHandler) Update(c *gin.Context) {
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "VALIDATION_ERROR"})
		return
	}

	status, err := h.statuses.UpdatePaymentStatus(c.Request.Context(), c.Param("id"), service.UpdatePaymentStatusRequest{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentStatusResponse(status))
}

// Delete handles DELETE /v1/payment-statuses/:id
func (h *PaymentStatusHandler) Delete(c *gin.Context) {
	if err := h.statuses.DeletePaymentStatus(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
