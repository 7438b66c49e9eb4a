package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"paygate/internal/domain"
	"paygate/internal/repository"
	"paygate/internal/service"
)

// PaymentHandler handles HTTP requests for payments and their
// transaction ledgers.
type PaymentHandler struct {
	payments *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(payments *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// CreatePaymentRequest is the HTTP request body for payment creation.
type CreatePaymentRequest struct {
	Amount            decimal.Decimal `json:"amount"`
	Currency          string          `json:"currency"`
	CardToken         string          `json:"cardToken"`
	MerchantReference string          `json:"merchantReference"`
	CustomerID        string          `json:"customerId"`
	PaymentStatusID   string          `json:"paymentStatusId"`
	Metadata          domain.Metadata `json:"metadata"`
}

// RefundPaymentRequest is the HTTP request body for refunds. An omitted
// amount refunds the full payment; an explicit zero is rejected.
type RefundPaymentRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// PaymentResponse is the HTTP response for payment data. Customer,
// status, and transactions appear only when the payment was loaded with
// its relations.
type PaymentResponse struct {
	ID                string                 `json:"id"`
	Amount            decimal.Decimal        `json:"amount"`
	Currency          string                 `json:"currency"`
	MerchantReference string                 `json:"merchantReference"`
	CustomerID        string                 `json:"customerId"`
	PaymentStatusID   string                 `json:"paymentStatusId"`
	Metadata          domain.Metadata        `json:"metadata"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
	Customer          *CustomerResponse      `json:"customer,omitempty"`
	Status            *PaymentStatusResponse `json:"status,omitempty"`
	Transactions      []TransactionResponse  `json:"transactions,omitempty"`
}

// TransactionResponse is the HTTP response for ledger entries.
type TransactionResponse struct {
	ID                   string          `json:"id"`
	PaymentID            string          `json:"paymentId"`
	Type                 string          `json:"type"`
	Amount               decimal.Decimal `json:"amount"`
	Status               string          `json:"status"`
	GatewayResponse      domain.Metadata `json:"gatewayResponse"`
	GatewayTransactionID string          `json:"gatewayTransactionId,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

func toTransactionResponse(tx *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                   tx.ID,
		PaymentID:            tx.PaymentID,
		Type:                 string(tx.Type),
		Amount:               tx.Amount,
		Status:               string(tx.Status),
		GatewayResponse:      tx.GatewayResponse,
		GatewayTransactionID: tx.GatewayTransactionID,
		CreatedAt:            tx.CreatedAt,
		UpdatedAt:            tx.UpdatedAt,
	}
}

// The card token is deliberately absent from responses.
func toPaymentResponse(payment *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:                payment.ID,
		Amount:            payment.Amount,
		Currency:          payment.Currency,
		MerchantReference: payment.MerchantReference,
		CustomerID:        payment.CustomerID,
		PaymentStatusID:   payment.PaymentStatusID,
		Metadata:          payment.Metadata,
		CreatedAt:         payment.CreatedAt,
		UpdatedAt:         payment.UpdatedAt,
	}

	if payment.Customer != nil {
		customer := toCustomerResponse(payment.Customer)
		resp.Customer = &customer
	}
	if payment.Status != nil {
		status := toPaymentStatusResponse(payment.Status)
		resp.Status = &status
	}
	for _, tx := range payment.Transactions {
		resp.Transactions = append(resp.Transactions, toTransactionResponse(tx))
	}

	return resp
}

// Create handles POST /v1/payments
func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "VALIDATION_ERROR"})
		return
	}

	payment, err := h.payments.CreatePayment(c.Request.Context(), service.CreatePaymentRequest{
		Amount:            req.Amount,
		Currency:          req.Currency,
		CardToken:         req.CardToken,
		MerchantReference: req.MerchantReference,
		CustomerID:        req.CustomerID,
		PaymentStatusID:   req.PaymentStatusID,
		Metadata:          req.Metadata,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentResponse(payment))
}

// Get handles GET /v1/payments/:id
func (h *PaymentHandler) Get(c *gin.Context) {
	payment, err := h.payments.GetPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// List handles GET /v1/payments
func (h *PaymentHandler) List(c *gin.Context) {
	page := parsePagination(c)

	filter := repository.PaymentFilter{
		CustomerID:        c.Query("customerId"),
		PaymentStatusID:   c.Query("paymentStatusId"),
		MerchantReference: c.Query("merchantReference"),
		Currency:          c.Query("currency"),
	}
	if raw := c.Query("minAmount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "minAmount must be a decimal number", Code: "VALIDATION_ERROR"})
			return
		}
		filter.MinAmount = &amount
	}
	if raw := c.Query("maxAmount"); raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "maxAmount must be a decimal number", Code: "VALIDATION_ERROR"})
			return
		}
		filter.MaxAmount = &amount
	}

	payments, total, err := h.payments.ListPayments(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]PaymentResponse, 0, len(payments))
	for _, payment := range payments {
		items = append(items, toPaymentResponse(payment))
	}

	respondJSON(c, http.StatusOK, paginate(items, total, page))
}

// Process handles POST /v1/payments/:id/process
func (h *PaymentHandler) Process(c *gin.Context) {
	payment, err := h.payments.ProcessPayment(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// Refund handles POST /v1/payments/:id/refund
func (h *PaymentHandler) Refund(c *gin.Context) {
	// An empty body is a full refund.
	var req RefundPaymentRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "VALIDATION_ERROR"})
			return
		}
	}

	payment, err := h.payments.RefundPayment(c.Request.Context(), service.RefundPaymentRequest{
		PaymentID: c.Param("id"),
		Amount:    req.Amount,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// Transactions handles GET /v1/payments/:id/transactions
func (h *PaymentHandler) Transactions(c *gin.Context) {
	transactions, err := h.payments.ListTransactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]TransactionResponse, 0, len(transactions))
	for _, tx := range transactions {
		items = append(items, toTransactionResponse(tx))
	}

	respondJSON(c, http.StatusOK, items)
}
