package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"paygate/internal/domain"
	"paygate/internal/repository"
	"paygate/internal/service"
)

// CustomerHandler handles HTTP requests for customers.
type CustomerHandler struct {
	customers *service.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler.
func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

// CreateCustomerRequest is the HTTP request body for customer creation.
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateCustomerRequest is the HTTP request body for customer updates.
// Omitted fields are left untouched.
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// CustomerResponse is the HTTP response for customer data.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func toCustomerResponse(customer *domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        customer.ID,
		Name:      customer.Name,
		Email:     customer.Email,
		CreatedAt: customer.CreatedAt,
		UpdatedAt: customer.UpdatedAt,
	}
}

// Create handles POST /v1/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "VALIDATION_ERROR"})
		return
	}

	customer, err := h.customers.CreateCustomer(c.Request.Context(), service.CreateCustomerRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toCustomerResponse(customer))
}

// Get handles GET /v1/customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.customers.GetCustomer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCustomerResponse(customer))
}

// List handles GET /v1/customers
func (h *CustomerHandler) List(c *gin.Context) {
	page := parsePagination(c)
	filter := repository.CustomerFilter{
		Name:  c.Query("name"),
		Email: c.Query("email"),
	}

	customers, total, err := h.customers.ListCustomers(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		items = append(items, toCustomerResponse(customer))
	}

	respondJSON(c, http.StatusOK, paginate(items, total, page))
}

// Update handles PATCH /v1/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	var req UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "VALIDATION_ERROR"})
		return
	}

	customer, err := h.customers.UpdateCustomer(c.Request.Context(), c.Param("id"), service.UpdateCustomerRequest{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toCustomerResponse(customer))
}

// Delete handles DELETE /v1/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.customers.DeleteCustomer(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
