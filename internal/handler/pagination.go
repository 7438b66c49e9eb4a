package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"paygate/internal/repository"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// parsePagination reads page/limit/sortBy/sortOrder query parameters,
// clamping out-of-range values instead of rejecting them. SortBy is
// validated against each repository's column whitelist downstream.
func parsePagination(c *gin.Context) repository.Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	if err != nil || page < 1 {
		page = defaultPage
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	sortOrder := c.DefaultQuery("sortOrder", "DESC")
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	return repository.Pagination{
		Page:      page,
		Limit:     limit,
		SortBy:    c.Query("sortBy"),
		SortOrder: sortOrder,
	}
}

// PaginatedResponse is the envelope for list endpoints.
type PaginatedResponse[T any] struct {
	Data        []T  `json:"data"`
	Page        int  `json:"page"`
	Limit       int  `json:"limit"`
	Total       int  `json:"total"`
	TotalPages  int  `json:"totalPages"`
	HasNext     bool `json:"hasNext"`
	HasPrevious bool `json:"hasPrevious"`
}

// paginate wraps items in the list envelope. Data is never null in the
// JSON output, even for an empty page.
func paginate[T any](items []T, total int, page repository.Pagination) PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + page.Limit - 1) / page.Limit
	}

	return PaginatedResponse[T]{
		Data:        items,
		Page:        page.Page,
		Limit:       page.Limit,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page.Page < totalPages,
		HasPrevious: page.Page > 1,
	}
}
