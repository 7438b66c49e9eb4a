package repository

import "github.com/shopspring/decimal"

// Pagination carries page-based list parameters. Page is 1-based; SortBy
// is validated against each repository's whitelist before reaching SQL.
type Pagination struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // "ASC" or "DESC"
}

// Offset returns the row offset for the requested page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// CustomerFilter narrows customer list queries.
type CustomerFilter struct {
	Name  string
	Email string
}

// PaymentStatusFilter narrows payment-status list queries.
type PaymentStatusFilter struct {
	Name string
}

// PaymentFilter narrows payment list queries. Zero values mean "no
// constraint"; MinAmount/MaxAmount are pointers so 0.00 stays expressible.
type PaymentFilter struct {
	CustomerID        string
	PaymentStatusID   string
	MerchantReference string
	Currency          string
	MinAmount         *decimal.Decimal
	MaxAmount         *decimal.Decimal
}
