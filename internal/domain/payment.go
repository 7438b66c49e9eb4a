package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is the aggregate root of the payment workflow. Its current
// status is a foreign reference into the payment-status catalog, never a
// free-form string, and only the payment service writes status
// transitions. The card token is an opaque reference; raw card data is
// never stored.
type Payment struct {
	ID                string
	Amount            decimal.Decimal
	Currency          string
	CardToken         string
	MerchantReference string
	CustomerID        string
	PaymentStatusID   string
	Metadata          Metadata
	CreatedAt         time.Time
	UpdatedAt         time.Time
	DeletedAt         *time.Time

	// Relations, populated only when loaded explicitly.
	Customer     *Customer
	Status       *PaymentStatus
	Transactions []*Transaction
}

// MergeMetadata applies entries on top of the existing metadata bag.
func (p *Payment) MergeMetadata(entries Metadata) {
	p.Metadata = p.Metadata.Merge(entries)
	p.UpdatedAt = time.Now().UTC()
}
