package domain

import "time"

// Customer owns payments. Email is stored lower-cased and unique.
type Customer struct {
	ID        string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}
