package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Status is the soft-delete state of a product row.
type Status string

const (
	StatusActive   Status = "A"
	StatusInactive Status = "I"
)

// Product represents a product entity in the catalog.
//
// ID, Status and CreatedAt are assigned by the store on first insert;
// ModifiedAt stays nil until the first update or delete.
type Product struct {
	ID         int64
	Code       string
	Name       string
	Brand      string
	Model      string
	Price      decimal.Decimal
	Stock      int
	Status     Status
	CreatedAt  time.Time
	ModifiedAt *time.Time
}

// IsActive reports whether the product is visible to normal reads.
func (p Product) IsActive() bool {
	return p.Status == StatusActive
}
