package model

import "github.com/shopspring/decimal"

// Product is a catalog entry with its current stock level. Stock is owned by
// the store; readers must treat any value as possibly stale by write time.
type Product struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Stock int
}
