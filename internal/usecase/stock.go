package usecase

import (
	"context"
	"fmt"

	domainErrors "github.com/agrimart/checkout/internal/domain/errors"
	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/domain/repository"
)

// StockValidator checks inventory availability for every line of an order,
// free-gift items included. The policy is all-or-nothing: a single short
// line rejects the whole order with every shortage reported.
//
// This pre-check is advisory; the authoritative reserve is the conditional
// decrement performed inside the order-commit transaction.
type StockValidator struct {
	products repository.ProductRepository
}

// NewStockValidator constructs StockValidator.
func NewStockValidator(products repository.ProductRepository) *StockValidator {
	return &StockValidator{products: products}
}

// Validate reads current availability and aggregates every short item into a
// single *domainErrors.StockError. Quantities for the same product are
// summed across lines before comparison.
func (v *StockValidator) Validate(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	requested := make(map[string]int, len(items))
	names := make(map[string]string, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, seen := requested[it.ProductID]; !seen {
			ids = append(ids, it.ProductID)
		}
		requested[it.ProductID] += it.Quantity
		if names[it.ProductID] == "" {
			names[it.ProductID] = it.Name
		}
	}

	products, err := v.products.GetByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("read stock: %w", err)
	}

	var shortages []domainErrors.StockShortage
	for _, id := range ids {
		available := 0
		name := names[id]
		if p, ok := products[id]; ok {
			available = p.Stock
			name = p.Name
		}
		if available < requested[id] {
			shortages = append(shortages, domainErrors.StockShortage{
				ProductID: id,
				Name:      name,
				Requested: requested[id],
				Available: available,
			})
		}
	}

	if len(shortages) > 0 {
		return &domainErrors.StockError{Shortages: shortages}
	}
	return nil
}
