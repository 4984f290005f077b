package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/agrimart/checkout/internal/domain/model"
	"github.com/agrimart/checkout/internal/domain/repository"
)

// OfferEngine derives automatic promotions from cart composition. It is
// idempotent and never mutates the cart; callers consume the returned
// description.
type OfferEngine struct {
	rules    repository.OfferRuleRepository
	products repository.ProductRepository
}

// NewOfferEngine constructs OfferEngine.
func NewOfferEngine(rules repository.OfferRuleRepository, products repository.ProductRepository) *OfferEngine {
	return &OfferEngine{rules: rules, products: products}
}

// Evaluate applies the highest threshold rule matched by the cart's total
// unit count (not distinct SKU count). Free items are returned as zero-price
// lines with names resolved from the catalog.
func (e *OfferEngine) Evaluate(ctx context.Context, items []model.OrderItem) (model.Offer, error) {
	units := model.TotalUnits(items)
	if units == 0 {
		return model.Offer{}, nil
	}

	rules, err := e.rules.List(ctx)
	if err != nil {
		return model.Offer{}, fmt.Errorf("list offer rules: %w", err)
	}
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].MinUnits > rules[j].MinUnits })

	for _, rule := range rules {
		if units < rule.MinUnits {
			continue
		}
		offer := model.Offer{FreeShipping: rule.FreeShipping}
		if rule.FreeProductID != "" && rule.FreeQuantity > 0 {
			name := rule.FreeProductID
			products, err := e.products.GetByIDs(ctx, []string{rule.FreeProductID})
			if err != nil {
				return model.Offer{}, fmt.Errorf("resolve free item: %w", err)
			}
			if p, ok := products[rule.FreeProductID]; ok {
				name = p.Name
			}
			offer.FreeItems = []model.OrderItem{{
				ProductID: rule.FreeProductID,
				Name:      name,
				UnitPrice: decimal.Zero,
				Quantity:  rule.FreeQuantity,
				FreeItem:  true,
			}}
		}
		return offer, nil
	}

	return model.Offer{}, nil
}
