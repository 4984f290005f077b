package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/agrimart/checkout/internal/domain/model"
)

// ProductRepository reads catalog entries together with current stock.
type ProductRepository interface {
	GetByIDs(ctx context.Context, ids []string) (map[string]model.Product, error)
}

// OfferRuleRepository lists automatic promotion rules, highest threshold first.
type OfferRuleRepository interface {
	List(ctx context.Context) ([]model.OfferRule, error)
}

// SettingRepository exposes the fee configuration store. ShippingFee returns
// ErrNotFound when the store carries no value; callers fall back to the
// configured default.
type SettingRepository interface {
	ShippingFee(ctx context.Context) (decimal.Decimal, error)
}
